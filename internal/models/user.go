package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuthTypeOTP    = "otp"
	AuthTypeGoogle = "google"
)

var ErrIdentityKeyRequired = errors.New("user must have an email or a mobile number")

// User is an account keyed by email, mobile, or both.
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email          *string    `gorm:"size:255;uniqueIndex" json:"email"`
	Mobile         *string    `gorm:"size:15;uniqueIndex" json:"mobile"`
	Name           string     `gorm:"size:255" json:"name"`
	AuthType       string     `gorm:"size:10;not null;default:'otp'" json:"auth_type"`
	GoogleUID      *string    `gorm:"size:255;uniqueIndex" json:"-"`
	ProfilePicture string     `gorm:"size:500" json:"profile_picture,omitempty"`
	Password       string     `json:"-"`
	IsActive       bool       `gorm:"not null;default:true" json:"is_active"`
	IsStaff        bool       `gorm:"not null;default:false" json:"is_staff"`
	DateJoined     time.Time  `gorm:"not null" json:"date_joined"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if (u.Email == nil || *u.Email == "") && (u.Mobile == nil || *u.Mobile == "") {
		return ErrIdentityKeyRequired
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now()
	}
	return nil
}

// Contact returns the email when present, otherwise the mobile number.
func (u *User) Contact() string {
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	if u.Mobile != nil {
		return *u.Mobile
	}
	return ""
}

func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

func (u *User) MobileValue() string {
	if u.Mobile == nil {
		return ""
	}
	return *u.Mobile
}
