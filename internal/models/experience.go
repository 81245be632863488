package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Experience is a prior job or internship listed under a profile's education section.
type Experience struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentProfileID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_profile_id"`
	CompanyName      string    `gorm:"size:200;not null" json:"company_name"`
	Role             string    `gorm:"size:100;not null" json:"role"`
	Duration         string    `gorm:"size:50" json:"duration"`
	Description      string    `gorm:"type:text" json:"description"`
	CreatedAt        time.Time `json:"created_at"`
}

func (e *Experience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
