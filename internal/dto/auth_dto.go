package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/google/uuid"
)

type RequestOTPRequest struct {
	Mobile string `json:"mobile" form:"mobile"`
}

type VerifyOTPRequest struct {
	Mobile string `json:"mobile" form:"mobile"`
	OTP    string `json:"otp" form:"otp"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type GoogleSignInRequest struct {
	IDToken string `json:"id_token" form:"id_token"`
}

type StaffLoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email,omitempty"`
	Mobile         string    `json:"mobile,omitempty"`
	Name           string    `json:"name"`
	AuthType       string    `json:"auth_type"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	IsStaff        bool      `json:"is_staff"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.EmailValue(),
		Mobile:         u.MobileValue(),
		Name:           u.Name,
		AuthType:       u.AuthType,
		ProfilePicture: u.ProfilePicture,
		IsStaff:        u.IsStaff,
	}
}

// LoginOptions tells a client which sign-in methods are available.
type LoginOptions struct {
	GoogleEnabled  bool   `json:"google_enabled"`
	GoogleLoginURL string `json:"google_login_url,omitempty"`
	OTPRequestURL  string `json:"otp_request_url"`
	OTPVerifyURL   string `json:"otp_verify_url"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
