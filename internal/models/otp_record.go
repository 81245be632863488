package models

import "time"

const (
	GatewayStatusSent    = "sent"
	GatewayStatusFailed  = "failed"
	GatewayStatusConsole = "console"
)

// OTPRecord is one issued code. Rows are kept after verification for audit.
type OTPRecord struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Mobile        string     `gorm:"size:15;not null;index:idx_otp_logs_mobile_code" json:"mobile"`
	Code          string     `gorm:"size:6;not null;index:idx_otp_logs_mobile_code" json:"otp"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"created_at"`
	Expiry        time.Time  `gorm:"not null" json:"expiry"`
	Verified      bool       `gorm:"not null;default:false;index" json:"verified"`
	VerifiedAt    *time.Time `json:"verified_at"`
	GatewayStatus string     `gorm:"size:30" json:"gateway_status"`
}

func (OTPRecord) TableName() string { return "otp_logs" }

func (r *OTPRecord) IsExpired(now time.Time) bool {
	return now.After(r.Expiry)
}
