package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidMobile = errors.New("please enter a valid mobile number")
	ErrOTPRequired   = errors.New("mobile number and OTP are required")
	ErrInvalidCode   = errors.New("invalid OTP")
	ErrOTPExpired    = errors.New("OTP has expired")
	ErrOTPDelivery   = errors.New("OTP service unavailable, please try again")
)

const minMobileLength = 10

// OTPService issues and redeems one-time codes for mobile sign-in.
type OTPService struct {
	db      *gorm.DB
	sender  SMSSender
	expiry  time.Duration
	random  io.Reader
	now     func() time.Time
	metrics *metrics.Metrics
}

type OTPOption func(*OTPService)

// WithRandom replaces crypto/rand as the code source.
func WithRandom(r io.Reader) OTPOption {
	return func(s *OTPService) { s.random = r }
}

func WithClock(now func() time.Time) OTPOption {
	return func(s *OTPService) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) OTPOption {
	return func(s *OTPService) { s.metrics = m }
}

func NewOTPService(db *gorm.DB, sender SMSSender, expiry time.Duration, opts ...OTPOption) *OTPService {
	s := &OTPService{
		db:     db,
		sender: sender,
		expiry: expiry,
		random: rand.Reader,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestOTP records a fresh code for mobile and hands it to the SMS gateway.
// The ledger row is kept even when delivery fails.
func (s *OTPService) RequestOTP(ctx context.Context, mobile string) (*models.OTPRecord, error) {
	mobile = strings.TrimSpace(mobile)
	if len(mobile) < minMobileLength {
		s.metrics.OTPRequested("invalid")
		return nil, ErrInvalidMobile
	}

	code, err := s.generateCode()
	if err != nil {
		return nil, err
	}

	now := s.now()
	record := models.OTPRecord{
		Mobile:    mobile,
		Code:      code,
		CreatedAt: now,
		Expiry:    now.Add(s.expiry),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to store OTP: %w", err)
	}

	status := models.GatewayStatusSent
	if _, console := s.sender.(ConsoleSender); console {
		status = models.GatewayStatusConsole
	}
	sendErr := s.sender.SendOTP(ctx, mobile, code)
	if sendErr != nil {
		status = models.GatewayStatusFailed
	}
	if err := s.db.WithContext(ctx).Model(&record).Update("gateway_status", status).Error; err != nil {
		slog.Error("failed to record gateway status", "otp_id", record.ID, "error", err)
	}
	record.GatewayStatus = status

	if sendErr != nil {
		slog.Error("otp delivery failed", "mobile", mobile, "action", "otp_request", "error", sendErr)
		s.metrics.OTPRequested("failed")
		return &record, ErrOTPDelivery
	}
	s.metrics.OTPRequested("sent")
	return &record, nil
}

// VerifyOTP redeems the newest unverified code matching (mobile, code) and
// returns the user for that mobile, creating it on first sign-in. A code can be
// redeemed at most once even under concurrent attempts. Codes sent to a
// disabled account are left unredeemed.
func (s *OTPService) VerifyOTP(ctx context.Context, mobile, code string) (*models.User, error) {
	mobile = strings.TrimSpace(mobile)
	code = strings.TrimSpace(code)
	if mobile == "" || code == "" {
		return nil, ErrOTPRequired
	}

	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.OTPRecord
		err := tx.Where("mobile = ? AND code = ? AND verified = ?", mobile, code, false).
			Order("created_at DESC").Order("id DESC").
			First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCode
		}
		if err != nil {
			return fmt.Errorf("failed to look up OTP: %w", err)
		}

		now := s.now()
		if record.IsExpired(now) {
			return ErrOTPExpired
		}

		existing, err := findMobileUser(tx, mobile)
		if err != nil {
			return err
		}
		if existing != nil && !existing.IsActive {
			return ErrAccountDisabled
		}

		res := tx.Model(&models.OTPRecord{}).
			Where("id = ? AND verified = ?", record.ID, false).
			Updates(map[string]interface{}{"verified": true, "verified_at": now})
		if res.Error != nil {
			return fmt.Errorf("failed to mark OTP verified: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrInvalidCode
		}

		if existing != nil {
			user = existing
			return nil
		}
		user, err = newMobileUser(tx, mobile, now)
		return err
	})
	if err != nil {
		s.metrics.OTPVerified(verifyResult(err))
		return nil, err
	}
	s.metrics.OTPVerified("ok")
	return user, nil
}

func findMobileUser(tx *gorm.DB, mobile string) (*models.User, error) {
	var user models.User
	err := tx.Where("mobile = ?", mobile).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

func newMobileUser(tx *gorm.DB, mobile string, now time.Time) (*models.User, error) {
	user := models.User{
		Mobile:     &mobile,
		AuthType:   models.AuthTypeOTP,
		IsActive:   true,
		DateJoined: now,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// generateCode draws uniformly from [100000, 999999].
func (s *OTPService) generateCode() (string, error) {
	n, err := rand.Int(s.random, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, ErrOTPExpired):
		return "expired"
	case errors.Is(err, ErrInvalidCode), errors.Is(err, ErrOTPRequired):
		return "invalid"
	case errors.Is(err, ErrAccountDisabled):
		return "disabled"
	}
	return "error"
}
