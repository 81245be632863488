package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
	"github.com/go-resty/resty/v2"
)

var ErrGatewayRejected = errors.New("sms gateway rejected the request")

// SMSSender delivers a one-time code to a mobile number.
type SMSSender interface {
	SendOTP(ctx context.Context, mobile, code string) error
}

// NewSMSSender returns the 2Factor client, or a console sender when no API key is set.
func NewSMSSender(cfg *config.Config) SMSSender {
	if cfg.TwoFactorAPIKey == "" {
		slog.Warn("TWO_FACTOR_API_KEY not set, OTP codes will be written to the log")
		return ConsoleSender{}
	}
	return NewTwoFactorGateway(cfg)
}

// TwoFactorGateway talks to the 2Factor.in SMS OTP API.
type TwoFactorGateway struct {
	client      *resty.Client
	apiKey      string
	template    string
	countryCode string
}

type twoFactorResponse struct {
	Status  string `json:"Status"`
	Details string `json:"Details"`
}

func NewTwoFactorGateway(cfg *config.Config) *TwoFactorGateway {
	return &TwoFactorGateway{
		client: resty.New().
			SetBaseURL(strings.TrimRight(cfg.TwoFactorBaseURL, "/")).
			SetTimeout(cfg.OTPGatewayTimeout),
		apiKey:      cfg.TwoFactorAPIKey,
		template:    cfg.TwoFactorTemplate,
		countryCode: cfg.OTPCountryCode,
	}
}

func (g *TwoFactorGateway) SendOTP(ctx context.Context, mobile, code string) error {
	var out twoFactorResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"key":      g.apiKey,
			"mobile":   e164(g.countryCode, mobile),
			"code":     code,
			"template": g.template,
		}).
		ForceContentType("application/json").
		SetResult(&out).
		SetError(&out).
		Get("/API/V1/{key}/SMS/{mobile}/{code}/{template}")
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	if resp.IsError() || out.Status != "Success" {
		return fmt.Errorf("%w: status %d, %s %s", ErrGatewayRejected, resp.StatusCode(), out.Status, out.Details)
	}
	return nil
}

// ConsoleSender logs codes instead of sending them. Local development only.
type ConsoleSender struct{}

func (ConsoleSender) SendOTP(_ context.Context, mobile, code string) error {
	slog.Info("otp issued (console mode)", "mobile", mobile, "otp", code)
	return nil
}

func e164(countryCode, mobile string) string {
	if strings.HasPrefix(mobile, "+") {
		return mobile
	}
	return countryCode + mobile
}
