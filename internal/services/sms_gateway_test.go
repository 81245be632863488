package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
)

func gatewayConfig(url string) *config.Config {
	return &config.Config{
		TwoFactorAPIKey:   "test-key",
		TwoFactorBaseURL:  url,
		TwoFactorTemplate: "OTP1",
		OTPCountryCode:    "+91",
		OTPGatewayTimeout: 2 * time.Second,
	}
}

func TestTwoFactorGateway_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Status":"Success","Details":"session-id"}`))
	}))
	defer srv.Close()

	gw := NewTwoFactorGateway(gatewayConfig(srv.URL))
	if err := gw.SendOTP(context.Background(), "9876543210", "123456"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if want := "/API/V1/test-key/SMS/+919876543210/123456/OTP1"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}

func TestTwoFactorGateway_KeepsInternationalPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"Status":"Success","Details":"ok"}`))
	}))
	defer srv.Close()

	gw := NewTwoFactorGateway(gatewayConfig(srv.URL))
	if err := gw.SendOTP(context.Background(), "+447700900123", "654321"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if want := "/API/V1/test-key/SMS/+447700900123/654321/OTP1"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}

func TestTwoFactorGateway_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":"Error","Details":"Invalid API Key"}`))
	}))
	defer srv.Close()

	gw := NewTwoFactorGateway(gatewayConfig(srv.URL))
	err := gw.SendOTP(context.Background(), "9876543210", "123456")
	if !errors.Is(err, ErrGatewayRejected) {
		t.Errorf("error = %v, want ErrGatewayRejected", err)
	}
}

func TestTwoFactorGateway_ErrorBodyIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"Status":"Error","Details":"Invalid Phone Number"}`))
	}))
	defer srv.Close()

	gw := NewTwoFactorGateway(gatewayConfig(srv.URL))
	err := gw.SendOTP(context.Background(), "9876543210", "123456")
	if !errors.Is(err, ErrGatewayRejected) {
		t.Fatalf("error = %v, want ErrGatewayRejected", err)
	}
	if !strings.Contains(err.Error(), "Invalid Phone Number") {
		t.Errorf("error %q should carry the gateway details", err)
	}
}

func TestTwoFactorGateway_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	gw := NewTwoFactorGateway(gatewayConfig(srv.URL))
	if err := gw.SendOTP(context.Background(), "9876543210", "123456"); err == nil {
		t.Error("expected an error for a 502 response")
	}
}

func TestNewSMSSender_ConsoleWithoutKey(t *testing.T) {
	if _, ok := NewSMSSender(&config.Config{}).(ConsoleSender); !ok {
		t.Error("expected ConsoleSender when no API key is configured")
	}
}
