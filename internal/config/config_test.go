package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OTP_EXPIRY_SECONDS", "")
	t.Setenv("GOOGLE_REDIRECT_URL", "")

	cfg := Load()

	if cfg.OTPExpiry != 90*time.Second {
		t.Errorf("OTPExpiry = %v, want 90s", cfg.OTPExpiry)
	}
	if cfg.OTPCountryCode != "+91" {
		t.Errorf("OTPCountryCode = %q, want +91", cfg.OTPCountryCode)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
	if !cfg.ProfileLockOnSubmit {
		t.Error("ProfileLockOnSubmit should default to true")
	}
	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Errorf("JWTAccessExpiry = %v, want 15m", cfg.JWTAccessExpiry)
	}
	if !strings.HasSuffix(cfg.GoogleRedirectURL, "/api/auth/google/callback") {
		t.Errorf("GoogleRedirectURL = %q, want the mounted callback route", cfg.GoogleRedirectURL)
	}
}

func TestLoad_OTPExpirySeconds(t *testing.T) {
	t.Setenv("OTP_EXPIRY_SECONDS", "300")
	if got := Load().OTPExpiry; got != 5*time.Minute {
		t.Errorf("OTPExpiry = %v, want 5m", got)
	}

	t.Setenv("OTP_EXPIRY_SECONDS", "ninety")
	if got := Load().OTPExpiry; got != 90*time.Second {
		t.Errorf("malformed OTP_EXPIRY_SECONDS should fall back to 90s, got %v", got)
	}
}

func TestLoad_SecretKeyFallsBackToJWTSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "legacy-secret")

	if got := Load().SecretKey; got != "legacy-secret" {
		t.Errorf("SecretKey = %q, want legacy-secret", got)
	}

	t.Setenv("SECRET_KEY", "primary-secret")
	if got := Load().SecretKey; got != "primary-secret" {
		t.Errorf("SecretKey = %q, want primary-secret", got)
	}
}

func TestLoad_BoolParsing(t *testing.T) {
	t.Setenv("DEBUG", "true")
	t.Setenv("PROFILE_LOCK_ON_SUBMIT", "false")

	cfg := Load()
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.ProfileLockOnSubmit {
		t.Error("ProfileLockOnSubmit should be false")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", OTPExpiry: time.Minute}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate should fail without secret and db password")
	}
	if !strings.Contains(err.Error(), "SECRET_KEY") || !strings.Contains(err.Error(), "DB_PASSWORD") {
		t.Errorf("unexpected error: %v", err)
	}

	cfg = &Config{SecretKey: "s", DBDriver: "sqlite", OTPExpiry: time.Minute}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sqlite config without password should validate, got %v", err)
	}

	cfg = &Config{SecretKey: "s", DBDriver: "mysql", OTPExpiry: time.Minute}
	if err := cfg.Validate(); err == nil {
		t.Error("unsupported driver should fail validation")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "require"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=require TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
