package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Core
	SecretKey string
	Debug     bool
	AppEnv    string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Sessions (JWT access + hashed refresh tokens)
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	SecureCookies    bool

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// OTP / SMS gateway
	TwoFactorAPIKey   string
	TwoFactorBaseURL  string
	TwoFactorTemplate string
	OTPCountryCode    string
	OTPExpiry         time.Duration
	OTPGatewayTimeout time.Duration

	// Profile wizard
	MediaRoot           string
	ProfileLockOnSubmit bool

	// Admin
	AdminEmails  string
	AdminUserIDs string
	AdminToken   string

	// Server
	Port          string
	CORSOrigins   string
	APIRateLimit  int
	AuthRateLimit int

	// Logging
	LogFile          string
	LogRetentionDays int
	SentryDSN        string
}

func Load() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		SecretKey: getEnv("SECRET_KEY", getEnv("JWT_SECRET", "")),
		Debug:     parseBool(getEnv("DEBUG", "false"), false),
		AppEnv:    getEnv("APP_ENV", "development"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "student_platform"),
		DBSSLMode:  getEnv("DB_SSLMODE", "require"),
		SQLitePath: getEnv("SQLITE_PATH", "student_platform.db"),

		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),
		SecureCookies:    parseBool(getEnv("SECURE_COOKIES", "true"), true),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),

		TwoFactorAPIKey:   getEnv("TWO_FACTOR_API_KEY", ""),
		TwoFactorBaseURL:  getEnv("TWO_FACTOR_BASE_URL", "https://2factor.in"),
		TwoFactorTemplate: getEnv("TWO_FACTOR_TEMPLATE", "OTP1"),
		OTPCountryCode:    getEnv("OTP_COUNTRY_CODE", "+91"),
		OTPExpiry:         time.Duration(parseInt(getEnv("OTP_EXPIRY_SECONDS", "90"), 90)) * time.Second,
		OTPGatewayTimeout: parseDuration(getEnv("OTP_GATEWAY_TIMEOUT", "10s"), 10*time.Second),

		MediaRoot:           getEnv("MEDIA_ROOT", "media"),
		ProfileLockOnSubmit: parseBool(getEnv("PROFILE_LOCK_ON_SUBMIT", "true"), true),

		AdminEmails:  getEnv("ADMIN_EMAILS", ""),
		AdminUserIDs: getEnv("ADMIN_USER_IDS", ""),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		APIRateLimit:  parseInt(getEnv("API_RATE_LIMIT", "60"), 60),
		AuthRateLimit: parseInt(getEnv("AUTH_RATE_LIMIT", "10"), 10),

		LogFile:          getEnv("LOG_FILE", ""),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY environment variable is required"))
	}
	switch c.DBDriver {
	case "postgres":
		if c.DBPassword == "" {
			errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
		}
	case "sqlite":
	default:
		errs = append(errs, errors.New("DB_DRIVER must be postgres or sqlite"))
	}
	if c.OTPExpiry <= 0 {
		errs = append(errs, errors.New("OTP_EXPIRY_SECONDS must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// GoogleEnabled is true once both OAuth client credentials are configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return b
}
