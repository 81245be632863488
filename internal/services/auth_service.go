package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/dto"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidToken          = errors.New("invalid or expired refresh token")
	ErrUserNotFound          = errors.New("user not found")
	ErrAccountDisabled       = errors.New("account is disabled")
	ErrGoogleNotConfigured   = errors.New("google sign-in is not configured")
	ErrGoogleEmailUnverified = errors.New("google account email is not verified")
	ErrWeakPassword          = errors.New("password must be at least 8 characters")
)

// IDTokenVerifier checks a Google ID token for the configured client.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken, clientID string) (*GoogleClaims, error)
}

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	google IDTokenVerifier
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, cfg *config.Config, google IDTokenVerifier) *AuthService {
	return &AuthService{
		db:     db,
		cfg:    cfg,
		google: google,
		now:    time.Now,
	}
}

// StartSession stamps last_login and issues a fresh token pair for user.
func (s *AuthService) StartSession(ctx context.Context, user *models.User, userAgent string) (*dto.AuthResponse, error) {
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	now := s.now()
	if err := s.db.WithContext(ctx).Model(user).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("failed to stamp last login: %w", err)
	}
	user.LastLogin = &now
	return s.generateTokenPair(ctx, user, userAgent)
}

// Refresh rotates a refresh token. Each token can be exchanged once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, userAgent string) (*dto.AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}
	db := s.db.WithContext(ctx)

	var stored models.RefreshToken
	if err := db.Where("token_hash = ? AND revoked = ?", hashToken(refreshToken), false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	res := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", stored.ID, false).
		Update("revoked", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected != 1 || s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return s.generateTokenPair(ctx, &user, userAgent)
}

// Logout revokes the refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(refreshToken)).
		Update("revoked", true).Error
}

// GoogleSignIn verifies an ID token and resolves it to a user.
func (s *AuthService) GoogleSignIn(ctx context.Context, idToken string) (*models.User, error) {
	if !s.cfg.GoogleEnabled() || s.google == nil {
		return nil, ErrGoogleNotConfigured
	}
	if idToken == "" {
		return nil, ErrInvalidIDToken
	}
	claims, err := s.google.Verify(ctx, idToken, s.cfg.GoogleClientID)
	if err != nil {
		slog.Warn("google token verification failed", "action", "google_sign_in", "error", err)
		return nil, err
	}
	return s.ResolveGoogleUser(ctx, claims)
}

// ResolveGoogleUser finds the user by Google subject, then by email (linking
// the account), and otherwise creates one.
func (s *AuthService) ResolveGoogleUser(ctx context.Context, claims *GoogleClaims) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email != "" && !claims.EmailVerified {
		return nil, ErrGoogleEmailUnverified
	}
	sub := claims.Subject

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("google_uid = ?", sub).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up user: %w", err)
		}

		if email != "" {
			err = tx.Where("email = ?", email).First(&user).Error
			if err == nil {
				updates := map[string]interface{}{
					"google_uid": sub,
					"auth_type":  models.AuthTypeGoogle,
				}
				if user.ProfilePicture == "" && claims.Picture != "" {
					updates["profile_picture"] = claims.Picture
				}
				if err := tx.Model(&user).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to link google account: %w", err)
				}
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up user: %w", err)
			}
		}

		name := claims.Name
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		user = models.User{
			Name:           name,
			AuthType:       models.AuthTypeGoogle,
			GoogleUID:      &sub,
			ProfilePicture: claims.Picture,
			IsActive:       true,
			DateJoined:     s.now(),
		}
		if email != "" {
			user.Email = &email
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create google user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// StaffLogin authenticates an admin console user by email and password.
func (s *AuthService) StaffLogin(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ? AND is_staff = ?", email, true).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// UpsertStaff creates a staff user or resets an existing user's password and
// grants staff access.
func (s *AuthService) UpsertStaff(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.ErrIdentityKeyRequired
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:    &email,
			Name:     name,
			AuthType: models.AuthTypeOTP,
			Password: string(hash),
			IsActive: true,
			IsStaff:  true,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create staff user: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	updates := map[string]interface{}{"password": string(hash), "is_staff": true, "is_active": true}
	if name != "" {
		updates["name"] = name
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update staff user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User, userAgent string) (*dto.AuthResponse, error) {
	accessToken, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user, userAgent)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         dto.NewUserResponse(user),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.JWTAccessExpiry)
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"email":     user.EmailValue(),
		"mobile":    user.MobileValue(),
		"auth_type": user.AuthType,
		"is_staff":  user.IsStaff,
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User, userAgent string) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	if len(userAgent) > 255 {
		userAgent = userAgent[:255]
	}
	record := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry),
		UserAgent: userAgent,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
