package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/dto"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	refreshTokenCookie = "refresh_token"
	oauthStateCookie   = "oauth_state"
	oauthStateTTL      = 10 * time.Minute
)

type AuthHandler struct {
	authService *services.AuthService
	otpService  *services.OTPService
	google      *services.GoogleOAuth
	cfg         *config.Config
}

// NewAuthHandler wires the sign-in endpoints. google may be nil when OAuth
// credentials are not configured.
func NewAuthHandler(authService *services.AuthService, otpService *services.OTPService, google *services.GoogleOAuth, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, otpService: otpService, google: google, cfg: cfg}
}

// LoginOptions lists the available sign-in methods. Signed-in users are sent
// on to the wizard.
func (h *AuthHandler) LoginOptions(c *fiber.Ctx) error {
	if middleware.Authenticated(c) {
		return redirect(c, startPath)
	}
	opts := dto.LoginOptions{
		GoogleEnabled: h.google != nil,
		OTPRequestURL: APIPrefix + "/login/mobile/",
		OTPVerifyURL:  APIPrefix + "/verify-otp/",
	}
	if h.google != nil {
		opts.GoogleLoginURL = APIPrefix + "/auth/google/login"
	}
	return c.JSON(opts)
}

func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req dto.RequestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return refuse(c, fiber.StatusBadRequest, "Invalid request body", "")
	}

	record, err := h.otpService.RequestOTP(c.UserContext(), req.Mobile)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMobile):
			return refuse(c, fiber.StatusBadRequest, "Invalid mobile number", "")
		case errors.Is(err, services.ErrOTPDelivery):
			return refuse(c, fiber.StatusServiceUnavailable, err.Error(), "")
		}
		return err
	}

	return succeed(c, "OTP sent successfully", fiber.Map{
		"mobile":     record.Mobile,
		"expires_in": int(h.cfg.OTPExpiry.Seconds()),
	})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return refuse(c, fiber.StatusBadRequest, "Invalid request body", "")
	}

	user, err := h.otpService.VerifyOTP(c.UserContext(), req.Mobile, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOTPRequired):
			return refuse(c, fiber.StatusBadRequest, "Mobile and OTP are required", "")
		case errors.Is(err, services.ErrInvalidCode):
			return refuse(c, fiber.StatusUnauthorized, "Invalid OTP", "")
		case errors.Is(err, services.ErrOTPExpired):
			return refuse(c, fiber.StatusUnauthorized, "OTP has expired", "")
		case errors.Is(err, services.ErrAccountDisabled):
			return refuse(c, fiber.StatusForbidden, "Your account has been disabled", "")
		}
		return err
	}

	resp, err := h.startSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Success: true, Message: "Login successful!", Redirect: startPath, Data: resp})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	token := req.RefreshToken
	if token == "" {
		token = c.Cookies(refreshTokenCookie)
	}
	if token == "" {
		return fail(c, fiber.StatusBadRequest, "Refresh token is required")
	}

	resp, err := h.authService.Refresh(c.UserContext(), token, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrAccountDisabled) {
			h.clearSession(c)
			return fail(c, fiber.StatusUnauthorized, err.Error())
		}
		return err
	}
	h.setSession(c, resp)
	return c.JSON(resp)
}

// Logout revokes the refresh token from the body or cookie and clears the
// session cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	token := req.RefreshToken
	if token == "" {
		token = c.Cookies(refreshTokenCookie)
	}
	if token != "" {
		if err := h.authService.Logout(c.UserContext(), token); err != nil {
			slog.Error("logout failed", "action", "logout", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Failed to logout")
		}
	}
	h.clearSession(c)
	return c.JSON(dto.Envelope{Success: true, Message: "Logged out successfully", Redirect: homePath})
}

// GoogleLogin redirects to Google's consent screen.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	if h.google == nil {
		return fail(c, fiber.StatusServiceUnavailable, services.ErrGoogleNotConfigured.Error())
	}
	state, err := services.NewOAuthState()
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     APIPrefix + "/auth/google",
		Expires:  time.Now().Add(oauthStateTTL),
		HTTPOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(h.google.AuthCodeURL(state), fiber.StatusFound)
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if h.google == nil {
		return fail(c, fiber.StatusServiceUnavailable, services.ErrGoogleNotConfigured.Error())
	}
	if msg := c.Query("error"); msg != "" {
		return fail(c, fiber.StatusUnauthorized, "Google sign-in was cancelled: "+msg)
	}

	state := c.Cookies(oauthStateCookie)
	c.ClearCookie(oauthStateCookie)
	if state == "" || c.Query("state") != state {
		return fail(c, fiber.StatusBadRequest, "Invalid OAuth state")
	}
	code := c.Query("code")
	if code == "" {
		return fail(c, fiber.StatusBadRequest, "Authorization code is required")
	}

	idToken, err := h.google.ExchangeIDToken(c.UserContext(), code)
	if err != nil {
		slog.Error("google code exchange failed", "action", "google_callback", "error", err)
		return fail(c, fiber.StatusBadGateway, "Google sign-in failed")
	}
	user, err := h.authService.GoogleSignIn(c.UserContext(), idToken)
	if err != nil {
		return h.googleError(c, err)
	}
	if _, err := h.startSession(c, user); err != nil {
		return err
	}
	return redirect(c, startPath)
}

// GoogleSignIn accepts an ID token already obtained by the client.
func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	var req dto.GoogleSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.IDToken) == "" {
		return fail(c, fiber.StatusBadRequest, "ID token is required")
	}

	user, err := h.authService.GoogleSignIn(c.UserContext(), req.IDToken)
	if err != nil {
		return h.googleError(c, err)
	}
	resp, err := h.startSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Success: true, Message: "Login successful!", Redirect: startPath, Data: resp})
}

func (h *AuthHandler) googleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrGoogleNotConfigured):
		return fail(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrInvalidIDToken), errors.Is(err, services.ErrGoogleEmailUnverified):
		return fail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrAccountDisabled):
		return fail(c, fiber.StatusForbidden, err.Error())
	}
	return err
}

// StaffLogin signs in an admin console user with email and password.
func (h *AuthHandler) StaffLogin(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.authService.StaffLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return fail(c, fiber.StatusUnauthorized, err.Error())
		}
		if errors.Is(err, services.ErrAccountDisabled) {
			return fail(c, fiber.StatusForbidden, err.Error())
		}
		return err
	}
	resp, err := h.startSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) startSession(c *fiber.Ctx, user *models.User) (*dto.AuthResponse, error) {
	resp, err := h.authService.StartSession(c.UserContext(), user, c.Get(fiber.HeaderUserAgent))
	if err != nil {
		if errors.Is(err, services.ErrAccountDisabled) {
			return nil, fiber.NewError(fiber.StatusForbidden, err.Error())
		}
		return nil, err
	}
	h.setSession(c, resp)
	slog.Info("session started", "identity_id", user.ID.String(), "action", "login_"+user.AuthType)
	return resp, nil
}

func (h *AuthHandler) setSession(c *fiber.Ctx, resp *dto.AuthResponse) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    resp.AccessToken,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshTokenCookie,
		Value:    resp.RefreshToken,
		Path:     APIPrefix,
		Expires:  time.Now().Add(h.cfg.JWTRefreshExpiry),
		HTTPOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSession(c *fiber.Ctx) {
	for _, ck := range []struct{ name, path string }{
		{middleware.AccessTokenCookie, "/"},
		{refreshTokenCookie, APIPrefix},
	} {
		c.Cookie(&fiber.Cookie{
			Name:     ck.name,
			Value:    "",
			Path:     ck.path,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   h.cfg.SecureCookies,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
