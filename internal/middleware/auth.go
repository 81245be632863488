package middleware

import (
	"crypto/subtle"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// AccessTokenCookie carries the access token for browser clients.
const AccessTokenCookie = "access_token"

// JWTProtected accepts the access token from the Authorization header or the
// session cookie. Requests carrying a valid X-Admin-Token skip the check so
// AdminRequired can admit them.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.SecretKey)},
		TokenLookup: "header:Authorization,cookie:" + AccessTokenCookie,
		AuthScheme:  "Bearer",
		Filter: func(c *fiber.Ctx) bool {
			return hasAdminToken(c, cfg)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

func hasAdminToken(c *fiber.Ctx, cfg *config.Config) bool {
	if cfg.AdminToken == "" {
		return false
	}
	got := c.Get("X-Admin-Token")
	return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(cfg.AdminToken)) == 1
}

// OptionalJWT verifies a token when one is present and lets anonymous
// requests through unchanged.
func OptionalJWT(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.SecretKey)},
		TokenLookup: "header:Authorization,cookie:" + AccessTokenCookie,
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Next()
		},
	})
}
