package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrNoIdentity = errors.New("no authenticated identity")

func claims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	return mc, ok
}

// CurrentUserID returns the identity id from the verified access token.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	mc, ok := claims(c)
	if !ok {
		return uuid.Nil, ErrNoIdentity
	}
	sub, ok := mc["sub"].(string)
	if !ok {
		return uuid.Nil, ErrNoIdentity
	}
	return uuid.Parse(sub)
}

// Authenticated reports whether the request carries a verified access token.
func Authenticated(c *fiber.Ctx) bool {
	_, err := CurrentUserID(c)
	return err == nil
}

func claimString(c *fiber.Ctx, key string) string {
	mc, ok := claims(c)
	if !ok {
		return ""
	}
	s, _ := mc[key].(string)
	return s
}
