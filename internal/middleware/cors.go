package middleware

import (
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Authorization, Accept, X-Admin-Token, X-Request-ID",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		// Session cookies need credentials, which fiber refuses with a wildcard origin.
		AllowCredentials: cfg.CORSOrigins != "*",
	})
}
