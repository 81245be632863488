package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func rateLimit(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	m *metrics.Metrics,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}
	app.Static("/media", cfg.MediaRoot, fiber.Static{Browse: false})

	api := app.Group(handlers.APIPrefix)

	// General API rate limiter, per IP
	api.Use(rateLimit(cfg.APIRateLimit))

	api.Get("/health", healthHandler.Check)

	// Sign-in endpoints get a stricter per-IP limit
	authLimit := rateLimit(cfg.AuthRateLimit)
	api.Get("/login", middleware.OptionalJWT(cfg), authHandler.LoginOptions)
	api.Post("/login/mobile", authLimit, authHandler.RequestOTP)
	api.Post("/verify-otp", authLimit, authHandler.VerifyOTP)
	api.Get("/logout", authHandler.Logout)
	api.Post("/logout", authHandler.Logout)

	auth := api.Group("/auth", authLimit)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/google/login", authHandler.GoogleLogin)
	auth.Get("/google/callback", authHandler.GoogleCallback)
	auth.Post("/google", authHandler.GoogleSignIn)

	// Student wizard (JWT required)
	protected := middleware.JWTProtected(cfg)
	profile := api.Group("/profile", protected)
	profile.Get("/start", profileHandler.Start)
	profile.Get("/step/:n", profileHandler.Step)
	profile.Post("/step/:n", profileHandler.SubmitStep)
	profile.Post("/save-step", profileHandler.SaveStep)
	profile.Get("/review", profileHandler.Review)
	profile.Post("/submit", profileHandler.Submit)
	profile.Get("/complete", profileHandler.Complete)
	profile.Post("/upload-documents", profileHandler.UploadDocuments)
	api.Get("/dashboard", protected, profileHandler.Dashboard)

	// Admin console
	api.Post("/admin/login", authLimit, authHandler.StaffLogin)
	admin := api.Group("/admin", protected, middleware.AdminRequired(db, cfg))
	admin.Get("/profiles", adminHandler.ListProfiles)
	admin.Get("/profiles/export.csv", adminHandler.ExportCSV)
	admin.Get("/profiles/export.xlsx", adminHandler.ExportXLSX)
	admin.Get("/profiles/:id", adminHandler.GetProfile)
	admin.Get("/experiences", adminHandler.ListExperiences)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/otp-logs", adminHandler.ListOTPLogs)
}
