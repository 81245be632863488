package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// APIPrefix is where every route in this package is mounted.
const APIPrefix = "/api"

// Client-side locations returned as redirect hints in JSON responses.
const (
	homePath      = "/"
	loginPath     = "/login/"
	startPath     = "/profile/start/"
	reviewPath    = "/profile/review/"
	completePath  = "/profile/complete/"
	dashboardPath = "/dashboard/"
)

func stepPath(n int) string {
	return fmt.Sprintf("/profile/step/%d/", n)
}

// redirect sends a browser to the API route serving path.
func redirect(c *fiber.Ctx, path string) error {
	return c.Redirect(APIPrefix+path, fiber.StatusFound)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func succeed(c *fiber.Ctx, message string, data any) error {
	return c.JSON(dto.Envelope{Success: true, Message: message, Data: data})
}

func refuse(c *fiber.Ctx, status int, message, next string) error {
	return c.Status(status).JSON(dto.Envelope{Success: false, Message: message, Redirect: next})
}

// ErrorHandler hides server error details from clients and reports them to
// Sentry when a hub is attached to the request.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return fail(c, code, message)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
