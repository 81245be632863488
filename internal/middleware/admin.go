package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/config"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/dto"
	"github.com/ahmetcoskunkizilkaya/student-onboarding/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired admits a request when any of these hold:
// 1. X-Admin-Token matches the configured token
// 2. the token's email or subject is in the configured admin lists
// 3. the identity is an active staff member
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(strings.ToLower(cfg.AdminEmails))
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if hasAdminToken(c, cfg) {
			return c.Next()
		}

		userID, err := CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		email := strings.ToLower(claimString(c, "email"))
		if (email != "" && contains(adminEmails, email)) || contains(adminUserIDs, userID.String()) {
			return c.Next()
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).Select("id", "is_staff", "is_active").First(&user, "id = ?", userID).Error; err == nil {
			if user.IsStaff && user.IsActive {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
