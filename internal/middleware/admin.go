package middleware

import (
	"strings"

	"github.com/Kaannpy/Berber-randevu-sistemi/internal/auth"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/config"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/dto"
	"github.com/Kaannpy/Berber-randevu-sistemi/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired checks, in order: the X-Admin-Token header, config-based
// admin email/id lists, and finally the user's role column in the DB.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if c.Get("X-Admin-Token") == cfg.AdminToken {
				return c.Next()
			}
		}

		userID, err := auth.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, auth.GetEmail(c)) || contains(adminUserIDs, userID.String()) {
			return c.Next()
		}

		// Role may have changed since the token was minted; the DB wins.
		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err == nil {
			if user.Role == "admin" {
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
