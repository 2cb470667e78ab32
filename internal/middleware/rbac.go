package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classwork-go-api/internal/utils"
)

// RequireRole ensures the caller is authenticated and carries the expected
// role. A missing identity yields 401 before any role comparison; a wrong role
// yields 403.
func RequireRole(role string) fiber.Handler {
	required := strings.ToLower(strings.TrimSpace(role))

	return func(c *fiber.Ctx) error {
		if c.Locals("user_id") == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if normalizeRoleValue(c.Locals("user_role")) != required {
			return utils.SendError(c, fiber.StatusForbidden, fmt.Sprintf("%s access required", required))
		}

		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
