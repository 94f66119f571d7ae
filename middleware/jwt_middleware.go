package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"walkboard/models"
	"walkboard/utils"
)

// VolunteerDirectory resolves the volunteer behind a session.
type VolunteerDirectory interface {
	Volunteer(id string) (models.Volunteer, bool)
}

func Protected(secret string, volunteers VolunteerDirectory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Try to get token from Authorization header first
		var token string
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			// Check if it's a Bearer token
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid authorization format",
				})
			}
			token = tokenParts[1]
		} else {
			// Fall back to cookie, then query for websocket clients
			token = c.Cookies("access_token")
			if token == "" {
				token = c.Query("token")
			}
			if token == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Authorization required",
				})
			}
		}

		claims, err := utils.ParseSessionToken(secret, token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		volunteer := models.Volunteer{
			ID:     claims.VolunteerID,
			Name:   claims.Name,
			Role:   models.RoleVolunteer,
			Status: models.VolunteerActive,
		}
		if !claims.IsGuest() {
			found, ok := volunteers.Volunteer(claims.VolunteerID)
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Volunteer not found",
				})
			}
			if found.Status != models.VolunteerActive {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Volunteer is not active",
				})
			}
			volunteer = found
		}

		c.Locals("volunteer", volunteer)
		c.Locals("volunteerID", volunteer.ID)
		c.Locals("sessionID", claims.SessionID)

		return c.Next()
	}
}

// CurrentVolunteer returns the volunteer stored by Protected.
func CurrentVolunteer(c *fiber.Ctx) models.Volunteer {
	v, _ := c.Locals("volunteer").(models.Volunteer)
	return v
}
