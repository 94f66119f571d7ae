package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig controls which browser origins may call the board API.
// An empty Origins list admits any origin without credentials.
type CORSConfig struct {
	Origins     []string
	Credentials bool
	Methods     []string
	Headers     []string
	// Expose lists response headers the browser may read, e.g. the limiter's.
	Expose []string
	MaxAge int // seconds
}

// BoardCORSConfig admits the given origins to the verbs and headers the board
// API actually uses. Session tokens travel in Authorization or in the
// access_token cookie, hence credentials.
func BoardCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		Origins:     origins,
		Credentials: true,
		Methods: []string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodPut,
			fiber.MethodPatch, fiber.MethodDelete,
		},
		Headers: []string{fiber.HeaderAuthorization, fiber.HeaderContentType, fiber.HeaderAccept},
		Expose: []string{
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", fiber.HeaderRetryAfter,
		},
		MaxAge: 3600,
	}
}

// ParseOrigins splits a comma separated CORS_ORIGINS value. "*" allows any origin.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			return nil
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func CORS(cfg CORSConfig) fiber.Handler {
	allowed := make(map[string]bool, len(cfg.Origins))
	for _, o := range cfg.Origins {
		allowed[o] = true
	}
	anyOrigin := len(cfg.Origins) == 0
	methods := strings.Join(cfg.Methods, ",")
	headers := strings.Join(cfg.Headers, ",")
	expose := strings.Join(cfg.Expose, ",")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		c.Vary(fiber.HeaderOrigin)

		admitted := origin != "" && (anyOrigin || allowed[origin])
		if admitted {
			if anyOrigin {
				c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
			} else {
				c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
				if cfg.Credentials {
					c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
				}
			}
			if expose != "" {
				c.Set(fiber.HeaderAccessControlExposeHeaders, expose)
			}
		}

		if c.Method() != fiber.MethodOptions || c.Get(fiber.HeaderAccessControlRequestMethod) == "" {
			return c.Next()
		}
		// preflight
		if !admitted {
			return c.SendStatus(fiber.StatusForbidden)
		}
		c.Set(fiber.HeaderAccessControlAllowMethods, methods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, headers)
		c.Set(fiber.HeaderAccessControlMaxAge, maxAge)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
