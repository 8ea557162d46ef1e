package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const maxPlayerIDLen = 64

// EnsurePlayerID resolves the caller's player id, preferring the X-Player-ID
// header over the playerId query parameter (browsers cannot set headers on a
// websocket handshake). The trimmed id is stored in Locals("playerID").
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		id := strings.TrimSpace(c.Get("X-Player-ID"))
		if id == "" {
			id = strings.TrimSpace(c.Query("playerId"))
		}

		switch {
		case id == "":
			log.Debugw("request without player id", "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		case !validPlayerID(id):
			log.Debugw("rejected player id", "path", c.Path(), "length", len(id))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "player ID must be at most 64 letters, digits, '-' or '_'",
			})
		}

		c.Locals("playerID", id)
		return c.Next()
	}
}

func validPlayerID(id string) bool {
	if len(id) > maxPlayerIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
