package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"subcity/internal/repository"
)

// ActorHeader names the caller recorded in the activity log.
const ActorHeader = "X-Actor"

// Actor attaches the X-Actor header value to the request context so store mutations are
// attributed to it. Without the header the store records repository.DefaultActor.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if actor := strings.TrimSpace(c.Get(ActorHeader)); actor != "" {
			c.SetUserContext(repository.WithActor(c.UserContext(), actor))
		}
		return c.Next()
	}
}
