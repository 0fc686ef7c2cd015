package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// Header is the response header carrying the ray id.
	Header = "X-Ray-ID"
	// LocalsKey is the fiber locals key holding the ray id.
	LocalsKey = "ray_id"
)

// New returns a middleware that tags every request with a ray id. An
// incoming X-Ray-ID header is reused so callers can correlate requests.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalsKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}

// FromCtx returns the ray id of the request, or "" outside the middleware.
func FromCtx(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsKey).(string)
	return id
}
