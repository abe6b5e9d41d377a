// Package rayid assigns a unique ray id to every incoming request.
//
// The id is stored in c.Locals("ray_id") and echoed back in the X-Ray-Id
// response header so clients can quote it when reporting problems.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// LocalsKey is the fiber locals key under which the ray id is stored.
const LocalsKey = "ray_id"

// HeaderName is the request/response header carrying the ray id.
const HeaderName = "X-Ray-Id"

// New returns the ray id middleware. An incoming X-Ray-Id header is honored
// so upstream proxies can propagate their own ids.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)

		return c.Next()
	}
}
