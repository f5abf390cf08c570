package httpmock

import (
	"github.com/gofiber/fiber/v2"
)

// FiberHandler mounts the responder on a fiber route so prototypes can serve
// stored content over a real router. The logical path is taken from the
// wildcard route parameter:
//
//	app.Get("/blob/*", responder.FiberHandler())
func (r *Responder) FiberHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := r.Respond(c.UserContext(), c.Params("*"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		for pair := resp.Headers.Oldest(); pair != nil; pair = pair.Next() {
			c.Set(pair.Key, pair.Value)
		}
		return c.Status(resp.Status).Send(resp.Body)
	}
}
