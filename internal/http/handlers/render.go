package handlers

import "github.com/gofiber/fiber/v2"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if p := c.Locals("profile"); p != nil {
		data["User"] = p
	}
	data["Lang"] = langOf(c)
	return c.Render(tmpl, data)
}
