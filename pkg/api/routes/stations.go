package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"
)

// NewStationsHandler serves the station registry document exactly as
// the tracker persisted it.
func NewStationsHandler(registryPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := os.Stat(registryPath); os.IsNotExist(err) {
			// No stations discovered yet
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString("{}")
		}

		return c.SendFile(registryPath)
	}
}
