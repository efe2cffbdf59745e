package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/dental-solution/internal/config"
)

// NewApp builds the fiber application. Immutable is required: handlers hand
// parsed strings to stores that keep them after the request buffer is reused.
func NewApp(cfg config.AppConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   cfg.Name,
		BodyLimit: cfg.BodyLimit(),
		Immutable: true,
	})
}
