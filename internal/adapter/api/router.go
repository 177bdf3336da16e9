package api

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const GeneratedImagesRoute = "/generated_images"

func SetupRouter(app *fiber.App, handler *Handler, generatedDir string) {
	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Immobiliare.ai API"})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": os.Getenv("APP_VERSION"),
			"env":     os.Getenv("ENV"),
		})
	})

	app.Static(GeneratedImagesRoute, generatedDir)

	api := app.Group("/api")
	api.Post("/chat", handler.HandleChat)
	api.Post("/renovate", handler.HandleRenovate)
}
