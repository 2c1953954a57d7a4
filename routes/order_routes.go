package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/notesnest/backend/handlers"
	"github.com/notesnest/backend/middleware"
)

func OrderRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/order", middleware.Protected(), handlers.ConfirmOrder)
}
