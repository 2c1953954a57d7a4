package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/notesnest/backend/handlers"
	"github.com/notesnest/backend/middleware"
)

func UserRoutes(app *fiber.App) {
	user := app.Group("/api/v1/user")

	user.Post("/signup", handlers.SignupUser)
	user.Post("/login", handlers.LoginUser)
	user.Get("/logout", middleware.Protected(), handlers.LogoutUser)
	user.Get("/purchases", middleware.Protected(), handlers.GetMyPurchases)
}
