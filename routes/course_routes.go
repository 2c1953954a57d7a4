package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/notesnest/backend/handlers"
	"github.com/notesnest/backend/middleware"
)

func CourseRoutes(app *fiber.App) {
	course := app.Group("/api/v1/course")

	// Browsing is public; only write access, buying and PDF download
	// are gated.
	course.Get("/courses", handlers.GetCourses)

	course.Post("/create", middleware.Protected(), middleware.AdminRequired(), handlers.CreateCourse)
	course.Put("/update/:courseId", middleware.Protected(), middleware.AdminRequired(), handlers.UpdateCourse)
	course.Delete("/delete/:courseId", middleware.Protected(), middleware.AdminRequired(), handlers.DeleteCourse)
	course.Post("/upload-pdf/:courseId", middleware.Protected(), middleware.AdminRequired(), handlers.UploadCoursePDF)

	course.Post("/buy/:courseId", middleware.Protected(), handlers.BuyCourse)
	course.Get("/download-pdf/:courseId", middleware.Protected(), handlers.DownloadPdf)

	course.Get("/:courseId", handlers.CourseDetails)
}
