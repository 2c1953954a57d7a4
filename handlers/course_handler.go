package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/notesnest/backend/database"
	"github.com/notesnest/backend/models"
	"github.com/notesnest/backend/storage"
)

var allowedImageFormats = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

func CreateCourse(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	adminID, _ := uuid.Parse(claims["user_id"].(string))

	title := c.FormValue("title")
	description := c.FormValue("description")
	priceStr := c.FormValue("price")
	if title == "" || description == "" || priceStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All fields are required"})
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be a non-negative number"})
	}

	imageFile, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image and PDF are required"})
	}
	pdfFile, err := c.FormFile("pdf")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image and PDF are required"})
	}

	if !allowedImageFormats[imageFile.Header.Get("Content-Type")] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid image format. Use PNG or JPG"})
	}
	if pdfFile.Header.Get("Content-Type") != "application/pdf" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file format. Only PDFs are allowed"})
	}

	imageAsset, err := storage.Client.UploadImage(c.Context(), imageFile)
	if err != nil {
		log.Printf("🔥 Image upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error uploading image"})
	}

	pdfAsset, err := storage.Client.UploadPDF(c.Context(), pdfFile)
	if err != nil {
		log.Printf("🔥 PDF upload failed: %v", err)
		if destroyErr := storage.Client.Destroy(c.Context(), imageAsset.PublicID, false); destroyErr != nil {
			log.Printf("🔥 Could not clean up uploaded image %s: %v", imageAsset.PublicID, destroyErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error uploading PDF"})
	}

	course := models.Course{
		Title:       title,
		Description: description,
		Price:       price,
		Image:       models.AssetRef{PublicID: imageAsset.PublicID, URL: imageAsset.URL},
		Pdf:         models.AssetRef{PublicID: pdfAsset.PublicID, URL: pdfAsset.URL},
		CreatorID:   adminID,
	}

	if err := database.DB.Create(&course).Error; err != nil {
		log.Printf("🔥 Failed to create course record: %v", err)
		// Compensate for the uploads that already happened so no
		// orphaned assets linger. Failures here need manual cleanup.
		if destroyErr := storage.Client.Destroy(c.Context(), imageAsset.PublicID, false); destroyErr != nil {
			log.Printf("🔥 Could not clean up uploaded image %s: %v", imageAsset.PublicID, destroyErr)
		}
		if destroyErr := storage.Client.Destroy(c.Context(), pdfAsset.PublicID, true); destroyErr != nil {
			log.Printf("🔥 Could not clean up uploaded PDF %s: %v", pdfAsset.PublicID, destroyErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating course"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Course created successfully",
		"course":  course,
	})
}

func GetCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := database.DB.Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error in getting courses"})
	}
	return c.JSON(fiber.Map{"courses": courses})
}

func CourseDetails(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	return c.JSON(fiber.Map{"course": course})
}

type UpdateCourseRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Price       float64          `json:"price" validate:"gte=0"`
	Image       *models.AssetRef `json:"image,omitempty"`
}

func UpdateCourse(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	adminID, _ := uuid.Parse(claims["user_id"].(string))
	courseID := c.Params("courseId")

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	if course.CreatorID != adminID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only update your own courses"})
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Price = req.Price
	// An omitted image keeps the stored reference untouched.
	if req.Image != nil && req.Image.PublicID != "" {
		course.Image = *req.Image
	}

	if err := database.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error in course updating"})
	}

	return c.JSON(fiber.Map{"message": "Course updated successfully", "course": course})
}

func DeleteCourse(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	adminID, _ := uuid.Parse(claims["user_id"].(string))
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	if course.CreatorID != adminID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Can't delete, created by another admin"})
	}

	if err := database.DB.Delete(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error in course deleting"})
	}

	// Entitlements are intentionally left in place; the download gate
	// reports 404 for them and the audit job logs them for cleanup.
	return c.JSON(fiber.Map{"message": "Course deleted successfully"})
}

func UploadCoursePDF(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	adminID, _ := uuid.Parse(claims["user_id"].(string))
	courseID := c.Params("courseId")

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}
	if course.CreatorID != adminID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only update your own courses"})
	}

	pdfFile, err := c.FormFile("pdf")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "PDF file is required"})
	}
	if pdfFile.Header.Get("Content-Type") != "application/pdf" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file format. Only PDFs are allowed"})
	}

	pdfAsset, err := storage.Client.UploadPDF(c.Context(), pdfFile)
	if err != nil {
		log.Printf("🔥 PDF upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error uploading PDF"})
	}

	oldPublicID := course.Pdf.PublicID
	course.Pdf = models.AssetRef{PublicID: pdfAsset.PublicID, URL: pdfAsset.URL}

	if err := database.DB.Save(&course).Error; err != nil {
		if destroyErr := storage.Client.Destroy(c.Context(), pdfAsset.PublicID, true); destroyErr != nil {
			log.Printf("🔥 Could not clean up uploaded PDF %s: %v", pdfAsset.PublicID, destroyErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating course PDF"})
	}

	if oldPublicID != "" {
		if destroyErr := storage.Client.Destroy(c.Context(), oldPublicID, true); destroyErr != nil {
			log.Printf("🔥 Could not remove replaced PDF %s: %v", oldPublicID, destroyErr)
		}
	}

	return c.JSON(fiber.Map{"message": "PDF uploaded successfully", "pdfUrl": pdfAsset.URL})
}
