package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/notesnest/backend/database"
	"github.com/notesnest/backend/models"
	"github.com/notesnest/backend/notifications"
	"github.com/notesnest/backend/payments"
	"github.com/notesnest/backend/utils"
	"gorm.io/gorm"
)

var errAlreadyPurchased = errors.New("course already purchased")

// BuyCourse hands the client a PaymentIntent for the course price.
// Nothing is persisted here; the entitlement is only written by
// ConfirmOrder once the gateway reports the charge succeeded.
func BuyCourse(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID format"})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var existing models.Purchase
	err = database.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User has already purchased this course"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	intent, err := payments.CreatePaymentIntent(payments.ToMinorUnits(course.Price), "usd")
	if err != nil {
		log.Printf("🔥 Payment initiation failed for course %s: %v", courseID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error in initiating payment"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Payment initiated",
		"clientSecret": intent.ClientSecret,
		"course": fiber.Map{
			"title": course.Title,
			"price": course.Price,
		},
	})
}

type ConfirmOrderRequest struct {
	CourseID  string `json:"courseId" validate:"required,uuid"`
	PaymentID string `json:"paymentId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Amount    int64  `json:"amount" validate:"gte=0"`
	Status    string `json:"status" validate:"required"`
}

// ConfirmOrder books a completed charge and grants the entitlement.
// Idempotent on the payment reference; the unique (user, course) index
// is what actually prevents a double grant.
func ConfirmOrder(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req ConfirmOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Status != "succeeded" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment has not succeeded"})
	}

	courseID := uuid.MustParse(req.CourseID)

	var existingOrder models.Order
	if err := database.DB.Where("payment_id = ?", req.PaymentID).First(&existingOrder).Error; err == nil {
		return c.JSON(fiber.Map{"message": "Order already processed", "order": existingOrder})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course not found"})
	}

	var order models.Order
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		receipt, err := utils.GenerateUniqueReceiptNumber(tx)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:        userID,
			CourseID:      courseID,
			Email:         req.Email,
			PaymentID:     req.PaymentID,
			Amount:        req.Amount,
			Status:        req.Status,
			ReceiptNumber: receipt,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		purchase := models.Purchase{UserID: userID, CourseID: courseID}
		if err := tx.Create(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyPurchased
			}
			return err
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errAlreadyPurchased) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User has already purchased this course"})
		}
		log.Printf("🔥 Failed to confirm order for payment %s: %v", req.PaymentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error in making payment"})
	}

	go notifications.SendEmail("", req.Email, "Purchase Confirmed!",
		fmt.Sprintf("<h1>Thank you!</h1><p>Your purchase of \"%s\" is complete. Receipt: %s</p>", course.Title, order.ReceiptNumber))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order confirmed successfully",
		"order":   order,
	})
}

// DownloadPdf is the entitlement gate: the PDF URL is disclosed only to
// users holding a purchase for the course. Checked on every request.
func DownloadPdf(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid course ID format"})
	}

	var purchase models.Purchase
	if err := database.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&purchase).Error; err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You have not purchased this course"})
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", courseID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course PDF not found"})
	}
	if course.Pdf.URL == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course PDF not found"})
	}

	return c.JSON(fiber.Map{"pdfUrl": course.Pdf.URL})
}

func GetMyPurchases(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var purchases []models.Purchase
	if err := database.DB.Preload("Course").Where("user_id = ?", userID).Find(&purchases).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch purchase data"})
	}

	return c.JSON(fiber.Map{"purchases": purchases})
}
