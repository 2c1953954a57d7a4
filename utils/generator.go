package utils

import (
	"math/rand"
	"time"

	"github.com/notesnest/backend/models"
	"gorm.io/gorm"
)

const receiptNumberLength = 10
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateUniqueReceiptNumber produces a short human-readable reference
// for a confirmed order, retrying until it is unused.
func GenerateUniqueReceiptNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, receiptNumberLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		number := "RN-" + string(b)

		var order models.Order
		err := tx.Where("receipt_number = ?", number).First(&order).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return number, nil
			}
			return "", err
		}
	}
}
