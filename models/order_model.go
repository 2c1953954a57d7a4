package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order records a confirmed charge. PaymentID is the Stripe
// PaymentIntent id and is unique so a replayed confirmation cannot
// book the same charge twice.
type Order struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	CourseID      uuid.UUID `gorm:"type:uuid;not null" json:"course_id"`
	Email         string    `gorm:"size:255;not null" json:"email"`
	PaymentID     string    `gorm:"size:255;not null;unique" json:"payment_id"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	ReceiptNumber string    `gorm:"size:20;unique" json:"receipt_number"`

	CreatedAt time.Time `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
