package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetRef points at a file stored in Cloudinary. The public ID is what
// the destroy API needs, the URL is what clients fetch.
type AssetRef struct {
	PublicID string `gorm:"size:255" json:"public_id"`
	URL      string `gorm:"type:text" json:"url"`
}

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Image       AssetRef  `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	Pdf         AssetRef  `gorm:"embedded;embeddedPrefix:pdf_" json:"pdf"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null" json:"creator_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
