package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase is the entitlement record: one row per user per course.
// The composite unique index is the authoritative guard against
// double-granting access, the handlers only pre-check it for UX.
type Purchase struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"course_id"`

	Course *Course `gorm:"foreignkey:CourseID" json:"course,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
