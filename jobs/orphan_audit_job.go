package jobs

import (
	"log"

	"github.com/notesnest/backend/database"
	"github.com/notesnest/backend/models"
)

// AuditOrphanedPurchases logs entitlements whose course has been
// deleted. They are never removed automatically; the download gate
// already reports them as not found, this just surfaces them for
// manual cleanup.
func AuditOrphanedPurchases() {
	log.Println("Running job: AuditOrphanedPurchases...")

	var orphaned []models.Purchase
	err := database.DB.
		Joins("LEFT JOIN courses ON courses.id = purchases.course_id").
		Where("courses.id IS NULL").
		Find(&orphaned).Error
	if err != nil {
		log.Printf("Error auditing orphaned purchases: %v", err)
		return
	}

	if len(orphaned) == 0 {
		log.Println("No orphaned purchases found.")
		return
	}

	for _, purchase := range orphaned {
		log.Printf("⚠️ Orphaned purchase %s: user %s still holds course %s which no longer exists",
			purchase.ID, purchase.UserID, purchase.CourseID)
	}
	log.Printf("Found %d orphaned purchase(s).", len(orphaned))
}
