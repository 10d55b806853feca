package storage

import (
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/model"
)

// normalizeLayoutOwnerEmails lowercases historical layout owner keys so that
// lookups keyed by normalized session email always find the owner's record.
func normalizeLayoutOwnerEmails(database *gorm.DB) error {
	return database.Model(&model.DashboardLayout{}).
		Where("owner_email <> LOWER(owner_email)").
		Update("owner_email", gorm.Expr("LOWER(owner_email)")).Error
}
