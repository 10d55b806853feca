package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/layout"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/model"
)

const (
	errorMessageMissingLayoutOwner = "storage: missing layout owner"
	errorMessageEncodeLayout       = "storage: encode layout"
	errorMessageDecodeLayout       = "storage: decode layout"
	errorMessageGetLayout          = "storage: get layout"
	errorMessagePutLayout          = "storage: put layout"
)

// ErrMissingLayoutOwner indicates a layout operation was attempted without an owner identity.
var ErrMissingLayoutOwner = errors.New(errorMessageMissingLayoutOwner)

// LayoutRepository persists one canonical layout snapshot per owner. It is a
// plain key-value get/put keyed by owner identity; callers always write the
// full snapshot, so the latest write wins.
type LayoutRepository struct {
	database *gorm.DB
}

// NewLayoutRepository builds a repository backed by the primary database.
func NewLayoutRepository(database *gorm.DB) *LayoutRepository {
	return &LayoutRepository{database: database}
}

// GetLayout fetches the persisted layout for an owner. An absent record
// yields found=false with no error.
func (repository *LayoutRepository) GetLayout(ctx context.Context, ownerID string) (layout.CanonicalLayout, bool, error) {
	normalizedOwnerID := normalizeOwnerID(ownerID)
	if normalizedOwnerID == "" {
		return layout.CanonicalLayout{}, false, ErrMissingLayoutOwner
	}

	var record model.DashboardLayout
	if err := repository.database.WithContext(ctx).First(&record, "owner_email = ?", normalizedOwnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return layout.CanonicalLayout{}, false, nil
		}
		return layout.CanonicalLayout{}, false, fmt.Errorf("%s: %w", errorMessageGetLayout, err)
	}

	var canonicalLayout layout.CanonicalLayout
	if decodeErr := json.Unmarshal([]byte(record.WidgetsJSON), &canonicalLayout); decodeErr != nil {
		return layout.CanonicalLayout{}, false, fmt.Errorf("%s: %w", errorMessageDecodeLayout, decodeErr)
	}

	return canonicalLayout, true, nil
}

// PutLayout overwrites the owner's full layout snapshot.
func (repository *LayoutRepository) PutLayout(ctx context.Context, ownerID string, canonicalLayout layout.CanonicalLayout) error {
	normalizedOwnerID := normalizeOwnerID(ownerID)
	if normalizedOwnerID == "" {
		return ErrMissingLayoutOwner
	}

	encodedWidgets, encodeErr := json.Marshal(canonicalLayout)
	if encodeErr != nil {
		return fmt.Errorf("%s: %w", errorMessageEncodeLayout, encodeErr)
	}

	record, recordErr := model.NewDashboardLayout(normalizedOwnerID, string(encodedWidgets))
	if recordErr != nil {
		return fmt.Errorf("%s: %w", errorMessagePutLayout, recordErr)
	}

	saveErr := repository.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_email"}},
			DoUpdates: clause.AssignmentColumns([]string{"widgets_json", "updated_at"}),
		}).
		Create(&record).Error
	if saveErr != nil {
		return fmt.Errorf("%s: %w", errorMessagePutLayout, saveErr)
	}

	return nil
}

func normalizeOwnerID(ownerID string) string {
	return strings.ToLower(strings.TrimSpace(ownerID))
}
