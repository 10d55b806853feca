package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidDashboardLayout indicates a layout record failed validation.
	ErrInvalidDashboardLayout = errors.New("invalid_dashboard_layout")
)

// DashboardLayout stores one owner's full widget arrangement as a single
// snapshot record. The widget list is serialized JSON; writes always replace
// the whole snapshot, which makes concurrent saves last-write-wins.
type DashboardLayout struct {
	OwnerEmail  string    `gorm:"primaryKey;size:320"`
	WidgetsJSON string    `gorm:"not null;size:65535"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// NewDashboardLayout constructs a layout record for an owner.
func NewDashboardLayout(ownerEmail string, widgetsJSON string) (DashboardLayout, error) {
	normalizedOwnerEmail := strings.ToLower(strings.TrimSpace(ownerEmail))
	if normalizedOwnerEmail == "" {
		return DashboardLayout{}, fmt.Errorf("%w: missing owner email", ErrInvalidDashboardLayout)
	}
	if strings.TrimSpace(widgetsJSON) == "" {
		return DashboardLayout{}, fmt.Errorf("%w: missing widgets payload", ErrInvalidDashboardLayout)
	}
	return DashboardLayout{
		OwnerEmail:  normalizedOwnerEmail,
		WidgetsJSON: widgetsJSON,
	}, nil
}
