package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidWidgetInstance indicates a widget instance failed validation.
var ErrInvalidWidgetInstance = errors.New("invalid_widget_instance")

// WidgetInstance is one placed, configured occurrence of a widget type on a
// user's dashboard. The config payload is opaque to the layout engine; only
// the matching renderer interprets it.
type WidgetInstance struct {
	InstanceID string         `json:"instance_id"`
	TypeID     string         `json:"type_id"`
	Config     map[string]any `json:"config,omitempty"`
	Placement  Rect           `json:"placement"`
}

// NewWidgetInstance constructs a widget instance with a fresh identifier and
// the provided footprint placed at the given grid position.
func NewWidgetInstance(typeID string, footprint Footprint, gridX int, gridY int) (WidgetInstance, error) {
	trimmedTypeID := strings.TrimSpace(typeID)
	if trimmedTypeID == "" {
		return WidgetInstance{}, fmt.Errorf("%w: missing type_id", ErrInvalidWidgetInstance)
	}

	return WidgetInstance{
		InstanceID: uuid.NewString(),
		TypeID:     trimmedTypeID,
		Config:     map[string]any{},
		Placement:  RectForFootprint(footprint, gridX, gridY).Clamped(),
	}, nil
}

// Clone returns a deep copy of the instance, including its config payload.
func (instance WidgetInstance) Clone() WidgetInstance {
	duplicate := instance
	if instance.Config != nil {
		duplicate.Config = make(map[string]any, len(instance.Config))
		for configKey, configValue := range instance.Config {
			duplicate.Config[configKey] = configValue
		}
	}
	return duplicate
}

// CanonicalLayout is the single authoritative ordered arrangement of widget
// instances for one dashboard owner. Placements are recorded at the wide
// breakpoint; narrower tiers are always re-derived.
type CanonicalLayout struct {
	Widgets []WidgetInstance `json:"widgets"`
}

// Clone returns a deep copy so collaborators never hold a writable alias of
// canonical state.
func (canonicalLayout CanonicalLayout) Clone() CanonicalLayout {
	if len(canonicalLayout.Widgets) == 0 {
		return CanonicalLayout{}
	}
	duplicated := make([]WidgetInstance, 0, len(canonicalLayout.Widgets))
	for _, instance := range canonicalLayout.Widgets {
		duplicated = append(duplicated, instance.Clone())
	}
	return CanonicalLayout{Widgets: duplicated}
}

// Find returns the index of the instance with the given identifier, or -1.
func (canonicalLayout CanonicalLayout) Find(instanceID string) int {
	for widgetIndex, instance := range canonicalLayout.Widgets {
		if instance.InstanceID == instanceID {
			return widgetIndex
		}
	}
	return -1
}

// ContainsType reports whether any instance references the given widget type.
func (canonicalLayout CanonicalLayout) ContainsType(typeID string) bool {
	for _, instance := range canonicalLayout.Widgets {
		if instance.TypeID == typeID {
			return true
		}
	}
	return false
}

// NextFreeSlot returns the grid position for a new widget: the first row
// below every existing placement, at the left edge. Upward compaction later
// pulls the widget into any remaining gap.
func (canonicalLayout CanonicalLayout) NextFreeSlot() (int, int) {
	nextRow := 0
	for _, instance := range canonicalLayout.Widgets {
		if bottom := instance.Placement.Bottom(); bottom > nextRow {
			nextRow = bottom
		}
	}
	return 0, nextRow
}

// Repaired returns a copy of the layout with the invariant violations
// Validate reports resolved: instances with a blank identifier or a
// duplicate of an earlier identifier are dropped, and every surviving
// placement is clamped into its bounds. The first occurrence of a duplicated
// identifier wins so the repair is deterministic.
func (canonicalLayout CanonicalLayout) Repaired() CanonicalLayout {
	seenIdentifiers := make(map[string]struct{}, len(canonicalLayout.Widgets))
	repairedWidgets := make([]WidgetInstance, 0, len(canonicalLayout.Widgets))
	for _, instance := range canonicalLayout.Widgets {
		trimmedIdentifier := strings.TrimSpace(instance.InstanceID)
		if trimmedIdentifier == "" {
			continue
		}
		if _, duplicate := seenIdentifiers[trimmedIdentifier]; duplicate {
			continue
		}
		seenIdentifiers[trimmedIdentifier] = struct{}{}

		repairedInstance := instance.Clone()
		repairedInstance.InstanceID = trimmedIdentifier
		if !repairedInstance.Placement.Unset() {
			repairedInstance.Placement = repairedInstance.Placement.Clamped()
		}
		repairedWidgets = append(repairedWidgets, repairedInstance)
	}
	return CanonicalLayout{Widgets: repairedWidgets}
}

// Validate checks the layout-level invariants: unique instance identifiers
// and per-instance dimension constraints.
func (canonicalLayout CanonicalLayout) Validate() error {
	seenIdentifiers := make(map[string]struct{}, len(canonicalLayout.Widgets))
	for _, instance := range canonicalLayout.Widgets {
		if strings.TrimSpace(instance.InstanceID) == "" {
			return fmt.Errorf("%w: missing instance_id", ErrInvalidWidgetInstance)
		}
		if _, duplicate := seenIdentifiers[instance.InstanceID]; duplicate {
			return fmt.Errorf("%w: duplicate instance_id %s", ErrInvalidWidgetInstance, instance.InstanceID)
		}
		seenIdentifiers[instance.InstanceID] = struct{}{}

		// An unset placement is awaiting default-footprint synthesis at the
		// next projection and carries no bounds to check.
		if !instance.Placement.Unset() && instance.Placement != instance.Placement.Clamped() {
			return fmt.Errorf("%w: placement out of bounds for %s", ErrInvalidWidgetInstance, instance.InstanceID)
		}
	}
	return nil
}
