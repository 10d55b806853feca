package layout

import (
	"strings"

	"go.uber.org/zap"
)

const (
	logEventUnknownDeltaInstance = "ignore_unknown_delta_instance"
	logEventUnknownDeltaKind     = "ignore_unknown_delta_kind"
	logFieldInstanceID           = "instance_id"
	logFieldDeltaKind            = "delta_kind"
)

// DeltaKind distinguishes the two gesture outcomes a grid surface can emit.
type DeltaKind string

const (
	// DeltaKindMove repositions a widget instance.
	DeltaKindMove DeltaKind = "move"
	// DeltaKindResize changes a widget instance's dimensions.
	DeltaKindResize DeltaKind = "resize"
)

// Delta is one raw interaction change from a drag or resize gesture, keyed by
// the affected widget instance.
type Delta struct {
	InstanceID string    `json:"instance_id"`
	Kind       DeltaKind `json:"kind"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
}

// Reconciler folds gesture deltas into a collision-free grid arrangement.
// Reconcile is a pure function of its inputs: replaying the same batch
// against the same grid always yields the same result.
type Reconciler struct {
	logger *zap.Logger
}

// NewReconciler creates a reconciler. A nil logger is replaced with a no-op.
func NewReconciler(logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{logger: logger}
}

// Reconcile applies a delta batch to the grid and returns a new grid with no
// overlapping entries and no vertical gaps. Deltas referencing an unknown
// instance are logged and ignored, never fatal. The input grid is not
// modified.
func (reconciler *Reconciler) Reconcile(grid BreakpointGrid, deltas []Delta) BreakpointGrid {
	entries := grid.CloneEntries()
	entryIndexByInstance := make(map[string]int, len(entries))
	for entryIndex, entry := range entries {
		entryIndexByInstance[entry.InstanceID] = entryIndex
	}

	for _, delta := range deltas {
		entryIndex, instanceKnown := entryIndexByInstance[strings.TrimSpace(delta.InstanceID)]
		if !instanceKnown {
			reconciler.logger.Warn(logEventUnknownDeltaInstance,
				zap.String(logFieldInstanceID, delta.InstanceID),
				zap.String(logFieldDeltaKind, string(delta.Kind)),
			)
			continue
		}

		updated := entries[entryIndex]
		switch delta.Kind {
		case DeltaKindMove:
			updated.X = delta.X
			updated.Y = delta.Y
		case DeltaKindResize:
			updated.Width = delta.Width
			updated.Height = delta.Height
		default:
			reconciler.logger.Warn(logEventUnknownDeltaKind,
				zap.String(logFieldInstanceID, delta.InstanceID),
				zap.String(logFieldDeltaKind, string(delta.Kind)),
			)
			continue
		}
		updated.Rect = updated.Rect.ClampedToColumns(grid.Columns)
		entries[entryIndex] = updated
	}

	resolveCollisions(entries)
	Compact(entries)

	return BreakpointGrid{
		Breakpoint: grid.Breakpoint,
		Columns:    grid.Columns,
		Entries:    entries,
	}
}
