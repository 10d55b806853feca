package layout

// FallbackFootprint is the minimal footprint used for widgets whose type has
// no catalog descriptor; projection must degrade, not fail.
var FallbackFootprint = Footprint{
	Width:     1,
	Height:    1,
	MinWidth:  DefaultMinimumWidth,
	MinHeight: DefaultMinimumHeight,
}

// FootprintResolver supplies the default footprint for a widget type. The
// catalog implements it; the projector only needs found-vs-not-found.
type FootprintResolver interface {
	DefaultFootprint(typeID string) (Footprint, bool)
}

// Project derives the grid arrangement at one breakpoint from the canonical
// layout. Instances with an explicit placement keep it; the rest receive the
// catalog default footprint at the next free vertical slot. Widths are
// clamped to the breakpoint's column count and the result is compacted, so
// every widget is always placed at every breakpoint. Pure and idempotent:
// projecting the same layout twice yields identical grids.
func Project(canonicalLayout CanonicalLayout, breakpoint Breakpoint, footprints FootprintResolver) BreakpointGrid {
	columnCount := breakpoint.Columns()
	entries := make([]GridEntry, 0, len(canonicalLayout.Widgets))

	nextFreeRow := 0
	for _, instance := range canonicalLayout.Widgets {
		if bottom := instance.Placement.Bottom(); bottom > nextFreeRow {
			nextFreeRow = bottom
		}
	}

	for _, instance := range canonicalLayout.Widgets {
		placement := instance.Placement
		if placement.Unset() {
			footprint, _ := resolveFootprint(instance.TypeID, footprints)
			placement = RectForFootprint(footprint, 0, nextFreeRow)
			nextFreeRow = placement.Bottom()
		}

		entries = append(entries, GridEntry{
			InstanceID: instance.InstanceID,
			Rect:       placement.ClampedToColumns(columnCount),
		})
	}

	resolveCollisions(entries)
	Compact(entries)

	return BreakpointGrid{
		Breakpoint: breakpoint,
		Columns:    columnCount,
		Entries:    entries,
	}
}

func resolveFootprint(typeID string, footprints FootprintResolver) (Footprint, bool) {
	if footprints != nil {
		if footprint, descriptorFound := footprints.DefaultFootprint(typeID); descriptorFound {
			return footprint, true
		}
	}
	return FallbackFootprint, false
}
