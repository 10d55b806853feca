package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBreakpoint indicates an unrecognized breakpoint name.
var ErrInvalidBreakpoint = errors.New("invalid_breakpoint")

// Breakpoint names a responsive-width tier at which a distinct grid
// arrangement applies.
type Breakpoint string

const (
	// BreakpointWide is the canonical breakpoint; placements are persisted at
	// this granularity and the narrower tiers are re-derived from it.
	BreakpointWide Breakpoint = "wide"
	// BreakpointMedium is the mid-width tier.
	BreakpointMedium Breakpoint = "medium"
	// BreakpointNarrow is the single-column-ish tier for small screens.
	BreakpointNarrow Breakpoint = "narrow"

	columnCountWide   = 12
	columnCountMedium = 6
	columnCountNarrow = 2

	pixelThresholdWide   = 996
	pixelThresholdMedium = 768
)

// Breakpoints lists every tier in widest-first order.
func Breakpoints() []Breakpoint {
	return []Breakpoint{BreakpointWide, BreakpointMedium, BreakpointNarrow}
}

// ParseBreakpoint resolves a raw breakpoint name, defaulting to wide for an
// empty value.
func ParseBreakpoint(rawName string) (Breakpoint, error) {
	normalized := strings.ToLower(strings.TrimSpace(rawName))
	if normalized == "" {
		return BreakpointWide, nil
	}

	breakpoint := Breakpoint(normalized)
	switch breakpoint {
	case BreakpointWide, BreakpointMedium, BreakpointNarrow:
		return breakpoint, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBreakpoint, rawName)
	}
}

// Columns returns the number of grid columns available at the breakpoint.
func (breakpoint Breakpoint) Columns() int {
	switch breakpoint {
	case BreakpointMedium:
		return columnCountMedium
	case BreakpointNarrow:
		return columnCountNarrow
	default:
		return columnCountWide
	}
}

// BreakpointForWidth selects the tier for a viewport width in pixels.
func BreakpointForWidth(pixelWidth int) Breakpoint {
	switch {
	case pixelWidth >= pixelThresholdWide:
		return BreakpointWide
	case pixelWidth >= pixelThresholdMedium:
		return BreakpointMedium
	default:
		return BreakpointNarrow
	}
}
