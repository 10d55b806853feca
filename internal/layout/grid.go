package layout

import "sort"

// GridEntry is the per-breakpoint placement of one widget instance inside a
// projected grid. Entries are derived, disposable views; the canonical layout
// remains the source of truth.
type GridEntry struct {
	InstanceID string `json:"instance_id"`
	Rect
}

// BreakpointGrid is the arrangement of every widget instance at one
// breakpoint, produced fresh on every projection and never persisted.
type BreakpointGrid struct {
	Breakpoint Breakpoint  `json:"breakpoint"`
	Columns    int         `json:"columns"`
	Entries    []GridEntry `json:"entries"`
}

// CloneEntries returns a copy of the grid's entry slice.
func (grid BreakpointGrid) CloneEntries() []GridEntry {
	duplicated := make([]GridEntry, len(grid.Entries))
	copy(duplicated, grid.Entries)
	return duplicated
}

// HasOverlap reports whether any two entries intersect.
func (grid BreakpointGrid) HasOverlap() bool {
	for firstIndex := 0; firstIndex < len(grid.Entries); firstIndex++ {
		for secondIndex := firstIndex + 1; secondIndex < len(grid.Entries); secondIndex++ {
			if grid.Entries[firstIndex].Overlaps(grid.Entries[secondIndex].Rect) {
				return true
			}
		}
	}
	return false
}

// placementOrder yields entry indices in top-to-bottom, left-to-right order.
// Ties beyond position fall back to slice order so the ordering is total and
// the whole pipeline stays deterministic.
func placementOrder(entries []GridEntry) []int {
	orderedIndices := make([]int, len(entries))
	for entryIndex := range entries {
		orderedIndices[entryIndex] = entryIndex
	}
	sort.SliceStable(orderedIndices, func(left int, right int) bool {
		leftEntry := entries[orderedIndices[left]]
		rightEntry := entries[orderedIndices[right]]
		if leftEntry.Y != rightEntry.Y {
			return leftEntry.Y < rightEntry.Y
		}
		if leftEntry.X != rightEntry.X {
			return leftEntry.X < rightEntry.X
		}
		return orderedIndices[left] < orderedIndices[right]
	})
	return orderedIndices
}

// Compact removes vertical gaps by pulling every entry up to the minimum row
// that does not collide with an already-compacted entry. Entries are
// processed top-to-bottom, left-to-right; the result is a canonical packing
// for a given input order. The input slice is modified in place.
func Compact(entries []GridEntry) {
	placedIndices := make([]int, 0, len(entries))
	for _, entryIndex := range placementOrder(entries) {
		candidate := entries[entryIndex]
		candidate.Y = 0
		for collides(candidate, entries, placedIndices) {
			candidate.Y++
		}
		entries[entryIndex] = candidate
		placedIndices = append(placedIndices, entryIndex)
	}
}

// resolveCollisions pushes overlapping entries straight down until no entry
// overlaps a previously placed one. Entries are processed top-to-bottom,
// left-to-right; the later-processed entry always yields. Entries are never
// moved upward or sideways here.
func resolveCollisions(entries []GridEntry) {
	placedIndices := make([]int, 0, len(entries))
	for _, entryIndex := range placementOrder(entries) {
		candidate := entries[entryIndex]
		for collides(candidate, entries, placedIndices) {
			candidate.Y++
		}
		entries[entryIndex] = candidate
		placedIndices = append(placedIndices, entryIndex)
	}
}

func collides(candidate GridEntry, entries []GridEntry, placedIndices []int) bool {
	for _, placedIndex := range placedIndices {
		if candidate.Overlaps(entries[placedIndex].Rect) {
			return true
		}
	}
	return false
}
