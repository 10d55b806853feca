package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type stubFootprintResolver struct {
	footprintsByType map[string]Footprint
}

func (resolver stubFootprintResolver) DefaultFootprint(typeID string) (Footprint, bool) {
	footprint, descriptorFound := resolver.footprintsByType[typeID]
	return footprint, descriptorFound
}

func TestProjectKeepsExplicitPlacementsAtWide(t *testing.T) {
	canonicalLayout := CanonicalLayout{Widgets: []WidgetInstance{
		{InstanceID: "left", TypeID: "counter", Placement: Rect{X: 0, Y: 0, Width: 3, Height: 2}},
		{InstanceID: "right", TypeID: "counter", Placement: Rect{X: 3, Y: 0, Width: 3, Height: 2}},
	}}

	projected := Project(canonicalLayout, BreakpointWide, nil)

	require.Equal(t, BreakpointWide.Columns(), projected.Columns)
	require.Equal(t, Rect{X: 0, Y: 0, Width: 3, Height: 2}, entryByInstance(t, projected, "left").Rect)
	require.Equal(t, Rect{X: 3, Y: 0, Width: 3, Height: 2}, entryByInstance(t, projected, "right").Rect)
}

func TestProjectIsIdempotent(t *testing.T) {
	canonicalLayout := CanonicalLayout{Widgets: []WidgetInstance{
		{InstanceID: "a", TypeID: "counter", Placement: Rect{X: 0, Y: 0, Width: 6, Height: 2}},
		{InstanceID: "b", TypeID: "counter", Placement: Rect{X: 6, Y: 0, Width: 6, Height: 3}},
		{InstanceID: "c", TypeID: "chart", Placement: Rect{X: 0, Y: 2, Width: 6, Height: 2}},
	}}

	for _, breakpoint := range Breakpoints() {
		firstPass := Project(canonicalLayout, breakpoint, nil)
		secondPass := Project(canonicalLayout, breakpoint, nil)
		require.Equal(t, firstPass, secondPass)
		require.False(t, firstPass.HasOverlap())
	}
}

func TestProjectClampsWidthsToNarrowColumns(t *testing.T) {
	canonicalLayout := CanonicalLayout{Widgets: []WidgetInstance{
		{InstanceID: "wide-widget", TypeID: "chart", Placement: Rect{X: 0, Y: 0, Width: 12, Height: 3}},
		{InstanceID: "offset-widget", TypeID: "counter", Placement: Rect{X: 8, Y: 3, Width: 4, Height: 2}},
	}}

	projected := Project(canonicalLayout, BreakpointNarrow, nil)

	require.False(t, projected.HasOverlap())
	for _, entry := range projected.Entries {
		require.LessOrEqual(t, entry.X+entry.Width, BreakpointNarrow.Columns())
	}
}

func TestProjectPlacesUnsetWidgetsBelowExistingOnes(t *testing.T) {
	resolver := stubFootprintResolver{footprintsByType: map[string]Footprint{
		"counter": {Width: 3, Height: 2, MinWidth: 1, MinHeight: 1},
	}}
	canonicalLayout := CanonicalLayout{Widgets: []WidgetInstance{
		{InstanceID: "placed", TypeID: "counter", Placement: Rect{X: 0, Y: 0, Width: 3, Height: 2}},
		{InstanceID: "fresh", TypeID: "counter"},
	}}

	projected := Project(canonicalLayout, BreakpointWide, resolver)

	require.False(t, projected.HasOverlap())
	freshEntry := entryByInstance(t, projected, "fresh")
	require.Equal(t, 3, freshEntry.Width)
	require.Equal(t, 2, freshEntry.Height)
}

func TestProjectFallsBackForUnknownWidgetType(t *testing.T) {
	resolver := stubFootprintResolver{footprintsByType: map[string]Footprint{}}
	canonicalLayout := CanonicalLayout{Widgets: []WidgetInstance{
		{InstanceID: "mystery", TypeID: "retired_type"},
	}}

	projected := Project(canonicalLayout, BreakpointWide, resolver)

	require.Len(t, projected.Entries, 1)
	require.Equal(t, FallbackFootprint.Width, projected.Entries[0].Width)
	require.Equal(t, FallbackFootprint.Height, projected.Entries[0].Height)
}

func TestProjectEmptyLayout(t *testing.T) {
	projected := Project(CanonicalLayout{}, BreakpointMedium, nil)

	require.Empty(t, projected.Entries)
	require.Equal(t, BreakpointMedium.Columns(), projected.Columns)
}
