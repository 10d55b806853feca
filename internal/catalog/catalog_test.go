package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/layout"
)

func TestDefaultCatalogListsTypesInDeclarationOrder(t *testing.T) {
	descriptors := Default().All()

	orderedTypeIDs := make([]string, 0, len(descriptors))
	for _, descriptor := range descriptors {
		orderedTypeIDs = append(orderedTypeIDs, descriptor.TypeID)
	}

	require.Equal(t, []string{
		TypeIDTotalClients,
		TypeIDTotalVehicles,
		TypeIDOpenServiceOrders,
		TypeIDExpiringLicenses,
		TypeIDMonthlyRevenue,
		TypeIDOrdersByStatus,
		TypeIDRecentOrders,
	}, orderedTypeIDs)
}

func TestDefaultCatalogFootprintsFitNarrowBreakpoint(t *testing.T) {
	for _, descriptor := range Default().All() {
		require.LessOrEqual(t, descriptor.DefaultFootprint.MinWidth, layout.BreakpointNarrow.Columns(),
			"descriptor %s cannot fit the narrow grid", descriptor.TypeID)
	}
}

func TestDescribeUnknownTypeReportsNotFound(t *testing.T) {
	_, descriptorFound := Default().Describe("RetiredWidget")
	require.False(t, descriptorFound)
}

func TestDescribeTrimsTypeID(t *testing.T) {
	descriptor, descriptorFound := Default().Describe("  " + TypeIDTotalClients + " ")
	require.True(t, descriptorFound)
	require.Equal(t, TypeIDTotalClients, descriptor.TypeID)
}

func TestNewSkipsBlankAndDuplicateDescriptors(t *testing.T) {
	widgetCatalog := New([]Descriptor{
		{TypeID: " ", Title: "Blank"},
		{TypeID: "counter", Title: "First"},
		{TypeID: "counter", Title: "Second"},
	})

	descriptors := widgetCatalog.All()
	require.Len(t, descriptors, 1)
	require.Equal(t, "First", descriptors[0].Title)
}

func TestDefaultFootprintResolvesCatalogEntries(t *testing.T) {
	widgetCatalog := Default()

	footprint, descriptorFound := widgetCatalog.DefaultFootprint(TypeIDMonthlyRevenue)
	require.True(t, descriptorFound)
	require.Equal(t, 6, footprint.Width)
	require.Equal(t, 3, footprint.Height)

	_, descriptorFound = widgetCatalog.DefaultFootprint("RetiredWidget")
	require.False(t, descriptorFound)
}
