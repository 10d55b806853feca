// Package catalog holds the fixed registry of dashboard widget types for the
// vehicle-licensing back office. The registry is defined at process start and
// never mutated.
package catalog

import (
	"strings"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/layout"
)

const (
	// TypeIDTotalClients counts registered clients.
	TypeIDTotalClients = "TotalClients"
	// TypeIDTotalVehicles counts registered vehicles.
	TypeIDTotalVehicles = "TotalVehicles"
	// TypeIDOpenServiceOrders counts service orders not yet completed.
	TypeIDOpenServiceOrders = "OpenServiceOrders"
	// TypeIDExpiringLicenses counts vehicle licenses expiring soon.
	TypeIDExpiringLicenses = "ExpiringLicenses"
	// TypeIDMonthlyRevenue sums revenue for the current month.
	TypeIDMonthlyRevenue = "MonthlyRevenue"
	// TypeIDOrdersByStatus breaks service orders down by workflow status.
	TypeIDOrdersByStatus = "OrdersByStatus"
	// TypeIDRecentOrders lists the latest service orders.
	TypeIDRecentOrders = "RecentOrders"
)

// Descriptor is the immutable catalog definition of one widget kind.
type Descriptor struct {
	TypeID           string           `json:"type_id"`
	Title            string           `json:"title"`
	IconRef          string           `json:"icon_ref"`
	DefaultFootprint layout.Footprint `json:"default_footprint"`
	Singleton        bool             `json:"singleton"`
}

// Catalog is an ordered, read-only widget type registry.
type Catalog struct {
	orderedDescriptors []Descriptor
	descriptorsByType  map[string]Descriptor
}

// New builds a catalog from descriptors, preserving declaration order.
func New(descriptors []Descriptor) *Catalog {
	descriptorsByType := make(map[string]Descriptor, len(descriptors))
	ordered := make([]Descriptor, 0, len(descriptors))
	for _, descriptor := range descriptors {
		trimmedTypeID := strings.TrimSpace(descriptor.TypeID)
		if trimmedTypeID == "" {
			continue
		}
		if _, alreadyRegistered := descriptorsByType[trimmedTypeID]; alreadyRegistered {
			continue
		}
		descriptor.TypeID = trimmedTypeID
		descriptorsByType[trimmedTypeID] = descriptor
		ordered = append(ordered, descriptor)
	}
	return &Catalog{
		orderedDescriptors: ordered,
		descriptorsByType:  descriptorsByType,
	}
}

// Default returns the back-office widget catalog. Every current entry is a
// singleton: at most one instance of each type per dashboard.
func Default() *Catalog {
	return New([]Descriptor{
		{
			TypeID:           TypeIDTotalClients,
			Title:            "Total Clients",
			IconRef:          "icon-clients",
			DefaultFootprint: layout.Footprint{Width: 3, Height: 2, MinWidth: 2, MinHeight: 2, MaxWidth: 6, MaxHeight: 4},
			Singleton:        true,
		},
		{
			TypeID:           TypeIDTotalVehicles,
			Title:            "Total Vehicles",
			IconRef:          "icon-vehicles",
			DefaultFootprint: layout.Footprint{Width: 3, Height: 2, MinWidth: 2, MinHeight: 2, MaxWidth: 6, MaxHeight: 4},
			Singleton:        true,
		},
		{
			TypeID:           TypeIDOpenServiceOrders,
			Title:            "Open Service Orders",
			IconRef:          "icon-orders",
			DefaultFootprint: layout.Footprint{Width: 3, Height: 2, MinWidth: 2, MinHeight: 2, MaxWidth: 6, MaxHeight: 4},
			Singleton:        true,
		},
		{
			TypeID:           TypeIDExpiringLicenses,
			Title:            "Expiring Licenses",
			IconRef:          "icon-licenses",
			DefaultFootprint: layout.Footprint{Width: 3, Height: 2, MinWidth: 2, MinHeight: 2, MaxWidth: 6, MaxHeight: 4},
			Singleton:        true,
		},
		{
			TypeID:           TypeIDMonthlyRevenue,
			Title:            "Monthly Revenue",
			IconRef:          "icon-revenue",
			DefaultFootprint: layout.Footprint{Width: 6, Height: 3, MinWidth: 2, MinHeight: 2, MaxWidth: 12, MaxHeight: 6},
			Singleton:        true,
		},
		{
			TypeID:           TypeIDOrdersByStatus,
			Title:            "Orders by Status",
			IconRef:          "icon-status",
			DefaultFootprint: layout.Footprint{Width: 6, Height: 4, MinWidth: 2, MinHeight: 3, MaxWidth: 12, MaxHeight: 8},
			Singleton:        true,
		},
		{
			TypeID:           TypeIDRecentOrders,
			Title:            "Recent Orders",
			IconRef:          "icon-recent",
			DefaultFootprint: layout.Footprint{Width: 6, Height: 4, MinWidth: 2, MinHeight: 3, MaxWidth: 12, MaxHeight: 8},
			Singleton:        true,
		},
	})
}

// Describe looks up a descriptor by widget type. Unknown types yield
// found=false, never an error; callers render a degraded placeholder.
func (widgetCatalog *Catalog) Describe(typeID string) (Descriptor, bool) {
	descriptor, descriptorFound := widgetCatalog.descriptorsByType[strings.TrimSpace(typeID)]
	return descriptor, descriptorFound
}

// All returns every descriptor in stable declaration order.
func (widgetCatalog *Catalog) All() []Descriptor {
	descriptors := make([]Descriptor, len(widgetCatalog.orderedDescriptors))
	copy(descriptors, widgetCatalog.orderedDescriptors)
	return descriptors
}

// DefaultFootprint implements layout.FootprintResolver.
func (widgetCatalog *Catalog) DefaultFootprint(typeID string) (layout.Footprint, bool) {
	descriptor, descriptorFound := widgetCatalog.Describe(typeID)
	if !descriptorFound {
		return layout.Footprint{}, false
	}
	return descriptor.DefaultFootprint, true
}
