package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/catalog"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/layout"
)

func TestControllerForReturnsSameControllerPerOwner(t *testing.T) {
	registry := NewRegistry(&stubLayoutRepository{}, catalog.Default(), nil)

	firstController := registry.ControllerFor("Owner@Example.com")
	secondController := registry.ControllerFor("owner@example.com ")
	require.Same(t, firstController, secondController)
}

func TestControllerForSeparatesOwners(t *testing.T) {
	registry := NewRegistry(&stubLayoutRepository{}, catalog.Default(), nil)

	firstController := registry.ControllerFor("first@example.com")
	secondController := registry.ControllerFor("second@example.com")
	require.NotSame(t, firstController, secondController)
}

func TestMutationThroughSecondReferenceLoadsBeforeSaving(t *testing.T) {
	persistedWidget := layout.WidgetInstance{
		InstanceID: "persisted-vehicles",
		TypeID:     catalog.TypeIDTotalVehicles,
		Placement:  layout.Rect{X: 0, Y: 0, Width: 3, Height: 2},
	}
	repository := &stubLayoutRepository{
		storedLayout: layout.CanonicalLayout{Widgets: []layout.WidgetInstance{persistedWidget}},
		layoutFound:  true,
	}
	registry := NewRegistry(repository, catalog.Default(), nil)

	// Two requests resolve the same owner; neither has called Load yet.
	_ = registry.ControllerFor("owner@example.com")
	secondReference := registry.ControllerFor("owner@example.com")

	require.Equal(t, ModeEditing, secondReference.ToggleEdit())
	_, applied, addErr := secondReference.AddWidget(context.Background(), catalog.TypeIDTotalClients)
	require.NoError(t, addErr)
	require.True(t, applied)

	require.Len(t, repository.storedLayout.Widgets, 2)
	require.GreaterOrEqual(t, repository.storedLayout.Find(persistedWidget.InstanceID), 0)
}

func TestFailedLoadIsRetriedOnNextRequest(t *testing.T) {
	repository := &stubLayoutRepository{getErr: errors.New("connection refused")}
	registry := NewRegistry(repository, catalog.Default(), nil)

	controller := registry.ControllerFor("owner@example.com")
	require.Error(t, controller.Load(context.Background()))

	repository.getErr = nil
	retriedController := registry.ControllerFor("owner@example.com")
	require.Same(t, controller, retriedController)
	require.NoError(t, retriedController.Load(context.Background()))
}

func TestLoadIsIdempotentAcrossRequests(t *testing.T) {
	repository := &stubLayoutRepository{
		storedLayout: layout.CanonicalLayout{Widgets: []layout.WidgetInstance{
			{InstanceID: "a", TypeID: catalog.TypeIDTotalClients, Placement: layout.Rect{X: 0, Y: 0, Width: 3, Height: 2}},
		}},
		layoutFound: true,
	}
	registry := NewRegistry(repository, catalog.Default(), nil)

	controller := registry.ControllerFor("owner@example.com")
	require.NoError(t, controller.Load(context.Background()))

	// A later in-memory mutation must not be clobbered by a repeated Load.
	require.Equal(t, ModeEditing, controller.ToggleEdit())
	_, _, addErr := controller.AddWidget(context.Background(), catalog.TypeIDTotalVehicles)
	require.NoError(t, addErr)

	require.NoError(t, controller.Load(context.Background()))
	require.Len(t, controller.Layout().Widgets, 2)
}
