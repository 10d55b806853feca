package dashboard

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/catalog"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/layout"
)

const (
	logEventUnknownWidgetType     = "unknown_widget_type"
	logEventUnknownWidgetInstance = "unknown_widget_instance"
	logFieldTypeID                = "type_id"
	logFieldInstanceID            = "instance_id"
)

// Mode is the controller's interaction state. The grid is read-only while
// viewing; drag, resize, add, remove and configure are editing-only.
type Mode string

const (
	// ModeViewing renders widgets fully interactive but the grid immutable.
	ModeViewing Mode = "viewing"
	// ModeEditing accepts layout mutations.
	ModeEditing Mode = "editing"
)

// Controller orchestrates user intents against the layout store and the grid
// reconciler, and drives persistence. All mutating operations are no-ops
// (not errors) outside editing mode; the UI disables the controls, but the
// controller also defends against programmatic misuse.
type Controller struct {
	store         *Store
	widgetCatalog *catalog.Catalog
	reconciler    *layout.Reconciler
	logger        *zap.Logger
	mode          Mode

	// Interaction handlers run to completion one at a time per owner,
	// mirroring the single-threaded UI event loop the grid surface assumes.
	interactionMutex sync.Mutex
}

// NewController builds a controller in viewing mode.
func NewController(store *Store, widgetCatalog *catalog.Catalog, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		store:         store,
		widgetCatalog: widgetCatalog,
		reconciler:    layout.NewReconciler(logger),
		logger:        logger,
		mode:          ModeViewing,
	}
}

// Load pulls the owner's persisted layout into memory the first time it is
// called; later calls are no-ops. Safe for every request to invoke, so a
// controller shared between concurrent requests is never mutated before its
// layout arrives.
func (controller *Controller) Load(ctx context.Context) error {
	controller.interactionMutex.Lock()
	defer controller.interactionMutex.Unlock()
	return controller.ensureLoadedLocked(ctx)
}

// ensureLoadedLocked loads the persisted layout if the store has never been
// filled. Callers must hold the interaction mutex.
func (controller *Controller) ensureLoadedLocked(ctx context.Context) error {
	if controller.store.Loaded() {
		return nil
	}
	return controller.store.Load(ctx)
}

// Mode reports the current interaction mode.
func (controller *Controller) Mode() Mode {
	controller.interactionMutex.Lock()
	defer controller.interactionMutex.Unlock()
	return controller.mode
}

// ToggleEdit flips between viewing and editing. No other transitions exist.
func (controller *Controller) ToggleEdit() Mode {
	controller.interactionMutex.Lock()
	defer controller.interactionMutex.Unlock()
	if controller.mode == ModeViewing {
		controller.mode = ModeEditing
	} else {
		controller.mode = ModeViewing
	}
	return controller.mode
}

// Layout returns a copy of the canonical layout.
func (controller *Controller) Layout() layout.CanonicalLayout {
	controller.interactionMutex.Lock()
	defer controller.interactionMutex.Unlock()
	return controller.store.Current()
}

// Project derives the grid for one breakpoint from the canonical layout.
func (controller *Controller) Project(breakpoint layout.Breakpoint) layout.BreakpointGrid {
	controller.interactionMutex.Lock()
	defer controller.interactionMutex.Unlock()
	return layout.Project(controller.store.Current(), breakpoint, controller.widgetCatalog)
}

// AddWidget creates a widget instance of the given type with its default
// footprint at the next free slot, appends it and persists. Adding a second
// instance of a singleton type is a no-op, surfaced to the UI as a disabled
// control. Returns the created instance and whether anything was applied.
func (controller *Controller) AddWidget(ctx context.Context, typeID string) (layout.WidgetInstance, bool, error) {
	controller.interactionMutex.Lock()
	defer controller.interactionMutex.Unlock()

	if controller.mode != ModeEditing {
		return layout.WidgetInstance{}, false, nil
	}
	if loadErr := controller.ensureLoadedLocked(ctx); loadErr != nil {
		return layout.WidgetInstance{}, false, loadErr
	}

	descriptor, descriptorFound := controller.widgetCatalog.Describe(typeID)
	if !descriptorFound {
		controller.logger.Warn(logEventUnknownWidgetType, zap.String(logFieldTypeID, typeID))
		return layout.WidgetInstance{}, false, nil
	}

	currentLayout := controller.store.Current()
	if descriptor.Singleton && currentLayout.ContainsType(descriptor.TypeID) {
		return layout.WidgetInstance{}, false, nil
	}

	slotX, slotY := currentLayout.NextFreeSlot()
	instance, instanceErr := layout.NewWidgetInstance(descriptor.TypeID, descriptor.DefaultFootprint, slotX, slotY)
	if instanceErr != nil {
		return layout.WidgetInstance{}, false, instanceErr
	}

	currentLayout.Widgets = append(currentLayout.Widgets, instance)
	controller.store.Replace(currentLayout)

	return instance, true, controller.store.Save(ctx)
}

// RemoveWidget deletes exactly the targeted instance and persists. Survivors
// keep their placements; removal never triggers re-compaction, so nothing
// shifts mid-edit.
func (controller *Controller) RemoveWidget(ctx context.Context, instanceID string) (bool, error) {
	controller.interactionMutex.Lock()
	defer controller.interactionMutex.Unlock()

	if controller.mode != ModeEditing {
		return false, nil
	}
	if loadErr := controller.ensureLoadedLocked(ctx); loadErr != nil {
		return false, loadErr
	}

	currentLayout := controller.store.Current()
	widgetIndex := currentLayout.Find(strings.TrimSpace(instanceID))
	if widgetIndex < 0 {
		controller.logger.Warn(logEventUnknownWidgetInstance, zap.String(logFieldInstanceID, instanceID))
		return false, nil
	}

	currentLayout.Widgets = append(currentLayout.Widgets[:widgetIndex], currentLayout.Widgets[widgetIndex+1:]...)
	controller.store.Replace(currentLayout)

	return true, controller.store.Save(ctx)
}

// ConfigureWidget replaces the config payload on the matching instance and
// persists. Placement is untouched.
func (controller *Controller) ConfigureWidget(ctx context.Context, instanceID string, newConfig map[string]any) (bool, error) {
	controller.interactionMutex.Lock()
	defer controller.interactionMutex.Unlock()

	if controller.mode != ModeEditing {
		return false, nil
	}
	if loadErr := controller.ensureLoadedLocked(ctx); loadErr != nil {
		return false, loadErr
	}

	currentLayout := controller.store.Current()
	widgetIndex := currentLayout.Find(strings.TrimSpace(instanceID))
	if widgetIndex < 0 {
		controller.logger.Warn(logEventUnknownWidgetInstance, zap.String(logFieldInstanceID, instanceID))
		return false, nil
	}

	currentLayout.Widgets[widgetIndex].Config = newConfig
	controller.store.Replace(currentLayout)

	return true, controller.store.Save(ctx)
}

// HandleGridEvent folds a gesture's delta batch into the canonical layout at
// the given breakpoint, replaces canonical state and persists. Placements
// are written back at the wide granularity; narrower breakpoints are always
// re-derived on projection.
func (controller *Controller) HandleGridEvent(ctx context.Context, breakpoint layout.Breakpoint, deltas []layout.Delta) (bool, error) {
	controller.interactionMutex.Lock()
	defer controller.interactionMutex.Unlock()

	if controller.mode != ModeEditing {
		return false, nil
	}
	if loadErr := controller.ensureLoadedLocked(ctx); loadErr != nil {
		return false, loadErr
	}

	currentLayout := controller.store.Current()
	activeGrid := layout.Project(currentLayout, breakpoint, controller.widgetCatalog)
	reconciledGrid := controller.reconciler.Reconcile(activeGrid, deltas)

	for _, entry := range reconciledGrid.Entries {
		widgetIndex := currentLayout.Find(entry.InstanceID)
		if widgetIndex < 0 {
			continue
		}
		currentLayout.Widgets[widgetIndex].Placement = entry.Rect
	}

	controller.store.Replace(currentLayout)

	return true, controller.store.Save(ctx)
}
