package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/catalog"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/dashboard"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/layout"
)

const (
	jsonKeyError    = "error"
	jsonKeyApplied  = "applied"
	jsonKeyMode     = "mode"
	jsonKeyInstance = "instance"

	errorValueInvalidJSON       = "invalid_json"
	errorValueMissingWidgetType = "missing_widget_type"
	errorValueMissingInstance   = "missing_instance"
	errorValueInvalidBreakpoint = "invalid_breakpoint"
	errorValueLoadFailed        = "load_failed"
	errorValueSaveFailed        = "save_failed"
	errorValueStatsFailed       = "stats_failed"

	placeholderTitle   = "Widget not found"
	placeholderIconRef = "icon-missing"

	logEventLoadLayout    = "load_layout"
	logEventStatsSnapshot = "stats_snapshot"
)

// DashboardHandlers exposes the widget layout engine over HTTP for the
// authenticated staff user.
type DashboardHandlers struct {
	logger        *zap.Logger
	registry      *dashboard.Registry
	widgetCatalog *catalog.Catalog
	statsProvider DashboardStatisticsProvider
}

// NewDashboardHandlers builds the dashboard handler set.
func NewDashboardHandlers(logger *zap.Logger, registry *dashboard.Registry, widgetCatalog *catalog.Catalog, statsProvider DashboardStatisticsProvider) *DashboardHandlers {
	return &DashboardHandlers{
		logger:        logger,
		registry:      registry,
		widgetCatalog: widgetCatalog,
		statsProvider: statsProvider,
	}
}

type addWidgetRequest struct {
	TypeID string `json:"type_id"`
}

type configureWidgetRequest struct {
	Config map[string]any `json:"config"`
}

type gridEventRequest struct {
	Breakpoint string         `json:"breakpoint"`
	Deltas     []layout.Delta `json:"deltas"`
}

type widgetView struct {
	InstanceID  string         `json:"instance_id"`
	TypeID      string         `json:"type_id"`
	Title       string         `json:"title"`
	IconRef     string         `json:"icon_ref"`
	Config      map[string]any `json:"config,omitempty"`
	Placeholder bool           `json:"placeholder"`
}

type dashboardViewResponse struct {
	Mode    string                  `json:"mode"`
	Widgets []widgetView            `json:"widgets"`
	Grids   []layout.BreakpointGrid `json:"grids"`
}

type catalogEntryResponse struct {
	catalog.Descriptor
	Available bool `json:"available"`
}

type catalogResponse struct {
	Widgets []catalogEntryResponse `json:"widgets"`
}

type modeResponse struct {
	Mode string `json:"mode"`
}

type mutationResponse struct {
	Applied bool   `json:"applied"`
	Mode    string `json:"mode"`
}

type addWidgetResponse struct {
	Applied  bool                  `json:"applied"`
	Mode     string                `json:"mode"`
	Instance layout.WidgetInstance `json:"instance,omitempty"`
}

// View returns the user's full dashboard: interaction mode, widget details
// and the projected grid for every breakpoint.
func (handlers *DashboardHandlers) View(requestContext *gin.Context) {
	controller, controllerReady := handlers.ownerController(requestContext)
	if !controllerReady {
		return
	}

	canonicalLayout := controller.Layout()
	widgetViews := make([]widgetView, 0, len(canonicalLayout.Widgets))
	for _, instance := range canonicalLayout.Widgets {
		widgetViews = append(widgetViews, handlers.toWidgetView(instance))
	}

	grids := make([]layout.BreakpointGrid, 0, len(layout.Breakpoints()))
	for _, breakpoint := range layout.Breakpoints() {
		grids = append(grids, controller.Project(breakpoint))
	}

	requestContext.JSON(http.StatusOK, dashboardViewResponse{
		Mode:    string(controller.Mode()),
		Widgets: widgetViews,
		Grids:   grids,
	})
}

// Catalog lists every widget type with its availability: singleton types
// already on the dashboard are surfaced as disabled controls.
func (handlers *DashboardHandlers) Catalog(requestContext *gin.Context) {
	controller, controllerReady := handlers.ownerController(requestContext)
	if !controllerReady {
		return
	}

	canonicalLayout := controller.Layout()
	descriptors := handlers.widgetCatalog.All()
	entries := make([]catalogEntryResponse, 0, len(descriptors))
	for _, descriptor := range descriptors {
		available := !(descriptor.Singleton && canonicalLayout.ContainsType(descriptor.TypeID))
		entries = append(entries, catalogEntryResponse{Descriptor: descriptor, Available: available})
	}

	requestContext.JSON(http.StatusOK, catalogResponse{Widgets: entries})
}

// ToggleEditMode flips between viewing and editing.
func (handlers *DashboardHandlers) ToggleEditMode(requestContext *gin.Context) {
	controller, controllerReady := handlers.ownerController(requestContext)
	if !controllerReady {
		return
	}

	newMode := controller.ToggleEdit()
	requestContext.JSON(http.StatusOK, modeResponse{Mode: string(newMode)})
}

// AddWidget places a new widget of the requested type at the next free slot.
func (handlers *DashboardHandlers) AddWidget(requestContext *gin.Context) {
	controller, controllerReady := handlers.ownerController(requestContext)
	if !controllerReady {
		return
	}

	var payload addWidgetRequest
	if bindErr := requestContext.BindJSON(&payload); bindErr != nil {
		requestContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	if strings.TrimSpace(payload.TypeID) == "" {
		requestContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingWidgetType})
		return
	}

	instance, applied, mutationErr := controller.AddWidget(requestContext.Request.Context(), payload.TypeID)
	if mutationErr != nil {
		// The widget may already be live in the in-memory layout; report the
		// applied state so the client renders it and offers a retry of the
		// save instead of treating the mutation as lost.
		requestContext.JSON(http.StatusInternalServerError, gin.H{
			jsonKeyError:    errorValueSaveFailed,
			jsonKeyApplied:  applied,
			jsonKeyMode:     string(controller.Mode()),
			jsonKeyInstance: instance,
		})
		return
	}

	requestContext.JSON(http.StatusOK, addWidgetResponse{
		Applied:  applied,
		Mode:     string(controller.Mode()),
		Instance: instance,
	})
}

// RemoveWidget deletes exactly the targeted instance; survivors never shift.
func (handlers *DashboardHandlers) RemoveWidget(requestContext *gin.Context) {
	controller, controllerReady := handlers.ownerController(requestContext)
	if !controllerReady {
		return
	}

	instanceID := strings.TrimSpace(requestContext.Param("id"))
	if instanceID == "" {
		requestContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingInstance})
		return
	}

	applied, mutationErr := controller.RemoveWidget(requestContext.Request.Context(), instanceID)
	if mutationErr != nil {
		requestContext.JSON(http.StatusInternalServerError, gin.H{
			jsonKeyError:   errorValueSaveFailed,
			jsonKeyApplied: applied,
			jsonKeyMode:    string(controller.Mode()),
		})
		return
	}

	requestContext.JSON(http.StatusOK, mutationResponse{Applied: applied, Mode: string(controller.Mode())})
}

// ConfigureWidget replaces the opaque config payload on one instance.
func (handlers *DashboardHandlers) ConfigureWidget(requestContext *gin.Context) {
	controller, controllerReady := handlers.ownerController(requestContext)
	if !controllerReady {
		return
	}

	instanceID := strings.TrimSpace(requestContext.Param("id"))
	if instanceID == "" {
		requestContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingInstance})
		return
	}

	var payload configureWidgetRequest
	if bindErr := requestContext.BindJSON(&payload); bindErr != nil {
		requestContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	applied, mutationErr := controller.ConfigureWidget(requestContext.Request.Context(), instanceID, payload.Config)
	if mutationErr != nil {
		requestContext.JSON(http.StatusInternalServerError, gin.H{
			jsonKeyError:   errorValueSaveFailed,
			jsonKeyApplied: applied,
			jsonKeyMode:    string(controller.Mode()),
		})
		return
	}

	requestContext.JSON(http.StatusOK, mutationResponse{Applied: applied, Mode: string(controller.Mode())})
}

// GridEvents folds one gesture's delta batch into the canonical layout.
func (handlers *DashboardHandlers) GridEvents(requestContext *gin.Context) {
	controller, controllerReady := handlers.ownerController(requestContext)
	if !controllerReady {
		return
	}

	var payload gridEventRequest
	if bindErr := requestContext.BindJSON(&payload); bindErr != nil {
		requestContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	breakpoint, breakpointErr := layout.ParseBreakpoint(payload.Breakpoint)
	if breakpointErr != nil {
		requestContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidBreakpoint})
		return
	}

	applied, mutationErr := controller.HandleGridEvent(requestContext.Request.Context(), breakpoint, payload.Deltas)
	if mutationErr != nil {
		requestContext.JSON(http.StatusInternalServerError, gin.H{
			jsonKeyError:   errorValueSaveFailed,
			jsonKeyApplied: applied,
			jsonKeyMode:    string(controller.Mode()),
		})
		return
	}

	requestContext.JSON(http.StatusOK, mutationResponse{Applied: applied, Mode: string(controller.Mode())})
}

// Stats returns the snapshot the widget renderers consume.
func (handlers *DashboardHandlers) Stats(requestContext *gin.Context) {
	snapshot, snapshotErr := handlers.statsProvider.Snapshot(requestContext.Request.Context())
	if snapshotErr != nil {
		handlers.logger.Warn(logEventStatsSnapshot, zap.Error(snapshotErr))
		requestContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueStatsFailed})
		return
	}
	requestContext.JSON(http.StatusOK, snapshot)
}

// ownerController resolves the current user's controller. Load fills the
// store on first touch and is a no-op afterwards, so every request goes
// through it; a failed load surfaces here and is retried by the next
// request.
func (handlers *DashboardHandlers) ownerController(requestContext *gin.Context) (*dashboard.Controller, bool) {
	currentUser, authenticated := CurrentUserFromContext(requestContext)
	if !authenticated {
		requestContext.JSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
		return nil, false
	}

	controller := handlers.registry.ControllerFor(currentUser.NormalizedEmail())
	if loadErr := controller.Load(requestContext.Request.Context()); loadErr != nil {
		handlers.logger.Warn(logEventLoadLayout, zap.Error(loadErr))
		requestContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueLoadFailed})
		return nil, false
	}

	return controller, true
}

// toWidgetView renders a widget instance for the client, substituting a
// placeholder for instances whose type is missing from the catalog. The
// placeholder keeps the raw type identifier visible and stays removable in
// editing mode.
func (handlers *DashboardHandlers) toWidgetView(instance layout.WidgetInstance) widgetView {
	descriptor, descriptorFound := handlers.widgetCatalog.Describe(instance.TypeID)
	if !descriptorFound {
		return widgetView{
			InstanceID:  instance.InstanceID,
			TypeID:      instance.TypeID,
			Title:       placeholderTitle,
			IconRef:     placeholderIconRef,
			Config:      instance.Config,
			Placeholder: true,
		}
	}

	return widgetView{
		InstanceID: instance.InstanceID,
		TypeID:     instance.TypeID,
		Title:      descriptor.Title,
		IconRef:    descriptor.IconRef,
		Config:     instance.Config,
	}
}
