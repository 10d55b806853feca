package dashboard

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/catalog"
)

// Registry hands out one controller per dashboard owner, created lazily on
// first touch. Controllers live for the process lifetime; their stores hold
// the authoritative in-memory layout between requests.
type Registry struct {
	repository    LayoutRepository
	widgetCatalog *catalog.Catalog
	logger        *zap.Logger

	controllersByOwner map[string]*Controller
	controllersMutex   sync.Mutex
}

// NewRegistry builds an empty controller registry.
func NewRegistry(repository LayoutRepository, widgetCatalog *catalog.Catalog, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		repository:         repository,
		widgetCatalog:      widgetCatalog,
		logger:             logger,
		controllersByOwner: make(map[string]*Controller),
	}
}

// ControllerFor returns the owner's controller, creating it if absent. The
// controller is handed out unloaded; Controller.Load fills it exactly once
// and every request calls Load, so two requests racing for a fresh owner
// cannot mutate an empty store. A failed load leaves the controller
// unloaded and the next request retries.
func (registry *Registry) ControllerFor(ownerID string) *Controller {
	normalizedOwnerID := strings.ToLower(strings.TrimSpace(ownerID))

	registry.controllersMutex.Lock()
	defer registry.controllersMutex.Unlock()

	if existingController, controllerFound := registry.controllersByOwner[normalizedOwnerID]; controllerFound {
		return existingController
	}

	ownerStore := NewStore(normalizedOwnerID, registry.repository, registry.logger)
	createdController := NewController(ownerStore, registry.widgetCatalog, registry.logger)
	registry.controllersByOwner[normalizedOwnerID] = createdController
	return createdController
}
