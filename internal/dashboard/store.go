// Package dashboard owns the canonical per-user widget layout and the
// controller that applies user intents to it.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/layout"
)

const (
	errorMessagePersistenceFailed = "dashboard: persist layout"
	errorMessageLoadFailed        = "dashboard: load layout"

	logEventSaveLayoutFailed = "save_layout_failed"
	logEventRepairLayout     = "repair_persisted_layout"
	logFieldOwner            = "owner"
)

// ErrPersistenceFailed wraps repository save failures. The failure is
// recoverable: the in-memory layout stays authoritative and the caller may
// retry; state is never rolled back.
var ErrPersistenceFailed = errors.New(errorMessagePersistenceFailed)

// LayoutRepository is the persistence collaborator: an async key-value
// get/put of layout snapshots keyed by owner identity.
type LayoutRepository interface {
	GetLayout(ctx context.Context, ownerID string) (layout.CanonicalLayout, bool, error)
	PutLayout(ctx context.Context, ownerID string, canonicalLayout layout.CanonicalLayout) error
}

// Store owns the canonical layout for one dashboard owner. It is the only
// component permitted to mutate canonical state in place; every other
// component receives copies or derived projections.
type Store struct {
	ownerID    string
	repository LayoutRepository
	logger     *zap.Logger
	current    layout.CanonicalLayout
	loaded     bool
}

// NewStore creates a store for the given owner with an empty layout.
func NewStore(ownerID string, repository LayoutRepository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		ownerID:    ownerID,
		repository: repository,
		logger:     logger,
	}
}

// Load fetches the persisted layout and makes it current. A missing record
// yields an empty layout, not an error. Snapshots that violate the layout
// invariants are repaired, never rejected: a corrupt record must not lock the
// owner out of their dashboard. A failed load leaves the store unloaded so
// the next request retries.
func (store *Store) Load(ctx context.Context) error {
	persistedLayout, layoutFound, loadErr := store.repository.GetLayout(ctx, store.ownerID)
	if loadErr != nil {
		return fmt.Errorf("%s: %w", errorMessageLoadFailed, loadErr)
	}
	if !layoutFound {
		store.current = layout.CanonicalLayout{}
		store.loaded = true
		return nil
	}

	if validationErr := persistedLayout.Validate(); validationErr != nil {
		store.logger.Warn(logEventRepairLayout,
			zap.String(logFieldOwner, store.ownerID),
			zap.Error(validationErr),
		)
		persistedLayout = persistedLayout.Repaired()
	}

	store.current = persistedLayout
	store.loaded = true
	return nil
}

// Loaded reports whether the store holds the owner's persisted layout.
func (store *Store) Loaded() bool {
	return store.loaded
}

// Current returns a deep copy of the canonical layout.
func (store *Store) Current() layout.CanonicalLayout {
	return store.current.Clone()
}

// Replace swaps the canonical layout in memory. The swap happens before any
// save is issued, so in-memory state never depends on save completion.
func (store *Store) Replace(newLayout layout.CanonicalLayout) {
	store.current = newLayout.Clone()
}

// Save persists the full current snapshot (overwrite semantics, no partial
// merge). On failure the in-memory layout remains authoritative and the
// error is surfaced for retry.
func (store *Store) Save(ctx context.Context) error {
	if saveErr := store.repository.PutLayout(ctx, store.ownerID, store.current.Clone()); saveErr != nil {
		store.logger.Warn(logEventSaveLayoutFailed,
			zap.String(logFieldOwner, store.ownerID),
			zap.Error(saveErr),
		)
		return fmt.Errorf("%w: %s", ErrPersistenceFailed, saveErr)
	}
	return nil
}
