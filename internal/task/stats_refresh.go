package task

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/httpapi"
)

const (
	logEventStatsRefreshFailed = "stats_refresh_failed"
)

// StatsRefresher keeps a cached statistics snapshot warm so dashboard widget
// requests never wait on the counting queries. It implements
// httpapi.DashboardStatisticsProvider by serving the cache, recomputing
// through the wrapped provider on schedule.
type StatsRefresher struct {
	provider httpapi.DashboardStatisticsProvider
	logger   *zap.Logger

	snapshotMutex  sync.RWMutex
	cachedSnapshot httpapi.StatsSnapshot
	snapshotReady  bool
}

// NewStatsRefresher wraps a statistics provider with a snapshot cache.
func NewStatsRefresher(provider httpapi.DashboardStatisticsProvider, logger *zap.Logger) *StatsRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsRefresher{
		provider: provider,
		logger:   logger,
	}
}

// Refresh recomputes the snapshot. A failed refresh keeps the previous
// snapshot in place.
func (refresher *StatsRefresher) Refresh(ctx context.Context) {
	freshSnapshot, snapshotErr := refresher.provider.Snapshot(ctx)
	if snapshotErr != nil {
		refresher.logger.Warn(logEventStatsRefreshFailed, zap.Error(snapshotErr))
		return
	}

	refresher.snapshotMutex.Lock()
	refresher.cachedSnapshot = freshSnapshot
	refresher.snapshotReady = true
	refresher.snapshotMutex.Unlock()
}

// Snapshot serves the cached snapshot, computing one synchronously only when
// the cache has never been filled.
func (refresher *StatsRefresher) Snapshot(ctx context.Context) (httpapi.StatsSnapshot, error) {
	refresher.snapshotMutex.RLock()
	cached := refresher.cachedSnapshot
	ready := refresher.snapshotReady
	refresher.snapshotMutex.RUnlock()
	if ready {
		return cached, nil
	}

	freshSnapshot, snapshotErr := refresher.provider.Snapshot(ctx)
	if snapshotErr != nil {
		return httpapi.StatsSnapshot{}, snapshotErr
	}

	refresher.snapshotMutex.Lock()
	refresher.cachedSnapshot = freshSnapshot
	refresher.snapshotReady = true
	refresher.snapshotMutex.Unlock()

	return freshSnapshot, nil
}
