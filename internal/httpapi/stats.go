package httpapi

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/model"
)

const (
	expiringLicenseWindowDays = 30
	recentOrderLimit          = 10
)

// StatusCount is one slice of the orders-by-status breakdown.
type StatusCount struct {
	Status     string `json:"status"`
	OrderCount int64  `json:"order_count"`
}

// RecentOrder is one row of the recent-orders widget.
type RecentOrder struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"service_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatsSnapshot is the read-only statistics payload widget renderers
// consume. The layout engine never inspects its contents.
type StatsSnapshot struct {
	TotalClients        int64         `json:"total_clients"`
	TotalVehicles       int64         `json:"total_vehicles"`
	OpenServiceOrders   int64         `json:"open_service_orders"`
	ExpiringLicenses    int64         `json:"expiring_licenses"`
	MonthlyRevenueCents int64         `json:"monthly_revenue_cents"`
	OrdersByStatus      []StatusCount `json:"orders_by_status"`
	RecentOrders        []RecentOrder `json:"recent_orders"`
	GeneratedAt         time.Time     `json:"generated_at"`
}

// DashboardStatisticsProvider supplies the statistics snapshot behind the
// dashboard widgets.
type DashboardStatisticsProvider interface {
	Snapshot(ctx context.Context) (StatsSnapshot, error)
}

// DatabaseDashboardStatisticsProvider implements DashboardStatisticsProvider using GORM.
type DatabaseDashboardStatisticsProvider struct {
	database *gorm.DB
}

// NewDatabaseDashboardStatisticsProvider builds a statistics provider backed by the primary database.
func NewDatabaseDashboardStatisticsProvider(database *gorm.DB) *DatabaseDashboardStatisticsProvider {
	return &DatabaseDashboardStatisticsProvider{database: database}
}

// Snapshot computes every widget statistic in one pass.
func (provider *DatabaseDashboardStatisticsProvider) Snapshot(ctx context.Context) (StatsSnapshot, error) {
	snapshot := StatsSnapshot{GeneratedAt: time.Now().UTC()}

	if err := provider.database.WithContext(ctx).Model(&model.Client{}).Count(&snapshot.TotalClients).Error; err != nil {
		return StatsSnapshot{}, err
	}
	if err := provider.database.WithContext(ctx).Model(&model.Vehicle{}).Count(&snapshot.TotalVehicles).Error; err != nil {
		return StatsSnapshot{}, err
	}
	if err := provider.database.WithContext(ctx).
		Model(&model.ServiceOrder{}).
		Where("status <> ?", model.OrderStatusDelivered).
		Count(&snapshot.OpenServiceOrders).Error; err != nil {
		return StatsSnapshot{}, err
	}

	expiryWindowEnd := snapshot.GeneratedAt.AddDate(0, 0, expiringLicenseWindowDays)
	if err := provider.database.WithContext(ctx).
		Model(&model.Vehicle{}).
		Where("license_expires_at > ? AND license_expires_at <= ?", snapshot.GeneratedAt, expiryWindowEnd).
		Count(&snapshot.ExpiringLicenses).Error; err != nil {
		return StatsSnapshot{}, err
	}

	monthStart := time.Date(snapshot.GeneratedAt.Year(), snapshot.GeneratedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
	var monthlyRevenue struct {
		TotalCents int64
	}
	if err := provider.database.WithContext(ctx).
		Model(&model.ServiceOrder{}).
		Select("COALESCE(SUM(price_cents), 0) as total_cents").
		Where("created_at >= ? AND status = ?", monthStart, model.OrderStatusDelivered).
		Scan(&monthlyRevenue).Error; err != nil {
		return StatsSnapshot{}, err
	}
	snapshot.MonthlyRevenueCents = monthlyRevenue.TotalCents

	if err := provider.database.WithContext(ctx).
		Model(&model.ServiceOrder{}).
		Select("status, COUNT(*) as order_count").
		Group("status").
		Order("status").
		Scan(&snapshot.OrdersByStatus).Error; err != nil {
		return StatsSnapshot{}, err
	}

	var recentOrders []model.ServiceOrder
	if err := provider.database.WithContext(ctx).
		Model(&model.ServiceOrder{}).
		Order("created_at desc").
		Limit(recentOrderLimit).
		Find(&recentOrders).Error; err != nil {
		return StatsSnapshot{}, err
	}
	snapshot.RecentOrders = make([]RecentOrder, 0, len(recentOrders))
	for _, order := range recentOrders {
		snapshot.RecentOrders = append(snapshot.RecentOrders, RecentOrder{
			ID:          order.ID,
			ServiceName: order.ServiceName,
			Status:      order.Status,
			CreatedAt:   order.CreatedAt,
		})
	}

	return snapshot, nil
}
