package httpapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/httpapi"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/model"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/storage"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/testutil"
)

func newStatsDatabase(testingT *testing.T) *gorm.DB {
	testingT.Helper()
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)
	require.NoError(testingT, storage.AutoMigrate(database))
	return testutil.ConfigureDatabaseLogger(testingT, database)
}

func seedClient(testingT *testing.T, database *gorm.DB, fullName string) model.Client {
	testingT.Helper()
	client := model.Client{ID: storage.NewID(), FullName: fullName}
	require.NoError(testingT, database.Create(&client).Error)
	return client
}

func seedVehicle(testingT *testing.T, database *gorm.DB, clientID string, licenseExpiresAt time.Time) model.Vehicle {
	testingT.Helper()
	vehicle := model.Vehicle{
		ID:               storage.NewID(),
		ClientID:         clientID,
		PlateNumber:      "KZ-" + storage.NewID()[:8],
		LicenseExpiresAt: licenseExpiresAt,
	}
	require.NoError(testingT, database.Create(&vehicle).Error)
	return vehicle
}

func seedServiceOrder(testingT *testing.T, database *gorm.DB, clientID string, status string, priceCents int64) model.ServiceOrder {
	testingT.Helper()
	order := model.ServiceOrder{
		ID:          storage.NewID(),
		ClientID:    clientID,
		ServiceName: "License renewal",
		Status:      status,
		PriceCents:  priceCents,
	}
	require.NoError(testingT, database.Create(&order).Error)
	return order
}

func TestSnapshotCountsClientsAndVehicles(testingT *testing.T) {
	database := newStatsDatabase(testingT)
	now := time.Now().UTC()

	firstClient := seedClient(testingT, database, "First Client")
	secondClient := seedClient(testingT, database, "Second Client")
	seedVehicle(testingT, database, firstClient.ID, now.AddDate(1, 0, 0))
	seedVehicle(testingT, database, secondClient.ID, now.AddDate(0, 0, 10))

	snapshot, snapshotErr := httpapi.NewDatabaseDashboardStatisticsProvider(database).Snapshot(context.Background())
	require.NoError(testingT, snapshotErr)
	require.Equal(testingT, int64(2), snapshot.TotalClients)
	require.Equal(testingT, int64(2), snapshot.TotalVehicles)
}

func TestSnapshotCountsExpiringLicensesWithinWindow(testingT *testing.T) {
	database := newStatsDatabase(testingT)
	now := time.Now().UTC()

	client := seedClient(testingT, database, "Window Client")
	seedVehicle(testingT, database, client.ID, now.AddDate(0, 0, 10))
	seedVehicle(testingT, database, client.ID, now.AddDate(0, 0, 90))
	seedVehicle(testingT, database, client.ID, now.AddDate(0, 0, -5))

	snapshot, snapshotErr := httpapi.NewDatabaseDashboardStatisticsProvider(database).Snapshot(context.Background())
	require.NoError(testingT, snapshotErr)
	require.Equal(testingT, int64(1), snapshot.ExpiringLicenses)
}

func TestSnapshotCountsOpenOrdersAndRevenue(testingT *testing.T) {
	database := newStatsDatabase(testingT)

	client := seedClient(testingT, database, "Order Client")
	seedServiceOrder(testingT, database, client.ID, model.OrderStatusPending, 10_00)
	seedServiceOrder(testingT, database, client.ID, model.OrderStatusInProgress, 20_00)
	seedServiceOrder(testingT, database, client.ID, model.OrderStatusDelivered, 150_00)
	seedServiceOrder(testingT, database, client.ID, model.OrderStatusDelivered, 50_00)

	snapshot, snapshotErr := httpapi.NewDatabaseDashboardStatisticsProvider(database).Snapshot(context.Background())
	require.NoError(testingT, snapshotErr)
	require.Equal(testingT, int64(2), snapshot.OpenServiceOrders)
	require.Equal(testingT, int64(200_00), snapshot.MonthlyRevenueCents)
}

func TestSnapshotGroupsOrdersByStatus(testingT *testing.T) {
	database := newStatsDatabase(testingT)

	client := seedClient(testingT, database, "Status Client")
	seedServiceOrder(testingT, database, client.ID, model.OrderStatusPending, 10_00)
	seedServiceOrder(testingT, database, client.ID, model.OrderStatusPending, 10_00)
	seedServiceOrder(testingT, database, client.ID, model.OrderStatusReady, 10_00)

	snapshot, snapshotErr := httpapi.NewDatabaseDashboardStatisticsProvider(database).Snapshot(context.Background())
	require.NoError(testingT, snapshotErr)

	countsByStatus := make(map[string]int64, len(snapshot.OrdersByStatus))
	for _, statusCount := range snapshot.OrdersByStatus {
		countsByStatus[statusCount.Status] = statusCount.OrderCount
	}
	require.Equal(testingT, int64(2), countsByStatus[model.OrderStatusPending])
	require.Equal(testingT, int64(1), countsByStatus[model.OrderStatusReady])
}

func TestSnapshotLimitsRecentOrders(testingT *testing.T) {
	database := newStatsDatabase(testingT)

	client := seedClient(testingT, database, "Busy Client")
	for orderIndex := 0; orderIndex < 12; orderIndex++ {
		seedServiceOrder(testingT, database, client.ID, model.OrderStatusPending, 10_00)
	}

	snapshot, snapshotErr := httpapi.NewDatabaseDashboardStatisticsProvider(database).Snapshot(context.Background())
	require.NoError(testingT, snapshotErr)
	require.Len(testingT, snapshot.RecentOrders, 10)
}
