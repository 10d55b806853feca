package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/storage"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/testutil"
)

func TestOpenDatabaseRequiresDriverName(testingT *testing.T) {
	_, openErr := storage.OpenDatabase(storage.Config{DataSourceName: "file:memory"})
	require.ErrorIs(testingT, openErr, storage.ErrMissingDatabaseDriverName)
}

func TestOpenDatabaseRejectsUnsupportedDriver(testingT *testing.T) {
	_, openErr := storage.OpenDatabase(storage.Config{DriverName: "oracle", DataSourceName: "file:memory"})
	require.ErrorIs(testingT, openErr, storage.ErrUnsupportedDatabaseDriver)
}

func TestOpenDatabaseRequiresDataSourceName(testingT *testing.T) {
	_, openErr := storage.OpenDatabase(storage.Config{DriverName: storage.DriverNameSQLite})
	require.ErrorIs(testingT, openErr, storage.ErrMissingDataSourceName)
}

func TestAutoMigrateIsRepeatable(testingT *testing.T) {
	sqliteDatabase := testutil.NewSQLiteTestDatabase(testingT)
	database, openErr := storage.OpenDatabase(sqliteDatabase.Configuration())
	require.NoError(testingT, openErr)

	require.NoError(testingT, storage.AutoMigrate(database))
	require.NoError(testingT, storage.AutoMigrate(database))
}

func TestNewIDProducesUniqueIdentifiers(testingT *testing.T) {
	require.NotEqual(testingT, storage.NewID(), storage.NewID())
}
