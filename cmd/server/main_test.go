package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/storage"
)

const (
	testPlaceholderDatabaseDSN   = "file:config-test?mode=memory"
	testPlaceholderSessionSecret = "12345678901234567890123456789012"
	testUsagePrefix              = "Usage:"
)

func TestEnsureRequiredConfigurationListsMissingFlags(testingT *testing.T) {
	validationErr := ensureRequiredConfiguration(ServerConfig{})
	require.Error(testingT, validationErr)
	require.Contains(testingT, validationErr.Error(), flagNameDatabaseDataSourceName)
	require.Contains(testingT, validationErr.Error(), flagNameSessionSecret)

	require.NoError(testingT, ensureRequiredConfiguration(ServerConfig{
		DatabaseDataSourceName: testPlaceholderDatabaseDSN,
		SessionSecret:          testPlaceholderSessionSecret,
	}))
}

func TestSplitAdminEmailsDropsBlankSegments(testingT *testing.T) {
	require.Equal(testingT,
		[]string{"first@example.com", "second@example.com"},
		splitAdminEmails(" first@example.com ,, second@example.com ,"))
	require.Empty(testingT, splitAdminEmails("  "))
}

func TestOAuthConfiguredRequiresAllThreeValues(testingT *testing.T) {
	require.False(testingT, ServerConfig{GoogleClientID: "id", GoogleClientSecret: "secret"}.OAuthConfigured())
	require.False(testingT, ServerConfig{GoogleClientID: "id", PublicBaseURL: "https://example.com"}.OAuthConfigured())
	require.True(testingT, ServerConfig{
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
		PublicBaseURL:      "https://example.com",
	}.OAuthConfigured())
}

func TestLoadConfigurationReadsEnvironment(testingT *testing.T) {
	testingT.Setenv(environmentKeyDatabaseDataSource, testPlaceholderDatabaseDSN)
	testingT.Setenv(environmentKeySessionSecret, testPlaceholderSessionSecret)
	testingT.Setenv(environmentKeyAdminEmails, "boss@example.com, clerk@example.com")
	testingT.Setenv(environmentKeyStatsRefreshSeconds, "120")

	application := NewServerApplication()
	command, commandErr := application.Command()
	require.NoError(testingT, commandErr)
	require.NotNil(testingT, command)

	serverConfig := application.loadConfiguration()
	require.Equal(testingT, testPlaceholderDatabaseDSN, serverConfig.DatabaseDataSourceName)
	require.Equal(testingT, testPlaceholderSessionSecret, serverConfig.SessionSecret)
	require.Equal(testingT, []string{"boss@example.com", "clerk@example.com"}, serverConfig.AdminEmails)
	require.Equal(testingT, 120*time.Second, serverConfig.StatsRefreshInterval)
	require.Equal(testingT, defaultApplicationAddress, serverConfig.ApplicationAddress)
	require.Equal(testingT, storage.DriverNameSQLite, serverConfig.DatabaseDriverName)
}

func TestServerCommandMissingConfigurationShowsHelp(testingT *testing.T) {
	testingT.Setenv(environmentKeyDatabaseDataSource, "")
	testingT.Setenv(environmentKeySessionSecret, "")

	databaseOpenerStub := func(configuration storage.Config) (*gorm.DB, error) {
		testingT.Fatalf("database opener invoked with %s", configuration.DataSourceName)
		return nil, nil
	}

	application := NewServerApplication().WithDatabaseOpener(databaseOpenerStub)
	command, commandErr := application.Command()
	require.NoError(testingT, commandErr)

	commandOutput := &bytes.Buffer{}
	command.SetOut(commandOutput)
	command.SetErr(commandOutput)

	executionErr := command.Execute()
	require.Error(testingT, executionErr)
	require.Contains(testingT, executionErr.Error(), missingConfigurationMessage)

	combinedOutput := commandOutput.String()
	require.Contains(testingT, combinedOutput, testUsagePrefix)
}

func TestServerCommandRejectsPositionalArguments(testingT *testing.T) {
	testingT.Setenv(environmentKeyDatabaseDataSource, testPlaceholderDatabaseDSN)
	testingT.Setenv(environmentKeySessionSecret, testPlaceholderSessionSecret)

	application := NewServerApplication()
	command, commandErr := application.Command()
	require.NoError(testingT, commandErr)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"unexpected"})

	executionErr := command.Execute()
	require.Error(testingT, executionErr)
	require.True(testingT, strings.Contains(executionErr.Error(), unexpectedArgumentsMessage))
}
