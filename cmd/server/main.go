package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/temirov/GAuss/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/auth"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/catalog"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/dashboard"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/httpapi"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/storage"
	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/task"
)

const (
	commandUseName              = "server"
	commandShortDescription     = "Run the dashboard layout server"
	commandLongDescription      = "Launch the back-office dashboard widget layout HTTP server"
	missingConfigurationMessage = "missing required configuration"
	loggerCreationErrorMessage  = "logger"
	logEventListening           = "listening"
	logEventOAuthDisabled       = "oauth_login_disabled"
	logFieldAddress             = "addr"

	flagNameApplicationAddress     = "app-addr"
	flagNameDatabaseDriver         = "db-driver"
	flagNameDatabaseDataSourceName = "db-dsn"
	flagNameSessionSecret          = "session-secret"
	flagNameAdminEmails            = "admin-emails"
	flagNamePublicBaseURL          = "public-base-url"
	flagNameGoogleClientID         = "google-client-id"
	flagNameGoogleClientSecret     = "google-client-secret"
	flagNameStatsRefreshSeconds    = "stats-refresh-seconds"

	flagUsageApplicationAddress     = "address for the HTTP server to listen on"
	flagUsageDatabaseDriver         = "database driver name"
	flagUsageDatabaseDataSourceName = "database connection string"
	flagUsageSessionSecret          = "secret used to sign session cookies"
	flagUsageAdminEmails            = "comma separated emails granted the admin role"
	flagUsagePublicBaseURL          = "externally visible base URL for OAuth redirects"
	flagUsageGoogleClientID         = "Google OAuth client identifier"
	flagUsageGoogleClientSecret     = "Google OAuth client secret"
	flagUsageStatsRefreshSeconds    = "interval between statistics snapshot refreshes"

	environmentKeyApplicationAddress  = "APP_ADDR"
	environmentKeyDatabaseDriver      = "DB_DRIVER"
	environmentKeyDatabaseDataSource  = "DB_DSN"
	environmentKeySessionSecret       = "SESSION_SECRET"
	environmentKeyAdminEmails         = "ADMIN_EMAILS"
	environmentKeyPublicBaseURL       = "PUBLIC_BASE_URL"
	environmentKeyGoogleClientID      = "GOOGLE_CLIENT_ID"
	environmentKeyGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	environmentKeyStatsRefreshSeconds = "STATS_REFRESH_SECONDS"

	defaultApplicationAddress  = ":8080"
	defaultStatsRefreshSeconds = 60

	oauthCallbackRedirectPath    = "/"
	readHeaderTimeoutSeconds     = 5
	unexpectedArgumentsMessage   = "unexpected command arguments"
	commandInitializationFailure = "failed to configure command"
	flagNotDefinedMessage        = "flag %s not defined"
	environmentConfigurationErr  = "failed to apply environment configuration"
	loggerContextOpenDatabase    = "open_db"
	loggerContextAutoMigrate     = "migrate"
	loggerContextOAuthHandlers   = "oauth_handlers"
	loggerContextServer          = "server"
	adminEmailSeparator          = ","
)

// ServerConfig captures configuration needed to run the server.
type ServerConfig struct {
	ApplicationAddress     string
	DatabaseDriverName     string
	DatabaseDataSourceName string
	SessionSecret          string
	AdminEmails            []string
	PublicBaseURL          string
	GoogleClientID         string
	GoogleClientSecret     string
	StatsRefreshInterval   time.Duration
}

// OAuthConfigured reports whether the Google login flow can be mounted.
func (configuration ServerConfig) OAuthConfigured() bool {
	return configuration.GoogleClientID != "" && configuration.GoogleClientSecret != "" && configuration.PublicBaseURL != ""
}

// DatabaseOpener opens a database connection from storage configuration.
type DatabaseOpener func(storage.Config) (*gorm.DB, error)

// ServerApplication constructs and executes the server command.
type ServerApplication struct {
	configurationLoader *viper.Viper
	databaseOpener      DatabaseOpener
}

// NewServerApplication creates a ServerApplication with default dependencies.
func NewServerApplication() *ServerApplication {
	return &ServerApplication{
		configurationLoader: viper.New(),
		databaseOpener:      storage.OpenDatabase,
	}
}

// WithDatabaseOpener overrides the database opener dependency.
func (application *ServerApplication) WithDatabaseOpener(databaseOpener DatabaseOpener) *ServerApplication {
	application.databaseOpener = databaseOpener
	return application
}

// Command builds the Cobra command for the server.
func (application *ServerApplication) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:   commandUseName,
		Short: commandShortDescription,
		Long:  commandLongDescription,
		RunE:  application.runCommand,
	}

	if configurationErr := application.configureCommand(rootCommand); configurationErr != nil {
		return nil, configurationErr
	}

	return rootCommand, nil
}

type flagBinding struct {
	environmentKey string
	flagName       string
}

func (application *ServerApplication) configureCommand(command *cobra.Command) error {
	application.configurationLoader.SetDefault(environmentKeyApplicationAddress, defaultApplicationAddress)
	application.configurationLoader.SetDefault(environmentKeyDatabaseDriver, storage.DriverNameSQLite)
	application.configurationLoader.SetDefault(environmentKeyStatsRefreshSeconds, defaultStatsRefreshSeconds)
	application.configurationLoader.AutomaticEnv()

	commandFlags := command.Flags()
	commandFlags.String(flagNameApplicationAddress, defaultApplicationAddress, flagUsageApplicationAddress)
	commandFlags.String(flagNameDatabaseDriver, storage.DriverNameSQLite, flagUsageDatabaseDriver)
	commandFlags.String(flagNameDatabaseDataSourceName, "", flagUsageDatabaseDataSourceName)
	commandFlags.String(flagNameSessionSecret, "", flagUsageSessionSecret)
	commandFlags.String(flagNameAdminEmails, "", flagUsageAdminEmails)
	commandFlags.String(flagNamePublicBaseURL, "", flagUsagePublicBaseURL)
	commandFlags.String(flagNameGoogleClientID, "", flagUsageGoogleClientID)
	commandFlags.String(flagNameGoogleClientSecret, "", flagUsageGoogleClientSecret)
	commandFlags.Int(flagNameStatsRefreshSeconds, defaultStatsRefreshSeconds, flagUsageStatsRefreshSeconds)

	bindings := []flagBinding{
		{environmentKeyApplicationAddress, flagNameApplicationAddress},
		{environmentKeyDatabaseDriver, flagNameDatabaseDriver},
		{environmentKeyDatabaseDataSource, flagNameDatabaseDataSourceName},
		{environmentKeySessionSecret, flagNameSessionSecret},
		{environmentKeyAdminEmails, flagNameAdminEmails},
		{environmentKeyPublicBaseURL, flagNamePublicBaseURL},
		{environmentKeyGoogleClientID, flagNameGoogleClientID},
		{environmentKeyGoogleClientSecret, flagNameGoogleClientSecret},
		{environmentKeyStatsRefreshSeconds, flagNameStatsRefreshSeconds},
	}

	for _, binding := range bindings {
		if bindErr := application.bindFlag(commandFlags, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
		if environmentErr := application.applyEnvironmentConfiguration(commandFlags, binding.environmentKey, binding.flagName); environmentErr != nil {
			return environmentErr
		}
	}

	return nil
}

func (application *ServerApplication) bindFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if bindErr := application.configurationLoader.BindPFlag(environmentKey, flag); bindErr != nil {
		return bindErr
	}

	return nil
}

func (application *ServerApplication) applyEnvironmentConfiguration(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	environmentValue, environmentFound := os.LookupEnv(environmentKey)
	if !environmentFound {
		return nil
	}

	if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
		return fmt.Errorf("%s: %w", environmentConfigurationErr, setErr)
	}

	return nil
}

func (application *ServerApplication) loadConfiguration() ServerConfig {
	refreshSeconds := application.configurationLoader.GetInt(environmentKeyStatsRefreshSeconds)
	if refreshSeconds <= 0 {
		refreshSeconds = defaultStatsRefreshSeconds
	}

	return ServerConfig{
		ApplicationAddress:     application.configurationLoader.GetString(environmentKeyApplicationAddress),
		DatabaseDriverName:     strings.TrimSpace(application.configurationLoader.GetString(environmentKeyDatabaseDriver)),
		DatabaseDataSourceName: strings.TrimSpace(application.configurationLoader.GetString(environmentKeyDatabaseDataSource)),
		SessionSecret:          strings.TrimSpace(application.configurationLoader.GetString(environmentKeySessionSecret)),
		AdminEmails:            splitAdminEmails(application.configurationLoader.GetString(environmentKeyAdminEmails)),
		PublicBaseURL:          strings.TrimSpace(application.configurationLoader.GetString(environmentKeyPublicBaseURL)),
		GoogleClientID:         strings.TrimSpace(application.configurationLoader.GetString(environmentKeyGoogleClientID)),
		GoogleClientSecret:     strings.TrimSpace(application.configurationLoader.GetString(environmentKeyGoogleClientSecret)),
		StatsRefreshInterval:   time.Duration(refreshSeconds) * time.Second,
	}
}

func splitAdminEmails(rawValue string) []string {
	segments := strings.Split(rawValue, adminEmailSeparator)
	adminEmails := make([]string, 0, len(segments))
	for _, segment := range segments {
		trimmedSegment := strings.TrimSpace(segment)
		if trimmedSegment == "" {
			continue
		}
		adminEmails = append(adminEmails, trimmedSegment)
	}
	return adminEmails
}

func (application *ServerApplication) runCommand(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf("%s: %s", unexpectedArgumentsMessage, strings.Join(arguments, " "))
	}

	serverConfig := application.loadConfiguration()
	if validationErr := ensureRequiredConfiguration(serverConfig); validationErr != nil {
		return validationErr
	}

	logger, loggerErr := zap.NewProduction()
	if loggerErr != nil {
		return fmt.Errorf("%s: %w", loggerCreationErrorMessage, loggerErr)
	}
	defer func() {
		_ = logger.Sync()
	}()

	database, databaseErr := application.databaseOpener(storage.Config{
		DriverName:     serverConfig.DatabaseDriverName,
		DataSourceName: serverConfig.DatabaseDataSourceName,
	})
	if databaseErr != nil {
		logger.Fatal(loggerContextOpenDatabase, zap.Error(databaseErr))
	}

	if migrateErr := storage.AutoMigrate(database); migrateErr != nil {
		logger.Fatal(loggerContextAutoMigrate, zap.Error(migrateErr))
	}

	session.NewSession([]byte(serverConfig.SessionSecret))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger(logger))

	widgetCatalog := catalog.Default()
	layoutRepository := storage.NewLayoutRepository(database)
	controllerRegistry := dashboard.NewRegistry(layoutRepository, widgetCatalog, logger)

	statsProvider := httpapi.NewDatabaseDashboardStatisticsProvider(database)
	statsRefresher := task.NewStatsRefresher(statsProvider, logger)
	statsScheduler := task.NewScheduler(serverConfig.StatsRefreshInterval, statsRefresher.Refresh)
	statsScheduler.Start(context.Background())
	defer statsScheduler.Stop()
	statsScheduler.Trigger()

	authManager := httpapi.NewAuthManager(logger, serverConfig.AdminEmails)
	dashboardHandlers := httpapi.NewDashboardHandlers(logger, controllerRegistry, widgetCatalog, statsRefresher)

	if serverConfig.OAuthConfigured() {
		oauthHandlers, oauthErr := auth.NewHandlers(auth.Config{
			GoogleClientID:     serverConfig.GoogleClientID,
			GoogleClientSecret: serverConfig.GoogleClientSecret,
			PublicBaseURL:      serverConfig.PublicBaseURL,
			LocalRedirectPath:  oauthCallbackRedirectPath,
			Logger:             logger,
		})
		if oauthErr != nil {
			logger.Fatal(loggerContextOAuthHandlers, zap.Error(oauthErr))
		}
		oauthHandlers.RegisterRoutes(router)
	} else {
		logger.Warn(logEventOAuthDisabled)
	}

	registerAPIRoutes(router, authManager, dashboardHandlers, serverConfig.PublicBaseURL)

	httpServer := &http.Server{
		Addr:              serverConfig.ApplicationAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeoutSeconds * time.Second,
	}

	logger.Info(logEventListening, zap.String(logFieldAddress, serverConfig.ApplicationAddress))
	if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Fatal(loggerContextServer, zap.Error(serveErr))
	}

	return nil
}

func ensureRequiredConfiguration(configuration ServerConfig) error {
	var missingParameters []string

	if configuration.DatabaseDataSourceName == "" {
		missingParameters = append(missingParameters, flagNameDatabaseDataSourceName)
	}

	if configuration.SessionSecret == "" {
		missingParameters = append(missingParameters, flagNameSessionSecret)
	}

	if len(missingParameters) == 0 {
		return nil
	}

	return fmt.Errorf("%s: %s", missingConfigurationMessage, strings.Join(missingParameters, ", "))
}

func main() {
	application := NewServerApplication()
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandInitializationFailure, commandErr)
		os.Exit(1)
	}

	if executeErr := rootCommand.Execute(); executeErr != nil {
		os.Exit(1)
	}
}
