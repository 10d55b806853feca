package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/dashboard_svc/internal/httpapi"
)

const (
	apiRoutePrefix = "/api"

	apiRouteDashboard             = "/dashboard"
	apiRouteDashboardCatalog      = "/dashboard/catalog"
	apiRouteDashboardMode         = "/dashboard/mode"
	apiRouteDashboardWidgets      = "/dashboard/widgets"
	apiRouteDashboardWidget       = "/dashboard/widgets/:id"
	apiRouteDashboardWidgetConfig = "/dashboard/widgets/:id/config"
	apiRouteDashboardGridEvents   = "/dashboard/grid-events"
	apiRouteDashboardStats        = "/dashboard/stats"

	corsOriginWildcard      = "*"
	corsHeaderAuthorization = "Authorization"
	corsHeaderContentType   = "Content-Type"
	corsMaxAgeHours         = 12
)

var (
	corsAllowedMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsAllowedHeaders = []string{corsHeaderAuthorization, corsHeaderContentType}
	corsExposedHeaders = []string{corsHeaderContentType}
)

func registerAPIRoutes(
	router *gin.Engine,
	authManager *httpapi.AuthManager,
	dashboardHandlers *httpapi.DashboardHandlers,
	authenticatedOrigin string,
) {
	corsConfiguration := cors.Config{
		AllowMethods:  corsAllowedMethods,
		AllowHeaders:  corsAllowedHeaders,
		ExposeHeaders: corsExposedHeaders,
		MaxAge:        corsMaxAgeHours * time.Hour,
	}
	if authenticatedOrigin != "" {
		corsConfiguration.AllowOrigins = []string{authenticatedOrigin}
		corsConfiguration.AllowCredentials = true
	} else {
		corsConfiguration.AllowOrigins = []string{corsOriginWildcard}
	}

	apiGroup := router.Group(apiRoutePrefix)
	apiGroup.Use(cors.New(corsConfiguration))
	apiGroup.Use(authManager.RequireAuthenticatedJSON())

	apiGroup.GET(apiRouteDashboard, dashboardHandlers.View)
	apiGroup.GET(apiRouteDashboardCatalog, dashboardHandlers.Catalog)
	apiGroup.POST(apiRouteDashboardMode, dashboardHandlers.ToggleEditMode)
	apiGroup.POST(apiRouteDashboardWidgets, dashboardHandlers.AddWidget)
	apiGroup.DELETE(apiRouteDashboardWidget, dashboardHandlers.RemoveWidget)
	apiGroup.PATCH(apiRouteDashboardWidgetConfig, dashboardHandlers.ConfigureWidget)
	apiGroup.POST(apiRouteDashboardGridEvents, dashboardHandlers.GridEvents)
	apiGroup.GET(apiRouteDashboardStats, dashboardHandlers.Stats)
}
