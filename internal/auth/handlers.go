// Package auth mounts the Google OAuth login flow provided by GAuss.
package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/temirov/GAuss/pkg/constants"
	"github.com/temirov/GAuss/pkg/gauss"
	"go.uber.org/zap"
)

const (
	createServiceError  = "create oauth service"
	createHandlersError = "create oauth handlers"
)

// Config captures dependencies for building the OAuth handlers.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	PublicBaseURL      string
	LocalRedirectPath  string
	Logger             *zap.Logger
}

// Handlers exposes the login, callback and logout endpoints.
type Handlers struct {
	gaussHandlers *gauss.Handlers
	serveMux      *http.ServeMux
	logger        *zap.Logger
}

// NewHandlers constructs the OAuth handlers from GAuss primitives.
func NewHandlers(configuration Config) (*Handlers, error) {
	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	serviceInstance, serviceErr := gauss.NewService(
		configuration.GoogleClientID,
		configuration.GoogleClientSecret,
		configuration.PublicBaseURL,
		configuration.LocalRedirectPath,
		gauss.ScopeStrings(gauss.DefaultScopes),
		"",
	)
	if serviceErr != nil {
		return nil, fmt.Errorf("%s: %w", createServiceError, serviceErr)
	}

	gaussHandlers, handlersErr := gauss.NewHandlers(serviceInstance)
	if handlersErr != nil {
		return nil, fmt.Errorf("%s: %w", createHandlersError, handlersErr)
	}

	serveMux := http.NewServeMux()
	gaussHandlers.RegisterRoutes(serveMux)

	return &Handlers{
		gaussHandlers: gaussHandlers,
		serveMux:      serveMux,
		logger:        logger,
	}, nil
}

// RegisterRoutes wires the OAuth endpoints onto the gin router.
func (handlers *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET(constants.LoginPath, gin.WrapH(handlers.serveMux))
	router.GET(constants.GoogleAuthPath, gin.WrapF(handlers.gaussHandlers.Login))
	router.GET(constants.CallbackPath, gin.WrapF(handlers.gaussHandlers.Callback))
	router.GET(constants.LogoutPath, gin.WrapF(handlers.gaussHandlers.Logout))
}
