package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/temirov/GAuss/pkg/constants"
	"github.com/temirov/GAuss/pkg/session"
	"go.uber.org/zap"
)

const (
	contextKeyCurrentUser = "httpapi_current_user"
	authErrorUnauthorized = "unauthorized"
	authErrorForbidden    = "forbidden"
	logEventLoadSession   = "load_session"
)

// CurrentUser is the authenticated staff member resolved from the session.
type CurrentUser struct {
	Email      string
	Name       string
	PictureURL string
	IsAdmin    bool
}

// NormalizedEmail returns the lowercase, trimmed session email; it doubles
// as the dashboard owner identity.
func (currentUser *CurrentUser) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(currentUser.Email))
}

// AuthManager resolves the current user from the GAuss-managed cookie
// session and enforces authentication on API routes.
type AuthManager struct {
	logger       *zap.Logger
	sessionStore *sessions.CookieStore
	adminEmails  map[string]struct{}
}

// NewAuthManager builds an auth manager with an admin email allow-list.
func NewAuthManager(logger *zap.Logger, adminEmails []string) *AuthManager {
	adminEmailSet := make(map[string]struct{}, len(adminEmails))
	for _, adminEmail := range adminEmails {
		trimmedEmail := strings.ToLower(strings.TrimSpace(adminEmail))
		if trimmedEmail == "" {
			continue
		}
		adminEmailSet[trimmedEmail] = struct{}{}
	}

	return &AuthManager{
		logger:       logger,
		sessionStore: session.Store(),
		adminEmails:  adminEmailSet,
	}
}

// RequireAuthenticatedJSON aborts unauthenticated API requests with 401.
func (authManager *AuthManager) RequireAuthenticatedJSON() gin.HandlerFunc {
	return func(requestContext *gin.Context) {
		if _, authenticated := authManager.ensureUser(requestContext); !authenticated {
			requestContext.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
			return
		}
		requestContext.Next()
	}
}

// RequireAdminJSON additionally rejects non-admin users with 403.
func (authManager *AuthManager) RequireAdminJSON() gin.HandlerFunc {
	return func(requestContext *gin.Context) {
		currentUser, authenticated := authManager.ensureUser(requestContext)
		if !authenticated {
			requestContext.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{jsonKeyError: authErrorUnauthorized})
			return
		}
		if !currentUser.IsAdmin {
			requestContext.AbortWithStatusJSON(http.StatusForbidden, gin.H{jsonKeyError: authErrorForbidden})
			return
		}
		requestContext.Next()
	}
}

// CurrentUserFromContext returns the user previously resolved for this request.
func CurrentUserFromContext(requestContext *gin.Context) (*CurrentUser, bool) {
	storedValue, valueExists := requestContext.Get(contextKeyCurrentUser)
	if !valueExists {
		return nil, false
	}
	currentUser, userOK := storedValue.(*CurrentUser)
	return currentUser, userOK
}

func (authManager *AuthManager) ensureUser(requestContext *gin.Context) (*CurrentUser, bool) {
	if currentUser, userExists := CurrentUserFromContext(requestContext); userExists {
		return currentUser, true
	}

	sessionInstance, sessionErr := authManager.sessionStore.Get(requestContext.Request, constants.SessionName)
	if sessionErr != nil {
		authManager.logger.Warn(logEventLoadSession, zap.Error(sessionErr))
		return nil, false
	}

	sessionEmail := sessionStringValue(sessionInstance.Values[constants.SessionKeyUserEmail])
	if sessionEmail == "" {
		return nil, false
	}

	lowercaseEmail := strings.ToLower(sessionEmail)
	_, isAdmin := authManager.adminEmails[lowercaseEmail]

	currentUser := &CurrentUser{
		Email:      sessionEmail,
		Name:       sessionStringValue(sessionInstance.Values[constants.SessionKeyUserName]),
		PictureURL: sessionStringValue(sessionInstance.Values[constants.SessionKeyUserPicture]),
		IsAdmin:    isAdmin,
	}

	requestContext.Set(contextKeyCurrentUser, currentUser)
	return currentUser, true
}

func sessionStringValue(rawValue interface{}) string {
	stringValue, valueOK := rawValue.(string)
	if !valueOK {
		return ""
	}
	return strings.TrimSpace(stringValue)
}
