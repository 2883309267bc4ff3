package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/config"
)

// Context keys for user data
const (
	ContextKeyUserID = "auth_user_id"
	ContextKeyEmail  = "auth_email"
)

// DefaultUserID is used when authentication is disabled.
const DefaultUserID = uint(0)

// Middleware authenticates HTTP requests via the session.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
	publicPaths    map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager, cfg config.Auth) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
		publicPaths: map[string]bool{
			"/health":         true,
			"/ping":           true,
			"/api/auth/login": true,
			"/api/auth/setup": true,
		},
	}
}

// Handler returns a Gin middleware that authenticates requests.
func (m *Middleware) Handler() gin.HandlerFunc {
	if m.config.Mode == config.AuthModeNone {
		return func(c *gin.Context) {
			c.Set(ContextKeyUserID, DefaultUserID)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if m.isPublicPath(c.Request.URL.Path) {
			c.Set(ContextKeyUserID, DefaultUserID)
			c.Next()
			return
		}

		userID := m.sessionManager.UserIDFromSession(c.Request)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		user, err := m.service.GetUserByID(userID)
		if err != nil {
			// Stale session for a deleted account.
			_ = m.sessionManager.DestroySession(c.Request)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyEmail, user.Email)
		c.Next()
	}
}

func (m *Middleware) isPublicPath(path string) bool {
	if m.publicPaths[path] {
		return true
	}
	return strings.HasPrefix(path, "/static/")
}

// GetUserID returns the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	if v, exists := c.Get(ContextKeyUserID); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return DefaultUserID
}
