package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller exposes the JSON auth endpoints: one-time setup, login and
// logout.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
}

// NewController creates the auth controller.
func NewController(service *Service, sessionManager *SessionManager, rateLimiter *RateLimiter) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
	}
}

// RegisterRoutes mounts the auth endpoints on the router.
func (ctrl *Controller) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/auth/setup", ctrl.Setup)
	router.POST("/api/auth/login", ctrl.rateLimiter.Middleware(), ctrl.Login)
	router.POST("/api/auth/logout", ctrl.Logout)
	router.GET("/api/auth/me", ctrl.Me)
}

type credentialsRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Setup creates the first account. Once any user exists the endpoint is
// closed for good.
func (ctrl *Controller) Setup(c *gin.Context) {
	hasUsers, err := ctrl.service.HasUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "setup unavailable"})
		return
	}
	if hasUsers {
		c.JSON(http.StatusForbidden, gin.H{"error": "setup already completed"})
		return
	}

	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := ctrl.service.CreateUser(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctrl.sessionManager.CreateSession(c.Request, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	log.Printf("Created administrator account %s", user.Email)
	c.JSON(http.StatusCreated, gin.H{"email": user.Email})
}

// Login verifies credentials and starts a session.
func (ctrl *Controller) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ip := c.ClientIP()
	user, err := ctrl.service.Authenticate(req.Email, req.Password)
	if err != nil {
		locked, retryAfter := ctrl.rateLimiter.RecordFailure(ip, req.Email)
		if locked {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	ctrl.rateLimiter.RecordSuccess(ip, req.Email)

	if err := ctrl.sessionManager.CreateSession(c.Request, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": user.Email})
}

// Logout destroys the current session.
func (ctrl *Controller) Logout(c *gin.Context) {
	if err := ctrl.sessionManager.DestroySession(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the logged-in account, if any.
func (ctrl *Controller) Me(c *gin.Context) {
	userID := ctrl.sessionManager.UserIDFromSession(c.Request)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	user, err := ctrl.service.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": user.Email, "created_at": user.CreatedAt})
}
