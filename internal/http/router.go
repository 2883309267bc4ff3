package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so the session context survives CSRF's
	// request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Next()
		})
	}

	if cfg.AuthService != nil {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter)
		authController.RegisterRoutes(router)
	}

	health := NewHealthController(cfg.Database, cfg.Repository, cfg.Version)
	booksController := NewBooksController(cfg.Repository, cfg.Generator, cfg.Cooldown, cfg.TaskClient)
	flashcards := NewFlashcardsController(cfg.Repository)
	importController := NewImportController(cfg.Repository, cfg.TaskClient)

	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.CreateBook)
	router.GET("/api/books/search", booksController.SearchBooks)
	router.GET("/api/books/:id", booksController.GetBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)
	router.POST("/api/books/:id/summary", booksController.RegenerateSummary)

	router.GET("/api/flashcards", flashcards.Deck)

	router.POST("/api/import", importController.Import)

	return router
}
