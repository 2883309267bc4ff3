package http

import (
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/summarizer"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Repository *books.Repository
	Database   *database.Database

	// Summary generation (optional; nil means summaries stay absent)
	Generator summarizer.Generator
	Cooldown  *summarizer.Cooldown

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Authentication (all optional; nil disables the corresponding layer)
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	RateLimiter    *auth.RateLimiter
	CSRFSecret     []byte
	SecureCookies  bool

	// Application info
	Version string
}
