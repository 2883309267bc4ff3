package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header browsers send the token back in.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFMiddleware creates a Gin middleware for CSRF protection. Safe methods
// (GET, HEAD, OPTIONS, TRACE) pass through; mutating requests must carry a
// valid token.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Expose the token so handlers can echo it to clients.
			c.Set("csrf_token", csrf.Token(r))
			// Session middleware runs after this and layers its context on top.
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
	}
}

func csrfErrorHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

// CSRFToken returns the token stored by CSRFMiddleware for the current
// request, if any.
func CSRFToken(c *gin.Context) string {
	if v, exists := c.Get("csrf_token"); exists {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}
