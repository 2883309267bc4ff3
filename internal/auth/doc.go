// Package auth provides optional local-user authentication for the web
// shell: bcrypt password storage, SQLite-backed sessions, CSRF protection
// and login rate limiting.
//
// The default server mode runs without authentication; everything here is
// only wired when AUTH_MODE=local. The CLI shell never goes through auth.
package auth
