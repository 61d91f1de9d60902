// Package middleware provides HTTP middleware for the site.
//
// Go Pattern: Middleware in Go is a function that wraps an HTTP handler.
// In Gin, middleware is a gin.HandlerFunc that calls c.Next() to continue
// the chain, or c.Abort() to stop processing. This is similar to Express.js
// middleware, but with explicit control flow.
package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/wows-catalog/internal/logger"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/session"
)

// contextKey is a custom type for context keys to avoid collisions.
// Go Pattern: Use unexported types for context keys so other packages
// can't accidentally overwrite your values.
type contextKey string

const adminContextKey contextKey = "admin"

// LoginPath is where the guard sends anonymous visitors.
const LoginPath = "/admin/login"

// SessionResolver turns a request into an admin identity.
// *session.Manager implements it.
type SessionResolver interface {
	Resolve(c *gin.Context) (*models.AdminIdentity, error)
}

// RequireAdmin returns middleware that only lets authenticated admins through.
//
// How it works:
// 1. Resolve the session cookie (signature first, then the session store)
// 2. If there is no live session, redirect to the login page with the
//    requested path in ?next= and stop the chain
// 3. Otherwise put the identity on the Gin context and continue
//
// The check runs on every request; nothing is cached between requests.
func RequireAdmin(sessions SessionResolver, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, err := sessions.Resolve(c)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Error(c.Request.Context(), "session lookup failed", err)
			}
			c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(returnTarget(c.Request)))
			c.Abort() // Stop the middleware chain, don't call the handler
			return
		}

		// Go Pattern: Gin uses its own context (different from context.Context).
		// c.Set() stores values that handlers can retrieve with c.Get().
		c.Set(string(adminContextKey), admin)
		c.Request = c.Request.WithContext(log.WithAdmin(c.Request.Context(), admin.Username))

		c.Next()
	}
}

// returnTarget is the path to come back to after logging in. Only GET
// requests can be replayed by a redirect, so form posts return to /admin.
func returnTarget(r *http.Request) string {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return "/admin"
	}
	return r.URL.RequestURI()
}

// GetAdmin retrieves the authenticated admin from the request context.
// Call this in your handlers after RequireAdmin has run.
func GetAdmin(c *gin.Context) *models.AdminIdentity {
	val, exists := c.Get(string(adminContextKey))
	if !exists {
		return nil
	}
	// Go Pattern: Type assertion, converting interface{} to a concrete type.
	// The comma-ok idiom (val, ok := ...) is safe: it won't panic if wrong type.
	admin, ok := val.(*models.AdminIdentity)
	if !ok {
		return nil
	}
	return admin
}

// SafeNext returns next if it is a local absolute path, otherwise /admin.
// Scheme-relative (//host) and backslash (/\host) forms are rejected since
// browsers treat both as another origin.
func SafeNext(next string) string {
	if next == "" || next[0] != '/' {
		return "/admin"
	}
	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return "/admin"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/admin"
	}
	return next
}
