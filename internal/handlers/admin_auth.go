// admin_auth.go handles admin login and logout.
package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Shimizu-Technology/wows-catalog/internal/metrics"
	"github.com/Shimizu-Technology/wows-catalog/internal/middleware"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/accounts"
)

// invalidCredentials is the only thing a failed login ever says.
const invalidCredentials = "Invalid credentials."

// LoginPage shows the login form.
// GET /admin/login?next=/admin/edit/3
func (h *Handler) LoginPage(c *gin.Context) {
	next := middleware.SafeNext(c.Query("next"))

	// Already signed in: skip the form.
	if admin, err := h.Sessions.Resolve(c); err == nil && admin != nil {
		c.Redirect(http.StatusFound, next)
		return
	}

	h.render(c, http.StatusOK, pageAdminLogin, gin.H{
		"Title": "Admin login",
		"Next":  next,
	})
}

// Login checks the submitted credentials and starts a session.
// POST /admin/login (form: username, password, next)
//
// An unknown username and a wrong password get exactly the same response.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	// Go Pattern: ShouldBind picks the binding from the Content-Type. A bind
	// failure leaves empty fields, which simply fail authentication below.
	var req models.LoginRequest
	_ = c.ShouldBind(&req)
	next := middleware.SafeNext(req.Next)

	user, err := h.Accounts.Authenticate(ctx, req.Username, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		h.Metrics.IncLogin(metrics.LoginFailure)
		h.Log.Event(ctx, zerolog.WarnLevel).Str("client_ip", c.ClientIP()).Msg("admin login failed")
		h.setFlash(c, flashError, invalidCredentials)
		c.Redirect(http.StatusFound, middleware.LoginPath+"?next="+url.QueryEscape(next))
		return
	}
	if err != nil {
		h.Log.Error(ctx, "admin login lookup failed", err)
		h.renderError(c, http.StatusInternalServerError, "Login is unavailable right now.")
		return
	}

	admin, err := h.Sessions.Start(c, user.Username)
	if err != nil {
		h.Log.Error(ctx, "failed to start admin session", err)
		h.renderError(c, http.StatusInternalServerError, "Login is unavailable right now.")
		return
	}

	h.Metrics.IncLogin(metrics.LoginSuccess)
	h.Log.Info(h.Log.WithAdmin(ctx, admin.Username), "admin logged in")
	c.Redirect(http.StatusFound, next)
}

// LoginThrottled answers a login POST once the caller's attempts are used up.
// It is the reject callback of the login rate limiter.
func (h *Handler) LoginThrottled(c *gin.Context) {
	h.Metrics.IncLogin(metrics.LoginThrottled)
	h.Log.Warn(c.Request.Context(), "admin login throttled for "+c.ClientIP())
	h.render(c, http.StatusTooManyRequests, pageAdminLogin, gin.H{
		"Title": "Admin login",
		"Next":  middleware.SafeNext(c.PostForm("next")),
		"Error": "Too many login attempts. Try again later.",
	})
}

// Logout ends the session.
// POST /admin/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.End(c); err != nil {
		h.Log.Error(c.Request.Context(), "failed to end admin session", err)
	}
	h.setFlash(c, flashSuccess, "Signed out.")
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
