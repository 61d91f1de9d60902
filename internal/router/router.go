// Package router sets up all HTTP routes for the site.
package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/wows-catalog/internal/handlers"
	"github.com/Shimizu-Technology/wows-catalog/internal/middleware"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// Options holds the route-level collaborators that are not handlers.
type Options struct {
	AllowedOrigins []string
	// TrustedProxies lists the proxies allowed to set X-Forwarded-For.
	// Nil trusts none, so ClientIP is the peer address.
	TrustedProxies []string
	// LoginLimiter throttles POST /admin/login per client IP.
	LoginLimiter *middleware.RateLimiter
	// MetricsHandler serves /metrics when set (promhttp).
	MetricsHandler http.Handler
}

// Setup creates and configures the Gin router with all routes.
func Setup(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		h.Log.Error(context.Background(), "invalid trusted proxies, trusting none", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(h.Log))
	r.Use(middleware.AccessLog(h.Log, h.Metrics))
	r.NoRoute(notFound(h))

	// --- JSON API (public, read-only) ---
	api := r.Group("/api")
	api.Use(middleware.CORS(opts.AllowedOrigins))
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/wows", h.ListWows)
		api.GET("/wows/:id", h.GetWow)
		api.GET("/wows/:id/export", h.ExportWow)
		api.GET("/docs", h.ServeSwaggerUI)
		api.GET("/docs/openapi.yaml", h.ServeOpenAPISpec)
	}

	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	// --- Public pages ---
	r.GET("/", h.ListPage)
	r.GET("/wows/:id", h.DetailPage)

	// --- Admin login (public) ---
	r.GET("/admin/login", h.LoginPage)
	if opts.LoginLimiter != nil {
		r.POST("/admin/login", opts.LoginLimiter.Throttle(h.LoginThrottled), h.Login)
	} else {
		r.POST("/admin/login", h.Login)
	}

	// --- Admin (session required) ---
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin(h.Sessions, h.Log))
	{
		admin.GET("", h.AdminList)
		admin.POST("/logout", h.Logout)
		admin.GET("/new", h.NewForm)
		admin.POST("/new", h.Create)
		admin.GET("/edit/:id", h.EditForm)
		admin.POST("/edit/:id", h.Update)
		admin.POST("/delete/:id", h.Delete)
	}

	return r
}

// notFound answers unknown routes in the format the caller expects.
func notFound(h *handlers.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "No such endpoint",
				Code:    http.StatusNotFound,
			})
			return
		}
		h.NotFound(c)
	}
}
