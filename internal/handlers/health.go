// Package handlers contains the HTTP handlers for the JSON API, the public
// site and the admin area.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, HTML, Redirect)
// - Middleware data (c.Get/c.Set)
//
// We group related handlers into a struct (Handler) that holds shared
// dependencies.
package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/wows-catalog/internal/logger"
	"github.com/Shimizu-Technology/wows-catalog/internal/metrics"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// Version is reported by the health check.
const Version = "1.0.0"

// Store is the persistence the handlers use. *database.DB implements it;
// tests use an in-memory fake.
type Store interface {
	ListWows(ctx context.Context, f models.FilterSpec) (*models.WowPage, error)
	ListAdminWows(ctx context.Context, f models.FilterSpec) (*models.WowPage, error)
	GetWow(ctx context.Context, id int64) (*models.WowRecord, error)
	DistinctMovies(ctx context.Context) ([]string, error)
	DistinctYears(ctx context.Context) ([]int, error)

	CreateDocument(ctx context.Context, payload []byte) (int64, error)
	GetDocument(ctx context.Context, id int64) (*models.DocumentRow, error)
	UpdateDocument(ctx context.Context, id int64, payload []byte) error
	DeleteDocument(ctx context.Context, id int64) error

	HealthCheck(ctx context.Context) error
}

// Authenticator checks admin credentials. *accounts.Service implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// Sessions starts, resolves and ends admin sessions. *session.Manager
// implements it.
type Sessions interface {
	Start(c *gin.Context, username string) (*models.AdminIdentity, error)
	Resolve(c *gin.Context) (*models.AdminIdentity, error)
	End(c *gin.Context) error
}

// Deps are the collaborators a Handler needs.
type Deps struct {
	DB       Store
	Accounts Authenticator
	Sessions Sessions
	Log      *logger.Logger
	Metrics  *metrics.Metrics
	// SecureCookies sets the Secure flag on the flash cookie.
	SecureCookies bool
}

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
// This makes testing easy: just create a Handler with fake dependencies.
type Handler struct {
	DB       Store
	Accounts Authenticator
	Sessions Sessions
	Log      *logger.Logger
	Metrics  *metrics.Metrics

	secureCookies bool
	pages         map[string]*template.Template
}

// NewHandler creates a new handler with all dependencies and parses the
// page templates once.
func NewHandler(d Deps) (*Handler, error) {
	if d.DB == nil || d.Accounts == nil || d.Sessions == nil {
		return nil, errors.New("handlers: store, accounts and sessions are required")
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Handler{
		DB:            d.DB,
		Accounts:      d.Accounts,
		Sessions:      d.Sessions,
		Log:           d.Log,
		Metrics:       d.Metrics,
		secureCookies: d.SecureCookies,
		pages:         pages,
	}, nil
}

// HealthCheck returns the service health status.
// GET /api/health
func (h *Handler) HealthCheck(c *gin.Context) {
	// Check database connectivity
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:   "ok",
		Version:  Version,
		Database: dbStatus,
	})
}
