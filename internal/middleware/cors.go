// cors.go configures Cross-Origin Resource Sharing (CORS).
//
// Only the read-only JSON API is meant for other origins (a separate
// frontend, scripts in a notebook). The HTML site and the admin area are
// same-origin and do not get these headers.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns configured CORS middleware for the /api group.
// An empty allowedOrigins list allows any origin; the API is public and
// takes no credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Accept", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader, "Content-Length"},
		MaxAge:        12 * time.Hour, // Cache preflight responses
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
