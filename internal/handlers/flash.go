// flash.go carries one-shot notices across a redirect in a short-lived cookie.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "wows_flash"

// Flash kinds, used as CSS classes by the templates.
const (
	flashSuccess = "success"
	flashError   = "error"
)

// Flash is a notice shown once on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func (h *Handler) setFlash(c *gin.Context, kind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	// Gin query-escapes the value, so the separator survives.
	c.SetCookie(flashCookie, kind+"|"+message, 60, "/", "", h.secureCookies, true)
}

// popFlash returns the pending notice, if any, and clears it.
func (h *Handler) popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", h.secureCookies, true)

	kind, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	if kind != flashSuccess {
		kind = flashError
	}
	return &Flash{Kind: kind, Message: message}
}
