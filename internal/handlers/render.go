// render.go parses the embedded page templates and renders them.
package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/wows-catalog/internal/middleware"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/transcode"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names. Each is parsed together with base.html.
const (
	pageList       = "list"
	pageDetail     = "detail"
	pageAdminLogin = "admin_login"
	pageAdminList  = "admin_list"
	pageAdminForm  = "admin_form"
	pageError      = "error"
)

var pageNames = []string{pageList, pageDetail, pageAdminLogin, pageAdminList, pageAdminForm, pageError}

var funcMap = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
	"subtract": func(a, b int) int {
		return a - b
	},
	"mediaURL": mediaURL,
	"videoURL": videoURL,
	"yearText": yearText,
	"pageURL":  pageURL,
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS,
			"templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// render executes a page into a buffer first so a template error can still
// turn into a clean 500 instead of a half-written page.
func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	tmpl, ok := h.pages[page]
	if !ok {
		h.Log.Error(c.Request.Context(), "unknown page template "+page, nil)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Flash"] = h.popFlash(c)
	data["Admin"] = middleware.GetAdmin(c)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.Log.Error(c.Request.Context(), "failed to execute template "+page, err)
		if page != pageError {
			h.renderError(c, http.StatusInternalServerError, "Something went wrong while displaying the page.")
			return
		}
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// renderError renders the error page with a status and a human message.
func (h *Handler) renderError(c *gin.Context, status int, message string) {
	h.render(c, status, pageError, gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}

// mediaURL lets image data URIs and http(s) links through html/template's
// URL filter. Anything else renders as an empty string.
func mediaURL(s string) template.URL {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "data:image/") && transcode.ValidateDataURI(s):
		return template.URL(s)
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"):
		return template.URL(s)
	}
	return ""
}

// videoURL only lets http(s) links through. Video sources and links never
// take a data URI.
func videoURL(s string) template.URL {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
		return template.URL(s)
	}
	return ""
}

func yearText(y *int) string {
	if y == nil {
		return "n/a"
	}
	return strconv.Itoa(*y)
}

// pageURL rebuilds the current listing URL for another page number.
func pageURL(path string, q url.Values, page int) string {
	v := url.Values{}
	for k, vals := range q {
		v[k] = append([]string(nil), vals...)
	}
	v.Set("page", strconv.Itoa(page))
	return path + "?" + v.Encode()
}
