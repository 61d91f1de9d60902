// export.go lets a single wow be downloaded as a file.
//
// Supported formats:
//   - json: the stored document, indented
//   - md:   Markdown with a metadata table and the line as a quote
//   - txt:  the line with a one-line caption
//
// Go Pattern: Each export format is its own function. Adding a format is a
// new case in the switch and a new formatter function.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/wows-catalog/internal/database"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/transcode"
)

var exportFormats = map[string]bool{"json": true, "md": true, "txt": true}

// ExportWow downloads one wow in the requested format.
// GET /api/wows/:id/export?format=json|md|txt
//
// Response headers are set for file download:
//   - Content-Type: appropriate MIME type
//   - Content-Disposition: attachment with filename
func (h *Handler) ExportWow(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	// Validate format before doing any database work
	if !exportFormats[format] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_format",
			Message: "Supported formats: json, md, txt",
			Code:    http.StatusBadRequest,
		})
		return
	}

	id, ok := parseID(c)
	if !ok {
		apiNotFound(c)
		return
	}
	w, err := h.DB.GetWow(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		apiNotFound(c)
		return
	}
	if err != nil {
		h.Log.Error(c.Request.Context(), "failed to get wow for export", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to load wow",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	filename := exportFilename(w)
	switch format {
	case "json":
		exportJSON(c, w, filename)
	case "md":
		exportMarkdown(c, w, filename)
	case "txt":
		exportTXT(c, w, filename)
	}
}

// exportJSON returns the stored document. A record whose raw document is
// missing falls back to the flattened record.
func exportJSON(c *gin.Context, w *models.WowRecord, filename string) {
	var body string
	if len(w.RawJSON) > 0 {
		body = transcode.PrettyPrint(w.RawJSON)
	} else {
		body = transcode.PrettyPrint(w)
	}
	attach(c, filename+".json", "application/json; charset=utf-8", body+"\n")
}

// exportMarkdown returns the wow as Markdown with a metadata table.
func exportMarkdown(c *gin.Context, w *models.WowRecord, filename string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s (%s)\n\n", w.Movie, yearText(w.Year))
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	fmt.Fprintf(&sb, "| Director | %s |\n", mdCell(w.Director))
	fmt.Fprintf(&sb, "| Character | %s |\n", mdCell(w.RoleName))
	fmt.Fprintf(&sb, "| ID | %d |\n", w.ID)
	sb.WriteString("\n")
	for _, line := range strings.Split(w.FullLine, "\n") {
		sb.WriteString("> " + line + "\n")
	}

	if video, ok := transcode.DecodeVideo(w.VideoJSON); ok {
		sb.WriteString("\n## Video\n\n")
		for _, q := range []struct{ label, url string }{
			{"1080p", video.P1080}, {"720p", video.P720}, {"480p", video.P480}, {"360p", video.P360},
		} {
			if q.url != "" {
				fmt.Fprintf(&sb, "- [%s](%s)\n", q.label, q.url)
			}
		}
	}

	attach(c, filename+".md", "text/markdown; charset=utf-8", sb.String())
}

// exportTXT returns the line with a caption.
func exportTXT(c *gin.Context, w *models.WowRecord, filename string) {
	caption := fmt.Sprintf("%s (%s)", w.Movie, yearText(w.Year))
	if w.RoleName != "" {
		caption += ", " + w.RoleName
	}
	attach(c, filename+".txt", "text/plain; charset=utf-8", w.FullLine+"\n\n"+caption+"\n")
}

func attach(c *gin.Context, filename, contentType, body string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, []byte(body))
}

// --- Helper Functions ---

// exportFilename is "<movie>-<id>", or "wow-<id>" when the movie is blank.
func exportFilename(w *models.WowRecord) string {
	name := sanitizeFilename(w.Movie)
	if name == "" {
		name = "wow"
	}
	return fmt.Sprintf("%s-%d", name, w.ID)
}

// mdCell keeps a value from breaking the Markdown table.
func mdCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

// sanitizeFilename removes characters that aren't safe for filenames.
// Go Pattern: Keep it simple. Unsafe characters become hyphens and the
// result is trimmed; this only feeds the Content-Disposition header.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", " ", "\r", "",
	)
	name = replacer.Replace(name)

	// Drop the remaining control characters (NUL, tab, DEL, ...)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	// Collapse multiple hyphens/spaces
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	name = strings.TrimSpace(name)

	// Limit length (bytes, then back off to a rune boundary)
	if len(name) > 100 {
		name = name[:100]
		for len(name) > 0 && !utf8.ValidString(name) {
			name = name[:len(name)-1]
		}
	}

	return name
}
