// web.go renders the public listing and detail pages.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/wows-catalog/internal/database"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/params"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/transcode"
)

// ListPage renders the searchable listing with movie/year facets.
// GET /?page=1&per_page=12&q=&movie=&year=
//
// The movie filter ignores case here. A year that is not a 32-bit number is
// dropped rather than rejected.
func (h *Handler) ListPage(c *gin.Context) {
	ctx := c.Request.Context()
	q := c.Request.URL.Query()

	f, err := params.FromQuery(q, params.Defaults{
		PerPage:    params.WebPerPage,
		MovieMatch: models.MovieFold,
	})
	if errors.Is(err, params.ErrInvalidYear) {
		h.Log.Debug(ctx, "ignoring invalid year filter")
		q.Del("year")
	}

	page, err := h.DB.ListWows(ctx, f)
	if err != nil {
		h.Log.Error(ctx, "failed to list wows", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't load the list of wows.")
		return
	}

	movies, err := h.DB.DistinctMovies(ctx)
	if err != nil {
		h.Log.Error(ctx, "failed to list movies", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't load the list of wows.")
		return
	}
	years, err := h.DB.DistinctYears(ctx)
	if err != nil {
		h.Log.Error(ctx, "failed to list years", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't load the list of wows.")
		return
	}

	q.Del("page")
	h.render(c, http.StatusOK, pageList, gin.H{
		"Title":    "Wows",
		"Items":    page.Items,
		"Total":    page.Total,
		"Page":     f.Page,
		"PerPage":  f.PerPage,
		"Pages":    database.PageCount(page.Total, f.PerPage),
		"Query":    f.Query,
		"Movie":    f.Movie,
		"YearText": selectedYear(f.Year),
		"Movies":   movies,
		"Years":    years,
		"Params":   q,
	})
}

// DetailPage renders one wow with its player and raw document.
// GET /wows/:id
//
// A video or raw document that fails to decode shows up as a placeholder;
// it never fails the page.
func (h *Handler) DetailPage(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		h.renderError(c, http.StatusNotFound, "That wow doesn't exist.")
		return
	}

	w, err := h.DB.GetWow(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		h.renderError(c, http.StatusNotFound, "That wow doesn't exist.")
		return
	}
	if err != nil {
		h.Log.Error(ctx, "failed to get wow", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't load this wow.")
		return
	}

	// ok=false leaves video nil and the template shows a placeholder.
	video, _ := transcode.DecodeVideo(w.VideoJSON)

	h.render(c, http.StatusOK, pageDetail, gin.H{
		"Title":       w.Movie,
		"Wow":         w,
		"Video":       video,
		"VideoPretty": transcode.PrettyPrint(w.VideoJSON),
		"RawPretty":   transcode.PrettyPrint(w.RawJSON),
	})
}

// NotFound renders the 404 page for unknown HTML routes.
func (h *Handler) NotFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "Page not found.")
}

// selectedYear is the year filter as the dropdown compares it.
func selectedYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}
