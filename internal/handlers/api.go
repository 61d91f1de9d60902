// api.go handles the read-only JSON API.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/wows-catalog/internal/database"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/params"
)

// ListWows returns one page of wows.
// GET /api/wows?page=1&per_page=20&q=&movie=&year=
//
// The movie filter is an exact, case-sensitive match here.
func (h *Handler) ListWows(c *gin.Context) {
	f, err := params.FromQuery(c.Request.URL.Query(), params.Defaults{
		PerPage:    params.DefaultPerPage,
		MovieMatch: models.MovieExact,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_params",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	page, err := h.DB.ListWows(c.Request.Context(), f)
	if err != nil {
		h.Log.Error(c.Request.Context(), "failed to list wows", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list wows",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Page:    f.Page,
		PerPage: f.PerPage,
		Total:   page.Total,
		Items:   page.Items,
	})
}

// GetWow returns a single wow with its video and raw JSON.
// GET /api/wows/:id
func (h *Handler) GetWow(c *gin.Context) {
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
		h.Log.Error(c.Request.Context(), "failed to get wow", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to load wow",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, w)
}

func apiNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: "Wow not found",
		Code:    http.StatusNotFound,
	})
}

// parseID reads the :id path parameter. Anything but a positive integer is
// reported as not ok, which callers turn into a 404.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
