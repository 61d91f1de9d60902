// admin.go handles the guarded admin CRUD pages.
//
// Every route here sits behind middleware.RequireAdmin, so the handlers can
// assume an authenticated admin on the context.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Shimizu-Technology/wows-catalog/internal/database"
	"github.com/Shimizu-Technology/wows-catalog/internal/metrics"
	"github.com/Shimizu-Technology/wows-catalog/internal/models"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/params"
	"github.com/Shimizu-Technology/wows-catalog/internal/services/transcode"
)

const adminHome = "/admin"

// AdminList renders the admin table with free-text search.
// GET /admin?q=&page=1&per_page=20
func (h *Handler) AdminList(c *gin.Context) {
	ctx := c.Request.Context()
	q := c.Request.URL.Query()

	// Only q and pagination matter here; a bad year is irrelevant.
	f, _ := params.FromQuery(q, params.Defaults{PerPage: params.DefaultPerPage})

	page, err := h.DB.ListAdminWows(ctx, f)
	if err != nil {
		h.Log.Error(ctx, "failed to list admin wows", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't load the list of wows.")
		return
	}

	q.Del("page")
	h.render(c, http.StatusOK, pageAdminList, gin.H{
		"Title":   "Admin",
		"Items":   page.Items,
		"Total":   page.Total,
		"Page":    f.Page,
		"PerPage": f.PerPage,
		"Pages":   database.PageCount(page.Total, f.PerPage),
		"Query":   f.Query,
		"Params":  q,
	})
}

// NewForm shows an empty document form.
// GET /admin/new
func (h *Handler) NewForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, formView{
		Title:  "New wow",
		Action: "/admin/new",
		Form:   transcode.ToForm(transcode.Template()),
	})
}

// Create validates the form and inserts a new document.
// POST /admin/new
//
// Validation failures re-render the form with the submitted values and a
// 200 status; they are not HTTP errors.
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	view := formView{Title: "New wow", Action: "/admin/new"}

	doc, ok := h.bindDocument(c, &view)
	if !ok {
		return
	}

	payload, err := transcode.Encode(doc)
	if err != nil {
		h.Log.Error(ctx, "failed to encode document", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't save this wow.")
		return
	}
	id, err := h.DB.CreateDocument(ctx, payload)
	if err != nil {
		h.Log.Error(ctx, "failed to create document", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't save this wow.")
		return
	}

	h.Metrics.IncWrite(metrics.OpCreate)
	h.Log.Event(ctx, zerolog.InfoLevel).Int64("id", id).Msg("wow created")
	h.setFlash(c, flashSuccess, fmt.Sprintf("Wow #%d created.", id))
	c.Redirect(http.StatusFound, adminHome)
}

// EditForm loads a stored document into the form.
// GET /admin/edit/:id
//
// A document that no longer decodes is shown as a defaults form with a
// warning, so it can still be repaired from the UI.
func (h *Handler) EditForm(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		h.renderError(c, http.StatusNotFound, "That wow doesn't exist.")
		return
	}

	row, err := h.DB.GetDocument(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		h.renderError(c, http.StatusNotFound, "That wow doesn't exist.")
		return
	}
	if err != nil {
		h.Log.Error(ctx, "failed to get document", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't load this wow.")
		return
	}

	view := formView{Title: fmt.Sprintf("Edit wow #%d", id), Action: editPath(id), ID: id}
	doc, err := transcode.Decode(row.Data)
	if err != nil {
		h.Log.Warn(ctx, fmt.Sprintf("stored document %d does not decode: %v", id, err))
		doc = transcode.Defaults()
		view.Warning = "The stored document could not be read; the form shows defaults. Saving will replace it."
	}
	view.Form = transcode.ToForm(doc)
	h.renderForm(c, http.StatusOK, view)
}

// Update validates the form and replaces the stored document.
// POST /admin/edit/:id
func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		h.renderError(c, http.StatusNotFound, "That wow doesn't exist.")
		return
	}
	view := formView{Title: fmt.Sprintf("Edit wow #%d", id), Action: editPath(id), ID: id}

	doc, ok := h.bindDocument(c, &view)
	if !ok {
		return
	}

	payload, err := transcode.Encode(doc)
	if err != nil {
		h.Log.Error(ctx, "failed to encode document", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't save this wow.")
		return
	}
	err = h.DB.UpdateDocument(ctx, id, payload)
	if errors.Is(err, database.ErrNotFound) {
		h.renderError(c, http.StatusNotFound, "That wow doesn't exist.")
		return
	}
	if err != nil {
		h.Log.Error(ctx, "failed to update document", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't save this wow.")
		return
	}

	h.Metrics.IncWrite(metrics.OpUpdate)
	h.Log.Event(ctx, zerolog.InfoLevel).Int64("id", id).Msg("wow updated")
	h.setFlash(c, flashSuccess, fmt.Sprintf("Wow #%d updated.", id))
	c.Redirect(http.StatusFound, adminHome)
}

// Delete removes a document. It does not check that the id existed, so
// repeating it gives the same redirect.
// POST /admin/delete/:id
func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		h.renderError(c, http.StatusNotFound, "That wow doesn't exist.")
		return
	}

	if err := h.DB.DeleteDocument(ctx, id); err != nil {
		h.Log.Error(ctx, "failed to delete document", err)
		h.renderError(c, http.StatusInternalServerError, "We couldn't delete this wow.")
		return
	}

	h.Metrics.IncWrite(metrics.OpDelete)
	h.Log.Event(ctx, zerolog.InfoLevel).Int64("id", id).Msg("wow deleted")
	h.setFlash(c, flashSuccess, fmt.Sprintf("Wow #%d deleted.", id))
	c.Redirect(http.StatusFound, adminHome)
}

// formView is what the admin form template needs.
type formView struct {
	Title   string
	Action  string
	ID      int64
	Form    models.FlatForm
	Error   string
	Warning string
}

func (h *Handler) renderForm(c *gin.Context, status int, v formView) {
	h.render(c, status, pageAdminForm, gin.H{
		"Title":   v.Title,
		"View":    v,
		"Form":    v.Form,
		"Error":   v.Error,
		"Warning": v.Warning,
	})
}

// bindDocument reads the posted form into a validated document. On failure
// it has already re-rendered the form (with the submitted values) and
// returns ok=false.
func (h *Handler) bindDocument(c *gin.Context, view *formView) (models.DataDocument, bool) {
	var form models.FlatForm
	if err := c.ShouldBind(&form); err != nil {
		view.Form = form
		view.Error = "The form could not be read."
		h.renderForm(c, http.StatusOK, *view)
		return models.DataDocument{}, false
	}

	doc := transcode.FromForm(form)
	if err := transcode.Validate(doc); err != nil {
		view.Form = form
		view.Error = err.Error()
		h.renderForm(c, http.StatusOK, *view)
		return models.DataDocument{}, false
	}
	return doc, true
}

func editPath(id int64) string {
	return fmt.Sprintf("/admin/edit/%d", id)
}
