package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/demo/audittables/models"
	"github.com/demo/audittables/services"
)

// RevisionController serves todo revision history
type RevisionController struct {
	services *services.Services
}

// NewRevisionController creates a new revision controller
func NewRevisionController(services *services.Services) *RevisionController {
	return &RevisionController{
		services: services,
	}
}

// List handles GET /todos/{id}/revisions. With page or size query
// parameters the response is one page of history; otherwise the complete
// history is returned, ascending by revision number either way.
func (c *RevisionController) List(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	query := r.URL.Query()
	var revisions []models.TodoRevision

	if query.Get("page") != "" || query.Get("size") != "" {
		page, err := queryInt(query.Get("page"), 0)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid page"})
			return
		}
		size, err := queryInt(query.Get("size"), 0)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid size"})
			return
		}
		revisions, err = c.services.Audit.RevisionsPaged(r.Context(), id, page, size)
		if err != nil {
			respondError(w, err)
			return
		}
	} else {
		revisions, err = c.services.Audit.Revisions(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
	}

	if revisions == nil {
		revisions = []models.TodoRevision{}
	}
	respondJSON(w, http.StatusOK, revisions)
}

// Latest handles GET /todos/{id}/revisions/latest
func (c *RevisionController) Latest(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rev, err := c.services.Audit.LastRevision(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rev)
}

// Get handles GET /todos/{id}/revisions/{revision}
func (c *RevisionController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	revision, err := urlID(r, "revision")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rev, err := c.services.Audit.Revision(r.Context(), id, revision)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rev)
}

// queryInt parses a non-negative integer query parameter, using def when
// the parameter is empty
func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid value %q", raw)
	}
	return v, nil
}
