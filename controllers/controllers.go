package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/demo/audittables/repositories"
	"github.com/demo/audittables/services"
)

// Controllers holds all controller instances
type Controllers struct {
	Todos     *TodoController
	Revisions *RevisionController
}

// NewControllers creates and initializes all controller instances
func NewControllers(srvs *services.Services) *Controllers {
	return &Controllers{
		Todos:     NewTodoController(srvs),
		Revisions: NewRevisionController(srvs),
	}
}

// respondJSON writes data as a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError maps service errors to HTTP statuses: NotFound to 404,
// validation to 400, everything else (including revision conflicts) to 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// urlID parses a positive integer URL parameter
func urlID(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}
