package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/demo/audittables/models"
	"github.com/demo/audittables/services"
)

// TodoController handles todo CRUD requests
type TodoController struct {
	services *services.Services
}

// NewTodoController creates a new todo controller
func NewTodoController(services *services.Services) *TodoController {
	return &TodoController{
		services: services,
	}
}

// List handles GET /todos
func (c *TodoController) List(w http.ResponseWriter, r *http.Request) {
	todos, err := c.services.Todos.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	respondJSON(w, http.StatusOK, todos)
}

// Create handles POST /todos
func (c *TodoController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.TodoForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	todo, err := c.services.Todos.Create(r.Context(), &form)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, todo)
}

// Get handles GET /todos/{id}
func (c *TodoController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	todo, err := c.services.Todos.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// Update handles PUT /todos/{id}
func (c *TodoController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var form models.TodoForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	todo, err := c.services.Todos.Update(r.Context(), id, &form)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// Delete handles DELETE /todos/{id}
func (c *TodoController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := c.services.Todos.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetAllCompleted handles PUT /todos/completed
func (c *TodoController) SetAllCompleted(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	changed, err := c.services.Todos.SetAllCompleted(r.Context(), body.Completed)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"updated":   changed,
		"completed": body.Completed,
	})
}
