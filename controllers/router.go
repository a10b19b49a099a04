package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	appmiddleware "github.com/demo/audittables/middleware"
)

// NewRouter configures all routes
func NewRouter(ctrl *Controllers, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(chimiddleware.Compress(5))
	r.Use(cors.AllowAll().Handler)
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(appmiddleware.ChangeSet)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "todo-audit"}`)
	})

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", ctrl.Todos.List)
		r.Post("/", ctrl.Todos.Create)
		r.Put("/completed", ctrl.Todos.SetAllCompleted)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", ctrl.Todos.Get)
			r.Put("/", ctrl.Todos.Update)
			r.Delete("/", ctrl.Todos.Delete)

			r.Route("/revisions", func(r chi.Router) {
				r.Get("/", ctrl.Revisions.List)
				r.Get("/latest", ctrl.Revisions.Latest)
				r.Get("/{revision}", ctrl.Revisions.Get)
			})
		})
	})

	return r
}
