package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ServerConfig holds configuration for the web server
type ServerConfig struct {
	Port int
	DB   *DB
}

// NewRouter builds the API router over the study catalog.
func NewRouter(db *DB) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h := &APIHandler{DB: db}
	r.Route("/api", func(r chi.Router) {
		r.Route("/programs", func(r chi.Router) {
			r.Get("/", h.ProgramNames)
			r.Get("/count", h.CountPrograms)
			r.Get("/categories", h.ProgramCategories)
			r.Get("/fields", h.ProgramFields)
			r.Get("/{title}", h.ProgramFieldValues)
			r.Get("/{title}/courses", h.ProgramCourses)
		})
		r.Route("/courses", func(r chi.Router) {
			r.Get("/", h.CourseTitles)
			r.Get("/count", h.CountCourses)
			r.Get("/ids", h.CourseIDsByTitle)
			r.Get("/fields", h.CourseFields)
			r.Get("/{id}", h.CourseFieldValues)
		})
		r.Get("/locations/{id}", h.LocationName)
	})

	return r
}

// StartServer initializes and starts the HTTP server
func StartServer(config ServerConfig) error {
	addr := fmt.Sprintf(":%d", config.Port)
	log.Printf("Starting server on http://localhost%s", addr)
	return http.ListenAndServe(addr, NewRouter(config.DB))
}
