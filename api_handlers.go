package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// APIHandler handles JSON API requests against the study catalog
type APIHandler struct {
	DB *DB
}

// Envelope is the uniform response wrapper. Result carries the payload on
// success; ErrorMessage is set instead when Status is "error".
type Envelope struct {
	Status       string `json:"status"`
	Result       any    `json:"result,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// CountPrograms handles GET /api/programs/count
func (h *APIHandler) CountPrograms(w http.ResponseWriter, r *http.Request) {
	count, err := h.DB.CountPrograms()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondResult(w, count)
}

// ProgramCategories handles GET /api/programs/categories
func (h *APIHandler) ProgramCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.DB.ProgramCategories()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondResult(w, categories)
}

// ProgramNames handles GET /api/programs, optionally filtered with ?category=
func (h *APIHandler) ProgramNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.DB.ProgramNames(r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondResult(w, names)
}

// ProgramFields handles GET /api/programs/fields
func (h *APIHandler) ProgramFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.DB.ProgramFields()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondResult(w, fields)
}

// ProgramFieldValues handles GET /api/programs/{title}?fields=a,b
func (h *APIHandler) ProgramFieldValues(w http.ResponseWriter, r *http.Request) {
	fields := splitFields(r.URL.Query().Get("fields"))
	if len(fields) == 0 {
		respondErrorMessage(w, http.StatusBadRequest, "fields parameter is required")
		return
	}

	values, err := h.DB.ProgramFieldValues(chi.URLParam(r, "title"), fields)
	if err != nil {
		respondError(w, errorStatus(err), err)
		return
	}
	respondResult(w, values)
}

// ProgramCourses handles GET /api/programs/{title}/courses
func (h *APIHandler) ProgramCourses(w http.ResponseWriter, r *http.Request) {
	ids, err := h.DB.ProgramCourseIDs(chi.URLParam(r, "title"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondResult(w, ids)
}

// CountCourses handles GET /api/courses/count
func (h *APIHandler) CountCourses(w http.ResponseWriter, r *http.Request) {
	count, err := h.DB.CountCourses()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondResult(w, count)
}

// CourseTitles handles GET /api/courses
func (h *APIHandler) CourseTitles(w http.ResponseWriter, r *http.Request) {
	titles, err := h.DB.CourseTitles()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondResult(w, titles)
}

// CourseIDsByTitle handles GET /api/courses/ids?title=
func (h *APIHandler) CourseIDsByTitle(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		respondErrorMessage(w, http.StatusBadRequest, "title parameter is required")
		return
	}
	ids, err := h.DB.CourseIDsByTitle(title)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondResult(w, ids)
}

// CourseFields handles GET /api/courses/fields
func (h *APIHandler) CourseFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.DB.CourseFields()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondResult(w, fields)
}

// CourseFieldValues handles GET /api/courses/{id}?fields=a,b
func (h *APIHandler) CourseFieldValues(w http.ResponseWriter, r *http.Request) {
	fields := splitFields(r.URL.Query().Get("fields"))
	if len(fields) == 0 {
		respondErrorMessage(w, http.StatusBadRequest, "fields parameter is required")
		return
	}

	values, err := h.DB.CourseFieldValues(chi.URLParam(r, "id"), fields)
	if err != nil {
		respondError(w, errorStatus(err), err)
		return
	}
	respondResult(w, values)
}

// LocationName handles GET /api/locations/{id}
func (h *APIHandler) LocationName(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "location id must be an integer")
		return
	}

	name, err := h.DB.LocationName(id)
	if err != nil {
		respondError(w, errorStatus(err), err)
		return
	}
	respondResult(w, name)
}

// splitFields parses a comma-separated fields parameter, dropping empties.
func splitFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// errorStatus maps lookup errors to HTTP statuses. The typed accessors wrap
// missing rows in "not found" errors rather than exposing sql.ErrNoRows.
func errorStatus(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	if strings.Contains(err.Error(), "unknown field") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondResult sends a success envelope.
func respondResult(w http.ResponseWriter, result any) {
	respondJSON(w, http.StatusOK, Envelope{Status: "success", Result: result})
}

// respondError sends an error envelope carrying err's message.
func respondError(w http.ResponseWriter, status int, err error) {
	respondErrorMessage(w, status, err.Error())
}

func respondErrorMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Envelope{Status: "error", ErrorMessage: message})
}

// respondJSON is a helper function to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("JSON encoding error: %v", err)
	}
}
