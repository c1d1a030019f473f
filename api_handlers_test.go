package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func apiGet(t *testing.T, router http.Handler, path string) (int, Envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not a JSON envelope: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, envelope
}

// TestAPIProgramEndpoints tests the program read endpoints end to end
func TestAPIProgramEndpoints(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	loadFixtures(t, db)
	router := NewRouter(db)

	t.Run("count", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/programs/count")
		if code != http.StatusOK || env.Status != "success" {
			t.Fatalf("code=%d status=%q", code, env.Status)
		}
		if n, ok := env.Result.(float64); !ok || n != 3 {
			t.Errorf("Expected count 3, got %v", env.Result)
		}
	})

	t.Run("categories", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/programs/categories")
		if code != http.StatusOK {
			t.Fatalf("code=%d", code)
		}
		if list, ok := env.Result.([]any); !ok || len(list) != 3 {
			t.Errorf("Expected 3 categories, got %v", env.Result)
		}
	})

	t.Run("names filtered by category", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/programs/?category=Helse")
		if code != http.StatusOK {
			t.Fatalf("code=%d", code)
		}
		list, ok := env.Result.([]any)
		if !ok || len(list) != 1 || list[0] != "Demensomsorg" {
			t.Errorf("Expected [Demensomsorg], got %v", env.Result)
		}
	})

	t.Run("field values", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/programs/Elkraft?fields=credits,study_language")
		if code != http.StatusOK {
			t.Fatalf("code=%d err=%q", code, env.ErrorMessage)
		}
		values, ok := env.Result.(map[string]any)
		if !ok {
			t.Fatalf("Expected object result, got %v", env.Result)
		}
		if values["study_language"] != "Norsk" {
			t.Errorf("study_language = %v", values["study_language"])
		}
	})

	t.Run("field values without fields param", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/programs/Elkraft")
		if code != http.StatusBadRequest || env.Status != "error" {
			t.Errorf("code=%d status=%q", code, env.Status)
		}
	})

	t.Run("unknown program", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/programs/"+url.PathEscape("Finnes ikke")+"?fields=credits")
		if code != http.StatusNotFound || env.Status != "error" {
			t.Errorf("code=%d status=%q msg=%q", code, env.Status, env.ErrorMessage)
		}
	})

	t.Run("invalid field name", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/programs/Elkraft?fields=hemmelig")
		if code != http.StatusBadRequest || env.Status != "error" {
			t.Errorf("code=%d status=%q msg=%q", code, env.Status, env.ErrorMessage)
		}
	})

	t.Run("program courses", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/programs/Elkraft/courses")
		if code != http.StatusOK {
			t.Fatalf("code=%d", code)
		}
		if list, ok := env.Result.([]any); !ok || len(list) != 2 {
			t.Errorf("Expected 2 course ids, got %v", env.Result)
		}
	})
}

// TestAPICourseEndpoints tests the course read endpoints
func TestAPICourseEndpoints(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	loadFixtures(t, db)
	router := NewRouter(db)

	t.Run("count", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/courses/count")
		if code != http.StatusOK {
			t.Fatalf("code=%d", code)
		}
		if n, ok := env.Result.(float64); !ok || n != 4 {
			t.Errorf("Expected count 4, got %v", env.Result)
		}
	})

	t.Run("ids by title", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/courses/ids?title="+url.QueryEscape("Elektriske systemer"))
		if code != http.StatusOK {
			t.Fatalf("code=%d", code)
		}
		list, ok := env.Result.([]any)
		if !ok || len(list) != 1 || list[0] != "00TE01A" {
			t.Errorf("Expected [00TE01A], got %v", env.Result)
		}
	})

	t.Run("ids without title param", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/courses/ids")
		if code != http.StatusBadRequest || env.Status != "error" {
			t.Errorf("code=%d status=%q", code, env.Status)
		}
	})

	t.Run("field values", func(t *testing.T) {
		code, env := apiGet(t, router, "/api/courses/00HH01A?fields=course_title")
		if code != http.StatusOK {
			t.Fatalf("code=%d err=%q", code, env.ErrorMessage)
		}
		values, ok := env.Result.(map[string]any)
		if !ok || values["course_title"] != "Demens og alderspsykiatri" {
			t.Errorf("Unexpected result %v", env.Result)
		}
	})
}

// TestAPILocationEndpoint tests location lookup including the error paths
func TestAPILocationEndpoint(t *testing.T) {
	db, cleanup := SetupTestDB(t)
	defer cleanup()
	loadFixtures(t, db)
	router := NewRouter(db)

	code, env := apiGet(t, router, "/api/locations/4")
	if code != http.StatusOK {
		t.Fatalf("code=%d err=%q", code, env.ErrorMessage)
	}
	if env.Result != "Drammen" {
		t.Errorf("Expected Drammen, got %v", env.Result)
	}

	code, env = apiGet(t, router, "/api/locations/99")
	if code != http.StatusNotFound || env.Status != "error" {
		t.Errorf("code=%d status=%q", code, env.Status)
	}

	code, env = apiGet(t, router, "/api/locations/abc")
	if code != http.StatusBadRequest || env.Status != "error" {
		t.Errorf("code=%d status=%q", code, env.Status)
	}
}
