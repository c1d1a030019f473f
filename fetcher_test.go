package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testFetcher(srv *httptest.Server) *Fetcher {
	f := NewFetcher(0)
	f.base = srv.URL + "/"
	f.client = srv.Client()
	return f
}

// TestDiscoverProgramURLs tests pagination until an empty listing page
func TestDiscoverProgramURLs(t *testing.T) {
	pages := map[string]string{
		"0": `<html><body>
			<a class="study-guide__link" href="/studier/elkraft">Elkraft</a>
			<a class="study-guide__link" href="/studier/bygg">Bygg</a>
		</body></html>`,
		"1": `<html><body>
			<a class="study-guide__link" href="/studier/demensomsorg">Demensomsorg</a>
		</body></html>`,
		"2": `<html><body><p>Ingen flere studier.</p></body></html>`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/studier" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, pages[r.URL.Query().Get("page")])
	}))
	defer srv.Close()

	urls, err := testFetcher(srv).DiscoverProgramURLs(context.Background())
	if err != nil {
		t.Fatalf("DiscoverProgramURLs failed: %v", err)
	}

	want := []string{
		srv.URL + "/studier/elkraft",
		srv.URL + "/studier/bygg",
		srv.URL + "/studier/demensomsorg",
	}
	if len(urls) != len(want) {
		t.Fatalf("Got %d URLs, want %d: %v", len(urls), len(want), urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("URL %d = %q, want %q", i, urls[i], want[i])
		}
	}
}

// TestDiscoverProgramURLsBuffered tests buffer write and read-back
func TestDiscoverProgramURLsBuffered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "0" {
			fmt.Fprint(w, `<html><body><a class="study-guide__link" href="/studier/elkraft">E</a></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body></body></html>`)
	}))
	defer srv.Close()

	bufferPath := filepath.Join(t.TempDir(), "studies_urls.json")
	f := testFetcher(srv)

	urls, err := f.DiscoverProgramURLsBuffered(context.Background(), bufferPath, false)
	if err != nil {
		t.Fatalf("Discover with buffer refresh failed: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("Expected 1 URL, got %v", urls)
	}

	data, err := os.ReadFile(bufferPath)
	if err != nil {
		t.Fatalf("Buffer file not written: %v", err)
	}
	var buffered []string
	if err := json.Unmarshal(data, &buffered); err != nil {
		t.Fatalf("Buffer is not a JSON string array: %v", err)
	}

	// Shut the server down; the buffered read must not touch the network.
	srv.Close()
	urls, err = f.DiscoverProgramURLsBuffered(context.Background(), bufferPath, true)
	if err != nil {
		t.Fatalf("Buffered discover failed: %v", err)
	}
	if len(urls) != 1 || urls[0] != buffered[0] {
		t.Errorf("Buffered read = %v, want %v", urls, buffered)
	}
}

// TestGetRejectsNon200 tests the status check
func TestGetRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "borte", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := testFetcher(srv).Get(context.Background(), srv.URL); err == nil {
		t.Fatal("Expected error for 404 response")
	}
}

// TestScrapeProgram tests the page to unit pipeline including course
// enrichment over HTTP
func TestScrapeProgram(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/studier/elkraft":
			fmt.Fprint(w, `<html><head></head><body>
				<h1 class="study-detail__title">Elkraft</h1>
				<select class="study-detail--campus__select"><option>Drammen (Heltid 2 år)</option></select>
				<div class="field field--name-field-study-points field--type-integer field--label-hidden field__item">60 stp</div>
				<div class="study-detail--courses__body">
					<a class="study-course__link" href="/emner/elektriske-systemer">
						<span class="study-course__title">Elektriske systemer</span>
						<span class="study-course__points">10 stp</span>
					</a>
				</div>
			</body></html>`)
		case "/emner/elektriske-systemer":
			fmt.Fprint(w, coursePageHTML)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	unit, report, err := testFetcher(srv).ScrapeProgram(context.Background(), srv.URL+"/studier/elkraft")
	if err != nil {
		t.Fatalf("ScrapeProgram failed: %v", err)
	}
	if report.DroppedPrograms != 0 || report.DroppedCourses != 0 {
		t.Errorf("Unexpected drops: %+v", report)
	}

	if len(unit.StudyPrograms) != 1 {
		t.Fatalf("Expected 1 program, got %d", len(unit.StudyPrograms))
	}
	program := unit.StudyPrograms[0]
	if program.ID != "Elkraft - 60" {
		t.Errorf("Program ID = %q, want 'Elkraft - 60'", program.ID)
	}
	if program.StudyLocation[4] != "Drammen" {
		t.Errorf("StudyLocation = %v", program.StudyLocation)
	}

	if len(unit.Courses) != 1 {
		t.Fatalf("Expected 1 course, got %d", len(unit.Courses))
	}
	course := unit.Courses[0]
	if strValue(course.ID) != "00TE01A" {
		t.Errorf("Course not enriched: ID = %v", course.ID)
	}
	if strValue(course.StudyLevel) != "5.1" {
		t.Errorf("StudyLevel = %v", course.StudyLevel)
	}
	if course.LearningOutcomes.Knowledge == nil {
		t.Error("Expected knowledge outcome from course page")
	}
}

// TestEnrichCoursesFetchFailure tests that a failing course page leaves the
// stub fields nil without failing the rest
func TestEnrichCoursesFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/emner/ok" {
			fmt.Fprint(w, coursePageHTML)
			return
		}
		http.Error(w, "nede", http.StatusInternalServerError)
	}))
	defer srv.Close()

	courses := []Course{
		{Title: strPtr("OK"), URL: strPtr(srv.URL + "/emner/ok")},
		{Title: strPtr("Broken"), URL: strPtr(srv.URL + "/emner/broken")},
		{Title: strPtr("No URL")},
	}

	testFetcher(srv).EnrichCourses(context.Background(), courses)

	if strValue(courses[0].ID) != "00TE01A" {
		t.Errorf("Expected first course enriched, got %v", courses[0].ID)
	}
	if courses[1].ID != nil {
		t.Errorf("Expected failing course left unenriched, got %v", courses[1].ID)
	}
	if courses[2].ID != nil {
		t.Errorf("Expected URL-less course untouched, got %v", courses[2].ID)
	}
}
