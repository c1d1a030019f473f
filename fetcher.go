package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	// BaseURL is the root of the scraped site. Program hrefs on the listing
	// pages are relative and get prefixed with it.
	BaseURL = "https://fagskolen-viken.no/"

	userAgent    = "Mozilla/5.0"
	fetchTimeout = 30 * time.Second

	// defaultFetchDelay is a politeness control between sequential listing
	// requests, not a correctness requirement.
	defaultFetchDelay = 500 * time.Millisecond

	// defaultEnrichWorkers bounds the concurrent course-page fetches.
	defaultEnrichWorkers = 4
)

// Fetcher fetches and parses pages from the college website.
type Fetcher struct {
	client  *http.Client
	base    string
	delay   time.Duration
	workers int
}

// NewFetcher creates a Fetcher with the given inter-request delay. A zero or
// negative delay disables the pause between listing requests.
func NewFetcher(delay time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: fetchTimeout},
		base:    BaseURL,
		delay:   delay,
		workers: defaultEnrichWorkers,
	}
}

// absoluteURL resolves a site-relative href against the fetcher's base URL.
// Absolute hrefs pass through untouched.
func (f *Fetcher) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return f.base + strings.TrimPrefix(href, "/")
}

// Get fetches one page and parses it into a goquery document.
func (f *Fetcher) Get(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// DiscoverProgramURLs walks the paginated listing (studier?page=N) and
// collects every program link until a page comes back empty.
func (f *Fetcher) DiscoverProgramURLs(ctx context.Context) ([]string, error) {
	var urls []string

	for page := 0; ; page++ {
		doc, err := f.Get(ctx, fmt.Sprintf("%sstudier?page=%d", f.base, page))
		if err != nil {
			return nil, fmt.Errorf("listing page %d: %w", page, err)
		}

		links := doc.Find("a.study-guide__link[href]")
		if links.Length() == 0 {
			break
		}

		links.Each(func(_ int, link *goquery.Selection) {
			if href, ok := link.Attr("href"); ok {
				urls = append(urls, f.absoluteURL(href))
			}
		})

		if f.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.delay):
			}
		}
	}

	return urls, nil
}

// DiscoverProgramURLsBuffered reads the URL list from bufferPath when
// useBuffer is set, otherwise scrapes the listing and refreshes the buffer.
func (f *Fetcher) DiscoverProgramURLsBuffered(ctx context.Context, bufferPath string, useBuffer bool) ([]string, error) {
	if useBuffer {
		data, err := os.ReadFile(bufferPath)
		if err != nil {
			return nil, fmt.Errorf("reading URL buffer: %w", err)
		}
		var urls []string
		if err := json.Unmarshal(data, &urls); err != nil {
			return nil, fmt.Errorf("parsing URL buffer: %w", err)
		}
		return urls, nil
	}

	urls, err := f.DiscoverProgramURLs(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(urls)
	if err != nil {
		return nil, fmt.Errorf("encoding URL buffer: %w", err)
	}
	if err := os.WriteFile(bufferPath, data, 0644); err != nil {
		return nil, fmt.Errorf("writing URL buffer: %w", err)
	}
	return urls, nil
}

// EnrichCourses fetches each course's own page to fill in the external course
// code, study level and learning outcomes, with at most f.workers fetches in
// flight. A failing fetch or parse for one course leaves that course's
// enrichment fields nil and never disturbs the others.
func (f *Fetcher) EnrichCourses(ctx context.Context, courses []Course) {
	g := new(errgroup.Group)
	g.SetLimit(f.workers)

	for i := range courses {
		course := &courses[i]
		if course.URL == nil {
			continue
		}
		course.URL = strPtr(f.absoluteURL(*course.URL))
		g.Go(func() error {
			doc, err := f.Get(ctx, *course.URL)
			if err != nil {
				if logger != nil {
					logger.Warn("Course enrichment fetch failed", "url", *course.URL, "error", err)
				}
				return nil
			}
			EnrichCourseFromPage(doc, course)
			return nil
		})
	}

	// Goroutines report failures by leaving fields nil, so Wait's error is
	// always nil; the group is used purely for its concurrency limit.
	_ = g.Wait()
}

// ScrapeProgram fetches one program page, extracts and enriches its courses,
// and normalizes the result into a unit. A fetch failure is fatal for this
// page only; callers skip the page and continue.
func (f *Fetcher) ScrapeProgram(ctx context.Context, url string) (Unit, NormalizeReport, error) {
	doc, err := f.Get(ctx, url)
	if err != nil {
		return Unit{}, NormalizeReport{}, fmt.Errorf("program page %s: %w", url, err)
	}

	program := ExtractProgram(doc)
	courses := ExtractCourses(doc)
	f.EnrichCourses(ctx, courses)

	unit, report := NormalizeUnit(program, courses)
	return unit, report, nil
}
