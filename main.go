package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fagskolen/cmd"
)

var logger *slog.Logger

// setupLogger creates and configures the application logger
func setupLogger(dataDir string) error {
	if logger != nil {
		return nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	logPath := filepath.Join(dataDir, "err.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Create JSON handler for structured logging
	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true, // Include file:line information
	})

	logger = slog.New(handler)
	logger.Info("Application started", "version", "1.0", "data_dir", dataDir)

	return nil
}

// unitsDir is where scraped unit files live inside the data directory.
func unitsDir(dataDir string) string {
	return filepath.Join(dataDir, "units")
}

func initDB(dataDir string) (cmd.DBInterface, func(), error) {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := NewDB(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, cleanup, nil
}

// runScrape walks the study catalog and writes one unit file per program.
func runScrape(dataDir string, useBuffer bool, delay time.Duration) error {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	ctx := context.Background()
	fetcher := NewFetcher(delay)

	urls, err := fetcher.DiscoverProgramURLsBuffered(ctx, filepath.Join(dataDir, "studies_urls.json"), useBuffer)
	if err != nil {
		return fmt.Errorf("discovering program pages: %w", err)
	}
	fmt.Printf("Discovered %d program pages\n", len(urls))

	store, err := NewUnitStore(unitsDir(dataDir))
	if err != nil {
		return err
	}

	scraped, failed := 0, 0
	for i, url := range urls {
		unit, report, err := fetcher.ScrapeProgram(ctx, url)
		if err != nil {
			failed++
			if logger != nil {
				logger.Error("Program scrape failed", "url", url, "error", err)
			}
			fmt.Printf("  [%d/%d] ✗ %s: %v\n", i+1, len(urls), url, err)
			continue
		}

		path, err := store.Save(unit)
		if err != nil {
			failed++
			if logger != nil {
				logger.Error("Unit save failed", "url", url, "error", err)
			}
			fmt.Printf("  [%d/%d] ✗ %s: %v\n", i+1, len(urls), url, err)
			continue
		}

		scraped++
		fmt.Printf("  [%d/%d] %s\n", i+1, len(urls), filepath.Base(path))
		if report.DroppedPrograms > 0 || report.DroppedCourses > 0 {
			fmt.Printf("          dropped %d program(s), %d course(s) without titles\n",
				report.DroppedPrograms, report.DroppedCourses)
		}
	}

	fmt.Printf("Done: %d scraped, %d failed\n", scraped, failed)
	return nil
}

// runLoad upserts every stored unit file into the database.
func runLoad(dataDir string) error {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := NewDB(dataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	store, err := NewUnitStore(unitsDir(dataDir))
	if err != nil {
		return err
	}

	result, err := NewLoader(db).LoadFromStore(store)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d units (%d failed), %d locations\n",
		result.UnitsLoaded, result.UnitsFailed, result.Locations)
	return nil
}

func startServer(dataDir string, port int) error {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := NewDB(dataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	return StartServer(ServerConfig{Port: port, DB: db})
}

func main() {
	// Set up cmd package callbacks
	cmd.InitDB = initDB
	cmd.StartServer = startServer
	cmd.RunScrape = runScrape
	cmd.RunLoad = runLoad

	// Execute the CLI
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
