package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DBInterface wraps the read-only catalog operations used by CLI commands
// and agent tools
type DBInterface interface {
	CountPrograms() (int, error)
	ProgramCategories() ([]string, error)
	ProgramNames(category string) ([]string, error)
	ProgramFields() ([]string, error)
	ProgramFieldValues(title string, fields []string) (map[string]any, error)
	ProgramCourseIDs(title string) ([]string, error)
	CountCourses() (int, error)
	CourseTitles() ([]string, error)
	CourseIDsByTitle(title string) ([]string, error)
	CourseFields() ([]string, error)
	CourseFieldValues(courseID string, fields []string) (map[string]any, error)
	LocationName(locationID int) (string, error)
	ExecuteQuery(query string) ([]map[string]any, error)
	Close() error
}

// These variables will be set by main package
var (
	InitDB      func(dataDir string) (DBInterface, func(), error)
	StartServer func(dataDir string, port int) error
	RunScrape   func(dataDir string, useBuffer bool, delay time.Duration) error
	RunLoad     func(dataDir string) error
)

// HandleError prints error and exits
func HandleError(err error, message string) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, err)
	os.Exit(1)
}

// runQuery opens the database, runs one read operation and prints the result
// envelope. Operation errors go into an error envelope with a non-zero exit;
// only setup failures use HandleError.
func runQuery(op func(db DBInterface) (any, error)) {
	db, cleanup, err := InitDB(dataDir)
	if err != nil {
		HandleError(err, "Failed to initialize database")
	}
	defer cleanup()

	result, err := op(db)
	if err != nil {
		printEnvelope(map[string]any{"status": "error", "error_message": err.Error()})
		cleanup()
		os.Exit(1)
	}
	printEnvelope(map[string]any{"status": "success", "result": result})
}

func printEnvelope(envelope map[string]any) {
	output, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		HandleError(err, "Failed to encode JSON")
	}
	fmt.Println(string(output))
}
