package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fallbackUnitFile names units whose program carried no identifier.
const fallbackUnitFile = "study_data_structure.json"

// UnitStore persists one JSON unit per scraped program page in a directory,
// the handoff point between the scraper and the loader.
type UnitStore struct {
	dir string
}

// NewUnitStore creates the units directory if needed.
func NewUnitStore(dir string) (*UnitStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating units directory: %w", err)
	}
	return &UnitStore{dir: dir}, nil
}

// Save writes a unit as pretty-printed JSON, named after the program
// identifier when one exists. Returns the written path.
func (s *UnitStore) Save(unit Unit) (string, error) {
	name := fallbackUnitFile
	if len(unit.StudyPrograms) > 0 && unit.StudyPrograms[0].ID != "" {
		name = sanitizeFilename(unit.StudyPrograms[0].ID) + ".json"
	}
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(unit, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding unit: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing unit: %w", err)
	}
	return path, nil
}

// List returns the paths of all stored units in stable order.
func (s *UnitStore) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Load reads one unit file back.
func (s *UnitStore) Load(path string) (Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Unit{}, fmt.Errorf("reading unit: %w", err)
	}
	var unit Unit
	if err := json.Unmarshal(data, &unit); err != nil {
		return Unit{}, fmt.Errorf("parsing unit %s: %w", path, err)
	}
	return unit, nil
}

// sanitizeFilename replaces characters that are unsafe in filenames. Program
// identifiers are display text and may contain slashes or colons.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	return replacer.Replace(name)
}
