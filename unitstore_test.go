package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestUnitStoreRoundTrip tests save, list and load of unit files
func TestUnitStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewUnitStore(dir)
	if err != nil {
		t.Fatalf("NewUnitStore failed: %v", err)
	}

	unit := MockUnit(MockProgram("Elkraft", 120, "Drammen (Heltid 2 år)"),
		MockCourse("00TE01A", "Elektriske systemer", 10))

	path, err := store.Save(unit)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "Elkraft - 120.json" {
		t.Errorf("Unexpected filename %q", filepath.Base(path))
	}

	paths, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Fatalf("List = %v, want [%s]", paths, path)
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.StudyPrograms) != 1 || loaded.StudyPrograms[0].ID != "Elkraft - 120" {
		t.Errorf("Unexpected loaded unit: %+v", loaded)
	}
	if len(loaded.Courses) != 1 || strValue(loaded.Courses[0].ID) != "00TE01A" {
		t.Errorf("Unexpected loaded courses: %+v", loaded.Courses)
	}
	if loaded.StudyPrograms[0].StudyLocation[4] != "Drammen" {
		t.Errorf("Location map did not survive the round trip: %v", loaded.StudyPrograms[0].StudyLocation)
	}
}

// TestUnitStoreFallbackName tests the filename for a unit without a program id
func TestUnitStoreFallbackName(t *testing.T) {
	store, err := NewUnitStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewUnitStore failed: %v", err)
	}

	path, err := store.Save(Unit{StudyPrograms: []Program{}, Courses: []Course{}})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != fallbackUnitFile {
		t.Errorf("Expected fallback filename, got %q", filepath.Base(path))
	}
}

// TestUnitStoreSanitizesFilename tests hostile characters in program ids
func TestUnitStoreSanitizesFilename(t *testing.T) {
	store, err := NewUnitStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewUnitStore failed: %v", err)
	}

	program := MockProgram("Helse/omsorg: demens", 30, "Geilo (Deltid 2 år)")
	path, err := store.Save(MockUnit(program))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	base := filepath.Base(path)
	if strings.ContainsAny(base, "/\\:") {
		t.Errorf("Filename not sanitized: %q", base)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Saved file missing: %v", err)
	}
}

// TestUnitStoreSaveOverwrites tests that re-saving a unit replaces the file
func TestUnitStoreSaveOverwrites(t *testing.T) {
	store, err := NewUnitStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewUnitStore failed: %v", err)
	}

	unit := MockUnit(MockProgram("Elkraft", 120, "Drammen (Heltid 2 år)"))
	if _, err := store.Save(unit); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	unit.StudyPrograms[0].Language = strPtr("Engelsk")
	path, err := store.Save(unit)
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	paths, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("Expected 1 file after overwrite, got %v", paths)
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if strValue(loaded.StudyPrograms[0].Language) != "Engelsk" {
		t.Errorf("Expected overwritten language, got %v", loaded.StudyPrograms[0].Language)
	}
}
