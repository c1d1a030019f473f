package main

import (
	"os"
	"testing"
)

// SetupTestDB creates an empty database in a temp directory
func SetupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fagskolen-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	db, err := NewDB(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to initialize test database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

// MockProgram creates a Program with all text fields populated for testing.
// PoliceCertificate is left nil; tests set it when the advisory matters.
func MockProgram(title string, credits int, location string) Program {
	locations, types := MatchLocationAndStudyType(location)
	p := Program{
		Title:               strPtr(title),
		Description:         strPtr("En praktisk utdanning for deg som vil videre."),
		StudyCategory:       strPtr("Teknisk"),
		StudyLocation:       locations,
		StudyType:           types,
		Credits:             &credits,
		Language:            strPtr("Norsk"),
		Level:               strPtr("Fagskolegrad"),
		WhyChoose:           strPtr("Bransjen trenger flere fagfolk."),
		WhatLearn:           strPtr("Du lærer praktisk prosjektarbeid."),
		TeachingFormat:      strPtr("Stedbasert"),
		MandatoryAttendance: strPtr("Ja, på samlinger."),
		CareerOpportunities: strPtr("Tekniker, prosjektleder."),
		ContactInfo:         strPtr("studie@fagskolen-viken.no"),
		StudyURL:            strPtr("https://fagskolen-viken.no/studier/" + sanitizeFilename(title)),
	}
	p.ID = ProgramID(p.Title, p.Credits)
	return p
}

// MockCourse creates a Course with learning outcomes for testing
func MockCourse(id, title string, credits int) Course {
	return Course{
		ID:         strPtr(id),
		Title:      strPtr(title),
		Credits:    &credits,
		URL:        strPtr("https://fagskolen-viken.no/emner/" + id),
		StudyLevel: strPtr("5.1"),
		LearningOutcomes: LearningOutcomes{
			Knowledge:  strPtr("Kandidaten har kunnskap om fagområdet."),
			Skills:     strPtr("Kandidaten kan anvende verktøy og metoder."),
			Competence: strPtr("Kandidaten kan utføre arbeid etter kundens behov."),
		},
	}
}

// MockUnit bundles a program with its courses the way a scraped page does
func MockUnit(program Program, courses ...Course) Unit {
	return Unit{
		StudyPrograms: []Program{program},
		Courses:       courses,
	}
}
