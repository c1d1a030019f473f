package main

import (
	"strconv"
	"strings"
)

// LearningOutcomes holds the knowledge/skills/competence triple for a course.
// The struct is always present on a Course, even when every field is nil, so
// consumers never need to null-check the container.
type LearningOutcomes struct {
	Knowledge  *string `json:"knowledge"`
	Skills     *string `json:"skills"`
	Competence *string `json:"competence"`
}

// Course is one subject ("emne") referenced from a program page. ID is the
// external course code (e.g. "01TD01B") and is the authoritative key; a
// course without an ID can exist transiently during extraction but is never
// persisted.
type Course struct {
	ID               *string          `json:"id"`
	Title            *string          `json:"title"`
	Credits          *int             `json:"credits"`
	URL              *string          `json:"url"`
	StudyLevel       *string          `json:"study_level"`
	LearningOutcomes LearningOutcomes `json:"learning_outcomes"`
}

// Program is one vocational study offering. StudyLocation and StudyType carry
// the catalog code to matched name mappings from the campus selector; they are
// not flattened to a single value here.
type Program struct {
	ID                  string         `json:"id"`
	Title               *string        `json:"title"`
	Description         *string        `json:"description"`
	StudyCategory       *string        `json:"study_category"`
	StudyLocation       map[int]string `json:"study_location"`
	StudyType           map[int]string `json:"study_type"`
	Credits             *int           `json:"credits"`
	Language            *string        `json:"language"`
	Level               *string        `json:"level"`
	WhyChoose           *string        `json:"why_choose"`
	WhatLearn           *string        `json:"what_learn"`
	TeachingFormat      *string        `json:"teaching_format"`
	MandatoryAttendance *string        `json:"mandatory_attendance"`
	PoliceCertificate   *string        `json:"police_certificate"`
	CareerOpportunities *string        `json:"career_opportunities"`
	ContactInfo         *string        `json:"contact_info"`
	StudyURL            *string        `json:"study_url"`
}

// Unit is the serializable payload for one scraped program page, the
// intermediate form written to the units directory and consumed by the loader.
type Unit struct {
	StudyPrograms []Program `json:"study_programs"`
	Courses       []Course  `json:"courses"`
}

// NormalizeReport lists records that were extracted but excluded from the
// persisted payload, for diagnostics.
type NormalizeReport struct {
	DroppedPrograms int
	DroppedCourses  int
}

// ParseCredits coerces a points string like "30 stp" to its leading integer
// token. Text without a leading numeric token yields nil, never an error.
func ParseCredits(text string) *int {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil
	}
	return &n
}

// ProgramID derives the natural-key identifier for a program from its title
// and credits. This is a display key: two distinct programs with the same
// title and credits would collide, which the loader warns about rather than
// silently assuming uniqueness.
func ProgramID(title *string, credits *int) string {
	if title == nil {
		return ""
	}
	if credits == nil {
		return *title
	}
	return *title + " - " + strconv.Itoa(*credits)
}

// NormalizeUnit validates and assembles one extracted program plus its courses
// into a Unit. A program or course without a title is excluded from the
// payload and counted in the report; its absence is reported, not an error.
func NormalizeUnit(program Program, courses []Course) (Unit, NormalizeReport) {
	var report NormalizeReport

	program.ID = ProgramID(program.Title, program.Credits)

	unit := Unit{
		StudyPrograms: []Program{},
		Courses:       []Course{},
	}

	if program.Title != nil {
		unit.StudyPrograms = append(unit.StudyPrograms, program)
	} else {
		report.DroppedPrograms++
		if logger != nil {
			logger.Warn("Dropping program without title", "url", strValue(program.StudyURL))
		}
	}

	for _, course := range courses {
		if course.Title == nil {
			report.DroppedCourses++
			if logger != nil {
				logger.Warn("Dropping course without title", "url", strValue(course.URL))
			}
			continue
		}
		unit.Courses = append(unit.Courses, course)
	}

	return unit, report
}

// strValue dereferences an optional string for logging.
func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// strPtr returns a pointer to s, or nil when s is empty.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
