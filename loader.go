package main

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
)

// Loader upserts batches of units into the relational tables. All writes are
// keyed upserts, so re-running a batch produces no duplicate rows.
type Loader struct {
	db *DB
}

// LoadResult summarizes one batch run.
type LoadResult struct {
	UnitsLoaded int
	UnitsFailed int
	Locations   int
}

func NewLoader(db *DB) *Loader {
	return &Loader{db: db}
}

// LoadFromStore loads every unit file in the store as one batch. A file that
// fails to parse is skipped and logged; the rest of the batch proceeds.
func (l *Loader) LoadFromStore(store *UnitStore) (LoadResult, error) {
	paths, err := store.List()
	if err != nil {
		return LoadResult{}, err
	}

	units := make([]Unit, 0, len(paths))
	for _, path := range paths {
		unit, err := store.Load(path)
		if err != nil {
			if logger != nil {
				logger.Warn("Skipping unreadable unit", "path", path, "error", err)
			}
			continue
		}
		units = append(units, unit)
	}

	return l.LoadBatch(units)
}

// LoadBatch writes a batch of units. Locations from every unit are collected
// and committed up front, so they survive even when a later unit's writes are
// rolled back. Each unit then gets its own transaction: a failure rolls back
// that unit only and the batch continues, unless the connection itself is
// gone, which aborts the run.
func (l *Loader) LoadBatch(units []Unit) (LoadResult, error) {
	var result LoadResult

	locations := collectLocations(units)
	for code, name := range locations {
		if _, err := l.db.conn.Exec(`INSERT INTO study_place (location_id, location_name) VALUES ($1, $2)
			ON CONFLICT (location_id) DO UPDATE SET location_name = EXCLUDED.location_name`, code, name); err != nil {
			if isConnectionError(err) {
				return result, fmt.Errorf("connection lost during location pre-pass: %w", err)
			}
			if logger != nil {
				logger.Warn("Failed to upsert location", "location_id", code, "name", name, "error", err)
			}
			continue
		}
		result.Locations++
	}

	// Same title+credits from two different pages means the display-key
	// collides; the second unit overwrites the first.
	seenIDs := make(map[string]string)

	for _, unit := range units {
		if err := l.loadUnit(unit, seenIDs); err != nil {
			if isConnectionError(err) {
				return result, fmt.Errorf("connection lost, aborting batch: %w", err)
			}
			result.UnitsFailed++
			if logger != nil {
				logger.Error("Unit load failed, rolled back", "error", err)
			}
			fmt.Printf("  ✗ unit failed: %v\n", err)
			continue
		}
		result.UnitsLoaded++
	}

	return result, nil
}

// loadUnit writes one unit inside a single transaction.
func (l *Loader) loadUnit(unit Unit, seenIDs map[string]string) error {
	tx, err := l.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, course := range unit.Courses {
		if course.ID == nil {
			// No external code means no upsert key.
			if logger != nil {
				logger.Warn("Skipping course without code", "title", strValue(course.Title))
			}
			continue
		}
		if err := upsertCourse(tx, course); err != nil {
			return fmt.Errorf("course %s: %w", *course.ID, err)
		}
	}

	for _, program := range unit.StudyPrograms {
		if program.ID == "" {
			if logger != nil {
				logger.Warn("Skipping program without identifier", "url", strValue(program.StudyURL))
			}
			continue
		}

		if prev, ok := seenIDs[program.ID]; ok && prev != strValue(program.StudyURL) {
			if logger != nil {
				logger.Warn("Program identifier collision", "id", program.ID, "url", strValue(program.StudyURL), "previous_url", prev)
			}
		}
		seenIDs[program.ID] = strValue(program.StudyURL)

		if err := upsertProgram(tx, program); err != nil {
			return fmt.Errorf("program %s: %w", program.ID, err)
		}

		for _, course := range unit.Courses {
			if course.ID == nil {
				continue
			}
			if err := insertLink(tx, program.ID, *course.ID); err != nil {
				return fmt.Errorf("link %s -> %s: %w", program.ID, *course.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing unit: %w", err)
	}
	return nil
}

func upsertCourse(tx *sql.Tx, course Course) error {
	_, err := tx.Exec(`INSERT INTO courses
		(course_id, course_title, credits, url, study_level, lear_out_know, lear_out_skills, lear_out_competence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (course_id) DO UPDATE SET
			course_title = EXCLUDED.course_title,
			credits = EXCLUDED.credits,
			url = EXCLUDED.url,
			study_level = EXCLUDED.study_level,
			lear_out_know = EXCLUDED.lear_out_know,
			lear_out_skills = EXCLUDED.lear_out_skills,
			lear_out_competence = EXCLUDED.lear_out_competence`,
		course.ID, course.Title, course.Credits, course.URL, course.StudyLevel,
		course.LearningOutcomes.Knowledge, course.LearningOutcomes.Skills, course.LearningOutcomes.Competence)
	return err
}

func upsertProgram(tx *sql.Tx, program Program) error {
	_, err := tx.Exec(`INSERT INTO study_programs
		(study_id, study_title, study_description, study_category, location_id, credits,
		 study_language, study_lvl, why_choose, what_learn, teaching_format,
		 mandatory_attendance, police_certificate, career_opportunities, contact_info, study_url, course_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NULL)
		ON CONFLICT (study_id) DO UPDATE SET
			study_title = EXCLUDED.study_title,
			study_description = EXCLUDED.study_description,
			study_category = EXCLUDED.study_category,
			location_id = EXCLUDED.location_id,
			credits = EXCLUDED.credits,
			study_language = EXCLUDED.study_language,
			study_lvl = EXCLUDED.study_lvl,
			why_choose = EXCLUDED.why_choose,
			what_learn = EXCLUDED.what_learn,
			teaching_format = EXCLUDED.teaching_format,
			mandatory_attendance = EXCLUDED.mandatory_attendance,
			police_certificate = EXCLUDED.police_certificate,
			career_opportunities = EXCLUDED.career_opportunities,
			contact_info = EXCLUDED.contact_info,
			study_url = EXCLUDED.study_url`,
		program.ID, program.Title, program.Description, program.StudyCategory,
		programLocationID(program), program.Credits, program.Language, program.Level,
		program.WhyChoose, program.WhatLearn, program.TeachingFormat,
		program.MandatoryAttendance, policeFlag(program.PoliceCertificate),
		program.CareerOpportunities, program.ContactInfo, program.StudyURL)
	return err
}

func insertLink(tx *sql.Tx, studyID, courseID string) error {
	_, err := tx.Exec(`INSERT OR IGNORE INTO lookuptable_study_course (study_id, course_id) VALUES ($1, $2)`,
		studyID, courseID)
	return err
}

// collectLocations unions every unit's matched locations, keeping the first
// name seen per code.
func collectLocations(units []Unit) map[int]string {
	locations := make(map[int]string)
	for _, unit := range units {
		for _, program := range unit.StudyPrograms {
			for code, name := range program.StudyLocation {
				if _, ok := locations[code]; !ok && name != "" {
					locations[code] = name
				}
			}
		}
	}
	return locations
}

// programLocationID picks the program's location FK: the lowest matched
// catalog code. The full code set stays available in the unit JSON.
func programLocationID(program Program) *int {
	var best *int
	for code := range program.StudyLocation {
		code := code
		if best == nil || code < *best {
			best = &code
		}
	}
	return best
}

// policeFlag converts the extraction advisory to the stored boolean: any
// advisory present means the certificate is required, absence means unknown.
func policeFlag(advisory *string) *bool {
	if advisory == nil {
		return nil
	}
	t := true
	return &t
}

// isConnectionError reports whether err means the database connection itself
// is unusable, which is fatal for the whole run rather than one unit.
func isConnectionError(err error) bool {
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone)
}
