package main

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
)

// DB wraps the DuckDB database holding the scraped study-program tables.
type DB struct {
	conn    *sql.DB
	dataDir string
}

// NewDB opens (or creates) the database file under dataDir and ensures the
// schema exists: courses, study_place, study_programs and the program-course
// link table.
func NewDB(dataDir string) (*DB, error) {
	dbPath := filepath.Join(dataDir, "fagskolen.duckdb")

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open DuckDB database", "error", err, "db_path", dbPath)
		}
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	d := &DB{
		conn:    conn,
		dataDir: dataDir,
	}

	if err := d.createTables(); err != nil {
		conn.Close()
		if logger != nil {
			logger.Error("Schema initialization failed", "error", err, "db_path", dbPath)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return d, nil
}

func (d *DB) createTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS courses (
			course_id VARCHAR PRIMARY KEY,
			course_title VARCHAR,
			credits INTEGER,
			url VARCHAR,
			study_level VARCHAR,
			lear_out_know TEXT,
			lear_out_skills TEXT,
			lear_out_competence TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS study_place (
			location_id INTEGER PRIMARY KEY,
			location_name VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS study_programs (
			study_id VARCHAR PRIMARY KEY,
			study_title VARCHAR NOT NULL,
			study_description TEXT,
			study_category VARCHAR,
			location_id INTEGER,
			credits INTEGER,
			study_language VARCHAR,
			study_lvl VARCHAR,
			why_choose TEXT,
			what_learn TEXT,
			teaching_format TEXT,
			mandatory_attendance TEXT,
			police_certificate BOOLEAN,
			career_opportunities TEXT,
			contact_info TEXT,
			study_url VARCHAR,
			course_id VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS lookuptable_study_course (
			study_id VARCHAR,
			course_id VARCHAR,
			PRIMARY KEY (study_id, course_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := d.conn.Exec(stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	return nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// CountPrograms returns the number of persisted study programs.
func (d *DB) CountPrograms() (int, error) {
	var count int
	if err := d.conn.QueryRow(`SELECT COUNT(*) FROM study_programs`).Scan(&count); err != nil {
		if logger != nil {
			logger.Error("Program count query failed", "error", err)
		}
		return 0, fmt.Errorf("counting programs: %w", err)
	}
	return count, nil
}

// ProgramCategories returns the distinct non-null program categories.
func (d *DB) ProgramCategories() ([]string, error) {
	return d.stringColumn(`SELECT DISTINCT study_category FROM study_programs
		WHERE study_category IS NOT NULL ORDER BY study_category`)
}

// ProgramNames returns the titles of all programs, or of the programs in the
// given category when category is non-empty.
func (d *DB) ProgramNames(category string) ([]string, error) {
	if category == "" {
		return d.stringColumn(`SELECT study_title FROM study_programs ORDER BY study_title`)
	}
	return d.stringColumn(`SELECT study_title FROM study_programs
		WHERE study_category = $1 ORDER BY study_title`, category)
}

// ProgramFields lists the queryable data-field names of the study_programs
// table. The key and title columns are omitted since callers already address
// programs by title.
func (d *DB) ProgramFields() ([]string, error) {
	cols, err := d.tableColumns("study_programs")
	if err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(cols))
	for _, col := range cols {
		if col == "study_id" || col == "study_title" {
			continue
		}
		fields = append(fields, col)
	}
	return fields, nil
}

// ProgramFieldValues returns the requested field values for the program with
// the given title. Field names are validated against the table's columns
// before being interpolated.
func (d *DB) ProgramFieldValues(title string, fields []string) (map[string]any, error) {
	return d.fieldValues("study_programs", "study_title", title, fields)
}

// CountCourses returns the number of persisted courses.
func (d *DB) CountCourses() (int, error) {
	var count int
	if err := d.conn.QueryRow(`SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		if logger != nil {
			logger.Error("Course count query failed", "error", err)
		}
		return 0, fmt.Errorf("counting courses: %w", err)
	}
	return count, nil
}

// CourseTitles returns all course titles.
func (d *DB) CourseTitles() ([]string, error) {
	return d.stringColumn(`SELECT course_title FROM courses ORDER BY course_title`)
}

// CourseIDsByTitle returns the external course codes carrying the given title
// (titles are not unique across codes).
func (d *DB) CourseIDsByTitle(title string) ([]string, error) {
	return d.stringColumn(`SELECT course_id FROM courses WHERE course_title = $1`, title)
}

// CourseFields lists the queryable data-field names of the courses table.
func (d *DB) CourseFields() ([]string, error) {
	cols, err := d.tableColumns("courses")
	if err != nil {
		return nil, err
	}
	fields := make([]string, 0, len(cols))
	for _, col := range cols {
		if col == "course_id" {
			continue
		}
		fields = append(fields, col)
	}
	return fields, nil
}

// CourseFieldValues returns the requested field values for one course code.
func (d *DB) CourseFieldValues(courseID string, fields []string) (map[string]any, error) {
	return d.fieldValues("courses", "course_id", courseID, fields)
}

// ProgramCourseIDs returns the course codes linked to the program with the
// given title, resolved through the link table.
func (d *DB) ProgramCourseIDs(title string) ([]string, error) {
	return d.stringColumn(`SELECT DISTINCT l.course_id
		FROM lookuptable_study_course l
		JOIN study_programs p ON p.study_id = l.study_id
		WHERE p.study_title = $1
		ORDER BY l.course_id`, title)
}

// LocationName resolves a location id to its display name.
func (d *DB) LocationName(locationID int) (string, error) {
	var name string
	err := d.conn.QueryRow(`SELECT location_name FROM study_place WHERE location_id = $1`, locationID).Scan(&name)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("location %d not found", locationID)
	}
	if err != nil {
		if logger != nil {
			logger.Error("Location lookup failed", "error", err, "location_id", locationID)
		}
		return "", fmt.Errorf("looking up location: %w", err)
	}
	return name, nil
}

// ExecuteQuery runs an arbitrary SQL query and returns the rows as maps.
// Exposed for the operator-facing query and schema commands only; the agent
// tool surface sticks to the typed accessors above.
func (d *DB) ExecuteQuery(query string) ([]map[string]any, error) {
	rows, err := d.conn.Query(query)
	if err != nil {
		if logger != nil {
			logger.Error("Query execution failed", "error", err, "query", query)
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		pointers := make([]any, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// stringColumn runs a single-column query and collects the non-null values.
func (d *DB) stringColumn(query string, args ...any) ([]string, error) {
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		if logger != nil {
			logger.Error("Query failed", "error", err, "query", query)
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value sql.NullString
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if value.Valid {
			values = append(values, value.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// fieldValues selects the requested columns for one row addressed by keyCol.
// Column names come from user input, so they are checked against the actual
// table columns before being spliced into the statement.
func (d *DB) fieldValues(table, keyCol, key string, fields []string) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields requested")
	}

	cols, err := d.tableColumns(table)
	if err != nil {
		return nil, err
	}
	valid := make(map[string]bool, len(cols))
	for _, col := range cols {
		valid[col] = true
	}
	for _, field := range fields {
		if !valid[field] {
			return nil, fmt.Errorf("unknown field %q", field)
		}
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		joinIdentifiers(fields), table, keyCol)

	values := make([]any, len(fields))
	pointers := make([]any, len(fields))
	for i := range values {
		pointers[i] = &values[i]
	}

	err = d.conn.QueryRow(query, key).Scan(pointers...)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s %q not found", keyCol, key)
	}
	if err != nil {
		if logger != nil {
			logger.Error("Field value query failed", "error", err, "table", table, "key", key)
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}

	result := make(map[string]any, len(fields))
	for i, field := range fields {
		result[field] = values[i]
	}
	return result, nil
}

// tableColumns reads a table's column names via PRAGMA table_info.
func (d *DB) tableColumns(table string) ([]string, error) {
	rows, err := d.ExecuteQuery(fmt.Sprintf("PRAGMA table_info('%s')", table))
	if err != nil {
		return nil, fmt.Errorf("reading schema for %s: %w", table, err)
	}
	cols := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row["name"].(string); ok {
			cols = append(cols, name)
		}
	}
	return cols, nil
}

func joinIdentifiers(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += `"` + f + `"`
	}
	return out
}
