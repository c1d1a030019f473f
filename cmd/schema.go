package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SchemaOutput represents the schema information for a table
type SchemaOutput struct {
	TableName   string       `json:"table_name"`
	ColumnCount int          `json:"column_count"`
	Columns     []ColumnInfo `json:"columns"`
}

// ColumnInfo represents information about a single column
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable string `json:"nullable"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Retrieve a summary of the DuckDB database schema",
	Long: `Retrieve a summary of the local DuckDB database schema.
This command returns information about all tables and their columns in the database.

Examples:
  fagskolen schema`,
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			tables := []string{"study_programs", "courses", "study_place", "lookuptable_study_course"}
			schemas := make([]SchemaOutput, 0, len(tables))

			for _, tableName := range tables {
				schema, err := getTableSchema(db, tableName)
				if err != nil {
					continue
				}
				schemas = append(schemas, schema)
			}
			return schemas, nil
		})
	},
}

// getTableSchema retrieves schema information for a specific table
func getTableSchema(db DBInterface, tableName string) (SchemaOutput, error) {
	query := fmt.Sprintf("PRAGMA table_info('%s')", tableName)
	rows, err := db.ExecuteQuery(query)
	if err != nil {
		return SchemaOutput{}, fmt.Errorf("failed to get schema for table %s: %w", tableName, err)
	}
	if len(rows) == 0 {
		return SchemaOutput{}, fmt.Errorf("table %s does not exist", tableName)
	}

	schema := SchemaOutput{
		TableName: tableName,
		Columns:   []ColumnInfo{},
	}

	for _, row := range rows {
		name, _ := row["name"].(string)
		colType, _ := row["type"].(string)

		nullable := "YES"
		if notnull, ok := row["notnull"].(bool); ok && notnull {
			nullable = "NO"
		}

		schema.Columns = append(schema.Columns, ColumnInfo{
			Name:     name,
			Type:     colType,
			Nullable: nullable,
		})
	}

	schema.ColumnCount = len(schema.Columns)

	return schema, nil
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
