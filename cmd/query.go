package cmd

import (
	"github.com/spf13/cobra"
)

var queryString string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the database (DuckDB SQL)",
	Long: `Execute the requested QUERY against the DuckDB database.
The query can be any valid DuckDB SQL query, including SELECT, DESCRIBE, SHOW TABLES, etc.

Examples:
  fagskolen query --sql "SELECT study_title, credits FROM study_programs LIMIT 5"
  fagskolen query --sql "SELECT COUNT(*) AS total FROM courses"
  fagskolen query --sql "SHOW TABLES"`,
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(func(db DBInterface) (any, error) {
			return db.ExecuteQuery(queryString)
		})
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryString, "sql", "q", "", "SQL query to execute (required)")
	_ = queryCmd.MarkFlagRequired("sql")
	rootCmd.AddCommand(queryCmd)
}
