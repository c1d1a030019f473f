package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queryOrTable string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the contents of a table or query",
	Long: `The SUMMARIZE command can be used to easily compute a number of aggregates over a table or a query.
The SUMMARIZE command launches a query that computes a number of aggregates over all columns
(min, max, approx_unique, avg, std, q25, q50, q75, count), and returns these along with the column name,
column type, and the percentage of NULL values in the column.
Note that the quantiles and percentiles are approximate values.

To summarize the contents of a table, pass a table name:
  fagskolen summarize --table study_programs

To summarize a query, pass a query:
  fagskolen summarize --query "SELECT * FROM study_programs WHERE credits >= 60"

Examples:
  fagskolen summarize --table courses
  fagskolen summarize --table study_programs
  fagskolen summarize --query "SELECT * FROM study_programs WHERE location_id = 4"`,
	Run: func(cmd *cobra.Command, args []string) {
		if queryOrTable == "" {
			HandleError(fmt.Errorf("table or query is required"), "Missing parameter")
		}

		runQuery(func(db DBInterface) (any, error) {
			return db.ExecuteQuery(fmt.Sprintf("SUMMARIZE %s", queryOrTable))
		})
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&queryOrTable, "table", "t", "", "Table name to summarize")
	summarizeCmd.Flags().StringVarP(&queryOrTable, "query", "q", "", "Query to summarize (alias for --table)")
	rootCmd.AddCommand(summarizeCmd)
}
