package cmd

import (
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load scraped unit files into the database",
	Long: `Load every JSON unit file from the data directory into the DuckDB
database. Loading is idempotent: programs and courses are upserted by their
identifiers, so re-running load after a fresh scrape refreshes the data
without duplicating rows.

Example:
  fagskolen load`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := RunLoad(dataDir); err != nil {
			HandleError(err, "Load failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
