package cmd

import (
	"github.com/spf13/cobra"
)

var (
	dataDir string
	rootCmd = &cobra.Command{
		Use:   "fagskolen",
		Short: "Fagskolen i Viken - scrape and explore the study catalog",
		Long: `Fagskolen is a CLI for scraping the Fagskolen i Viken study catalog,
loading it into a local DuckDB database and querying it.

Typical workflow:
  fagskolen scrape        # fetch the catalog into JSON unit files
  fagskolen load          # upsert the unit files into the database
  fagskolen programs      # query the loaded catalog

All query commands print a JSON envelope with "status" and either
"result" or "error_message".`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "tmpdata/", "Directory for the database, unit files and logs")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
