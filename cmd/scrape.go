package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	useBuffer   bool
	scrapeDelay time.Duration
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the study catalog into JSON unit files",
	Long: `Scrape every study program page from fagskolen-viken.no, including each
program's course pages, and write one JSON unit file per program into the
data directory. Run "load" afterwards to upsert the units into the database.

The discovered program URL list is buffered in studies_urls.json; pass
--use-buffer to skip the listing walk and reuse it.

Examples:
  fagskolen scrape
  fagskolen scrape --use-buffer
  fagskolen scrape --delay 1s`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := RunScrape(dataDir, useBuffer, scrapeDelay); err != nil {
			HandleError(err, "Scrape failed")
		}
	},
}

func init() {
	scrapeCmd.Flags().BoolVar(&useBuffer, "use-buffer", false, "Reuse the buffered program URL list")
	scrapeCmd.Flags().DurationVar(&scrapeDelay, "delay", 500*time.Millisecond, "Delay between listing page requests")
	rootCmd.AddCommand(scrapeCmd)
}
