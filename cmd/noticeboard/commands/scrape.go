package commands

import (
	"log/slog"
	"time"

	"noticeboard-migrate/lib/serviceutil"
	"noticeboard-migrate/services/noticeboard"

	"github.com/spf13/cobra"
)

var scrapeOut *string
var scrapeCache *string

func init() {
	scrapeOut = scrapeCmd.Flags().String("out", "records.json", "File to write scraped records to.")
	scrapeCache = scrapeCmd.Flags().String("cache", "", "Optional sqlite page cache, reused across runs.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--out <records.json>] [--cache <pages.db>]",
	Short: "Crawls the legacy site and writes extracted records to a state file.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()
		site := newSiteClient(ctx, cfg, *scrapeCache)

		crawler := noticeboard.Crawler{Client: site}

		t1 := time.Now()
		records := crawler.ScrapeAll(ctx)
		t2 := time.Now()

		if len(records) == 0 {
			serviceutil.Fatal("scrape produced no records", noticeboard.ErrNothingFound)
		}
		err := noticeboard.SaveRecords(*scrapeOut, records)
		if err != nil {
			serviceutil.Fatal("failed to write state file", err)
		}
		slog.Info("scrape finished",
			"records", len(records), "out", *scrapeOut, "seconds", t2.Sub(t1).Seconds())
	},
}
