package commands

import (
	"fmt"

	"noticeboard-migrate/lib/serviceutil"
	"noticeboard-migrate/services/noticeboard"

	"github.com/spf13/cobra"
)

var recategorizeRecords *string
var recategorizeCache *string

func init() {
	recategorizeRecords = recategorizeCmd.Flags().String("records", "", "Use a saved state file instead of crawling.")
	recategorizeCache = recategorizeCmd.Flags().String("cache", "", "Optional sqlite page cache, reused across runs.")
	rootCmd.AddCommand(recategorizeCmd)
}

var recategorizeCmd = &cobra.Command{
	Use:   "recategorize [--records <records.json>] [--cache <pages.db>]",
	Short: "Repoints stored notices at the category their source path maps to.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		orch := noticeboard.Orchestrator{
			Site:  newSiteClient(ctx, cfg, *recategorizeCache),
			Store: newStoreClient(cfg),
			Lists: cfg.Lists,
		}

		var records []noticeboard.Record
		var err error
		if *recategorizeRecords != "" {
			records, err = noticeboard.LoadRecords(*recategorizeRecords)
			if err != nil {
				serviceutil.Fatal("failed to load state file", err)
			}
		} else {
			crawler := noticeboard.Crawler{Client: orch.Site}
			records = crawler.ScrapeAll(ctx)
		}
		if len(records) == 0 {
			serviceutil.Fatal("nothing to recategorize", noticeboard.ErrNothingFound)
		}

		summary, err := orch.Recategorize(ctx, records)
		if err != nil {
			serviceutil.Fatal("recategorize failed", err)
		}
		fmt.Println(summary.Render())
	},
}
