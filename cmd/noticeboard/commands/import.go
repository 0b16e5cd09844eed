package commands

import (
	"fmt"

	"noticeboard-migrate/lib/serviceutil"
	"noticeboard-migrate/services/noticeboard"

	"github.com/spf13/cobra"
)

var importRecords *string
var importCache *string

func init() {
	importRecords = importCmd.Flags().String("records", "", "Import from a saved state file instead of crawling.")
	importCache = importCmd.Flags().String("cache", "", "Optional sqlite page cache, reused across runs.")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [--records <records.json>] [--cache <pages.db>]",
	Short: "Imports notices into the content store, crawling first unless a state file is given.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		orch := noticeboard.Orchestrator{
			Site:  newSiteClient(ctx, cfg, *importCache),
			Store: newStoreClient(cfg),
			Lists: cfg.Lists,
		}

		err := noticeboard.EnsureTaxonomy(ctx, orch.Store)
		if err != nil {
			serviceutil.Fatal("failed to ensure taxonomy", err)
		}

		var records []noticeboard.Record
		if *importRecords != "" {
			records, err = noticeboard.LoadRecords(*importRecords)
			if err != nil {
				serviceutil.Fatal("failed to load state file", err)
			}
		} else {
			crawler := noticeboard.Crawler{Client: orch.Site}
			records = crawler.ScrapeAll(ctx)
		}
		records = append(records, noticeboard.AnnouncementRecords(cfg.Announcements)...)
		if len(records) == 0 {
			serviceutil.Fatal("nothing to import", noticeboard.ErrNothingFound)
		}

		summary, err := orch.ImportRecords(ctx, records)
		if err != nil {
			serviceutil.Fatal("import failed", err)
		}
		fmt.Println(summary.Render())
	},
}
