package commands

import (
	"fmt"

	"noticeboard-migrate/lib/serviceutil"
	"noticeboard-migrate/services/noticeboard"

	"github.com/spf13/cobra"
)

var fixDatesCache *string

func init() {
	fixDatesCache = fixDatesCmd.Flags().String("cache", "", "Optional sqlite page cache, reused across runs.")
	rootCmd.AddCommand(fixDatesCmd)
}

var fixDatesCmd = &cobra.Command{
	Use:   "fix-dates [--cache <pages.db>]",
	Short: "Patches stored publish dates from the site's sitemap, scraping category pages when coverage is thin.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		orch := noticeboard.Orchestrator{
			Site:  newSiteClient(ctx, cfg, *fixDatesCache),
			Store: newStoreClient(cfg),
		}

		summary, err := orch.FixDates(ctx)
		if err != nil {
			serviceutil.Fatal("fix-dates failed", err)
		}
		fmt.Println(summary.Render())
	},
}
