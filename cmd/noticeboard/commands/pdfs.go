package commands

import (
	"errors"
	"fmt"

	"noticeboard-migrate/lib/serviceutil"
	"noticeboard-migrate/services/noticeboard"

	"github.com/spf13/cobra"
)

var pdfsRecords *string

func init() {
	pdfsRecords = migratePdfsCmd.Flags().String("records", "records.json", "State file holding records with PDF links.")
	rootCmd.AddCommand(migratePdfsCmd)
	rootCmd.AddCommand(sitePdfsCmd)
}

var migratePdfsCmd = &cobra.Command{
	Use:   "migrate-pdfs [--records <records.json>]",
	Short: "Uploads still-live PDFs linked from scraped records and attaches them to their notices.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		records, err := noticeboard.LoadRecords(*pdfsRecords)
		if err != nil {
			serviceutil.Fatal("failed to load state file", err)
		}

		orch := noticeboard.Orchestrator{
			Site:  newSiteClient(ctx, cfg, ""),
			Store: newStoreClient(cfg),
			Lists: cfg.Lists,
		}
		summary, err := orch.MigratePdfs(ctx, records)
		if err != nil {
			serviceutil.Fatal("migrate-pdfs failed", err)
		}
		fmt.Println(summary.Render())
	},
}

var sitePdfsCmd = &cobra.Command{
	Use:   "site-pdfs",
	Short: "Pulls curated PDFs out of the legacy admin file manager and links them to matching notices.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
			serviceutil.Fatal("admin credentials missing", errors.New("site-pdfs requires admin.username and admin.password in config"))
		}
		if len(cfg.Pdfs) == 0 {
			serviceutil.Fatal("pdf manifest missing", errors.New("site-pdfs requires a pdfs manifest in config"))
		}

		orch := noticeboard.Orchestrator{
			Site:  newSiteClient(ctx, cfg, ""),
			Store: newStoreClient(cfg),
			Lists: cfg.Lists,
		}
		summary, err := orch.MigrateSitePdfs(ctx, cfg.Pdfs, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			serviceutil.Fatal("site-pdfs failed", err)
		}
		fmt.Println(summary.Render())
	},
}
