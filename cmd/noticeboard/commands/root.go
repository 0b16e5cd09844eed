package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath *string

var rootCmd = &cobra.Command{
	Use:   "noticeboard",
	Short: "noticeboard migrates the legacy community noticeboard site into the hosted content store.",
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "Path to the migration config file.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
