package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zimmerman-dev/gfdata/cmd/gfdata/commands"
	"github.com/zimmerman-dev/gfdata/logger"
)

var rootCmd = &cobra.Command{
	Use:   "gfdata",
	Short: "gfdata - Global Fund dataset refresh service",
	Long: `gfdata keeps a local mirror of the published Global Fund CSV datasets.

It periodically fetches each configured dataset, detects content changes by
digest comparison, reloads changed datasets into the local store, and serves
paginated reads plus refresh triggers over an API-key gated HTTP API.

Examples:
  gfdata serve                       # start the HTTP API (and ticker, if configured)
  gfdata refresh                     # refresh every configured dataset once
  gfdata refresh gf_results --force  # re-preprocess one dataset regardless of changes
  gfdata config init                 # write a starter gfdata.toml
  gfdata db stats                    # show stored datasets`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit structured JSON logs")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.RefreshCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
