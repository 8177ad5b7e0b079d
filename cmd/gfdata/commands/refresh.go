package commands

import (
	"github.com/spf13/cobra"
)

// RefreshCmd runs a one-off refresh from the command line, without the server
var RefreshCmd = &cobra.Command{
	Use:   "refresh [dataset]",
	Short: "Fetch and load configured datasets",
	Long: `Fetch each configured dataset, compare its content digest against the
recorded metadata, and reload datasets whose content changed. With a dataset
name, only that dataset is refreshed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRefresh,
}

var refreshForce bool

func init() {
	RefreshCmd.Flags().BoolVar(&refreshForce, "force", false, "Reload even when content is unchanged")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	orchestrator := buildOrchestrator(cfg, database)

	if len(args) == 1 {
		return orchestrator.RefreshOne(cmd.Context(), args[0], refreshForce)
	}
	return orchestrator.RefreshAll(cmd.Context())
}
