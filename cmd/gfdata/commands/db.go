package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zimmerman-dev/gfdata/datastore"
)

// DbCmd groups database maintenance subcommands
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		return database.Close()
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored datasets and their row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		infos, err := datastore.NewStore(database).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No datasets stored yet.")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%-50s %8d rows  updated %s\n", info.Name, info.RowCount, info.UpdatedAt)
		}
		return nil
	},
}

func init() {
	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbStatsCmd)
}
