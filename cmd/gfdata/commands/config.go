package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zimmerman-dev/gfdata/config"
)

// ConfigCmd groups configuration inspection and scaffolding
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and scaffold configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rendered, err := config.Render(cfg)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "gfdata.toml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteFile(config.Default(), path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}
