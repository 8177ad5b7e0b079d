package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zimmerman-dev/gfdata/internal/version"
)

// VersionCmd prints the build version
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gfdata version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gfdata", version.String())
	},
}
