package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/assessment-recommender/internal/heuristics"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the version of the built-in heuristic tables",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s\n", app, version)
		if maps, err := heuristics.Default(); err == nil {
			fmt.Printf("heuristics version: %s\n", maps.Version)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
