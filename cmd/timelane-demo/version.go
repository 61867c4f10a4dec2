package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/timelane-go/internal/demo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of timelane-demo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "timelane-demo version %s\n", demo.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
