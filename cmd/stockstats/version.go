package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickgao/stockstats/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stockstats %s\n", version.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", version.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:   %s\n", version.BuildTime)
	},
}
