// Package main provides the entry point for the rbset CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rbset/cmd/rbset/commands"
	"github.com/Sumatoshi-tech/rbset/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	err := newRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rbset",
		Short: "rbset - an ordered multiset on a red-black tree",
		Long: `rbset exercises a generic red-black tree.

Commands:
  sort      Sort lines through the tree
  show      Print the red-black shape of a tree
  bench     Run a random insert/remove workload`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(commands.FlagConfig, "", "config file (default: ./rbset.yaml)")
	rootCmd.PersistentFlags().BoolP(commands.FlagVerbose, "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP(commands.FlagQuiet, "q", false, "suppress output")

	// Add commands.
	rootCmd.AddCommand(commands.NewSortCommand())
	rootCmd.AddCommand(commands.NewShowCommand())
	rootCmd.AddCommand(commands.NewBenchCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
