// Package cli implements the listingmatch command-line surface: a cobra
// root command with a run subcommand that drives one batch pipeline
// invocation, mirroring the teacher's root-command-plus-persistent-flags
// shape.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns a process exit code: 0 on success,
// non-zero on any I/O or parse failure, matching spec.md's exit-code
// contract.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "listingmatch",
		Short:         "Entity-resolution pipeline for retailer listings",
		Long:          "Assigns third-party retailer listings to a canonical product catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the listingmatch version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "listingmatch %s (%s)\n", version, commit)
			return nil
		},
	}
}
