// Command dtc is the decision-table compiler's CLI front end (spec §6):
// `dtc [-q] <file> [<file>...]`, compiling one or more RFC-4180 decision
// tables into a single pseudocode program on stdout.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gdavidbutler/decisionTableCompiler/compiler"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var quick bool

	cmd := &cobra.Command{
		Use:           "dtc [-q] <file> [<file>...]",
		Short:         "Compile RFC-4180 decision tables into a pseudocode decision program",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := compiler.NewStderrLogger()
			defer func() { _ = log.Sync() }()

			err := compiler.Compile(args, openFile, cmd.OutOrStdout(), compiler.Options{
				Quick:  quick,
				Logger: log,
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", os.Args[0], err)
				return err
			}

			return nil
		},
	}
	cmd.Flags().BoolVarP(&quick, "quick", "q", false, "use the heuristic search (first complete decision found, not necessarily minimum depth)")

	return cmd
}

func openFile(name string) (io.Reader, error) {
	return os.Open(name)
}
