// Package cli implements the photocopy command-line interface.
//
// Two commands are provided: compile, which lays out chapter files into book
// pages and runs them through the degradation pipeline, and degrade, which
// applies the pipeline to existing page images. Both support --verbose (-v)
// for debug-level logging via the charmbracelet/log library.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Execute runs the photocopy CLI.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "photocopy",
		Short:        "Compile books into worn photocopied page scans",
		Long:         `Photocopy lays out markdown or HTML chapters into book pages and renders each page as a scan of a repeatedly photocopied book: curled toward the spine, shadowed, smudged, noisy, and slightly rotated.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newDegradeCmd())

	return root.ExecuteContext(ctx)
}
