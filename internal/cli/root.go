// Package cli implements the magickit command line.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "magickit",
		Short: "Identify files by their magic numbers",
		Long: `magickit identifies files by content rather than by name.

It reads the leading bytes of every file, matches them against a table of
known magic numbers, flags files whose extension disagrees with their
content, scores byte entropy to spot compressed or encrypted data and
fingerprints each file. Identified files can be copied into per-type
folders with collision-free names.

Settings are read from BEAVER_MAGICKIT_* environment variables and can be
overridden with flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewSignaturesCmd())

	return rootCmd
}

// newLogger builds the stderr text logger used by every command.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
