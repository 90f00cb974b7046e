package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColinPollard/ToolPathGen/internal/journal"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // optional YAML settings file
	Journal string // optional SQLite run history; overrides the config file

	// RunIDs allows overriding the journal run id generator (for testing).
	// If nil, defaults to journal.UUIDv7Generator.
	RunIDs journal.RunIDGenerator

	// Now allows overriding the wall clock (for testing).
	// If nil, defaults to time.Now.
	Now func() time.Time

	// Prompter allows overriding interactive prompts (for testing).
	// If nil, defaults to terminal prompts.
	Prompter Prompter
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the toolpathgen CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "toolpathgen",
		Short: "Generate time-stepped tool paths from key points",
		Long: `Generate dense, time-stepped tool paths for CNC machines and plotters.

A source file holds the run header (maxPoints,numPasses,passHeight,timeStep,velocity)
followed by one x,y,z key point per line. The path between key points is sampled
at the given time step and written as one comma-separated file per axis.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to YAML settings file")
	cmd.PersistentFlags().StringVar(&opts.Journal, "journal", "", "path to SQLite run history (enables journaling)")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
