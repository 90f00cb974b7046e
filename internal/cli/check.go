package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ColinPollard/ToolPathGen/internal/job"
	"github.com/ColinPollard/ToolPathGen/internal/journal"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <source>",
		Short: "Validate a key point file without writing output",
		Long: `Load a key point file and generate its tool path without writing axis files.

Reports the same errors as generate, including the point budget, and prints
the estimated run time and point count on success.

Example:
  toolpathgen check ./square.csv
  toolpathgen check ./square.csv --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, source string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	entry := journal.Entry{
		Command:   "check",
		Source:    source,
		StartedAt: s.now(),
	}

	summary, err := job.Check(source, job.Options{Output: s.cfg.OutputOptions(), Logger: s.logger})
	if err != nil {
		s.record(ctx, entry, err)
		return s.fail("check failed", err)
	}

	entry.EstimatedTimeSeconds = summary.EstimatedTimeSeconds
	entry.TotalPoints = summary.TotalPoints
	s.record(ctx, entry, nil)

	return s.formatter.Success(newSummaryView("Check passed", source, summary, nil))
}
