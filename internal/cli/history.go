package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColinPollard/ToolPathGen/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Long: `List runs recorded in the journal, newest first.

The journal is taken from --journal or the journal.path setting.

Example:
  toolpathgen history --journal runs.db
  toolpathgen history --journal runs.db --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs to list (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// Listing is not a run of its own.
	s.formatter.RunID = ""

	if s.journal == nil {
		_ = s.formatter.Error(ErrCodeJournal, "no journal configured; pass --journal or set journal.path", nil)
		return NewExitError(ExitCommandError, "no journal configured")
	}
	if opts.Limit < 0 {
		_ = s.formatter.Error(ErrCodeGeneric, fmt.Sprintf("invalid limit %d: must be >= 0", opts.Limit), nil)
		return NewExitError(ExitCommandError, "invalid limit")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	entries, err := s.journal.Recent(ctx, opts.Limit)
	if err != nil {
		_ = s.formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	return s.formatter.Success(HistoryView{Runs: entries})
}

// HistoryView is the payload of the history command.
type HistoryView struct {
	Runs []journal.Entry `json:"runs"`
}

// String renders the runs as an aligned table.
func (v HistoryView) String() string {
	if len(v.Runs) == 0 {
		return "No runs recorded."
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tCOMMAND\tSTATUS\tPOINTS\tEST. TIME (s)\tSOURCE")
	for _, e := range v.Runs {
		status := e.Status
		if e.ErrorCode != "" {
			status += " (" + e.ErrorCode + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.StartedAt.Local().Format(time.DateTime),
			e.Command,
			status,
			summaryPrinter.Sprintf("%d", e.TotalPoints),
			summaryPrinter.Sprintf("%.2f", e.EstimatedTimeSeconds),
			e.Source)
	}
	_ = w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
