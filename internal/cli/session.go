package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColinPollard/ToolPathGen/internal/config"
	"github.com/ColinPollard/ToolPathGen/internal/journal"
	"github.com/ColinPollard/ToolPathGen/internal/toolpath"
)

// session bundles the per-invocation state shared by all commands: settings,
// logger, output formatter and the optional run journal.
type session struct {
	cfg       config.Config
	logger    *slog.Logger
	formatter *OutputFormatter
	journal   *journal.Journal
	runID     string
	now       func() time.Time
}

// newSession loads settings and opens the journal if one is configured.
// Failures are reported through the formatter and returned as ExitError.
func newSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			_ = formatter.Error(ErrCodeConfig, err.Error(), map[string]string{"config": opts.Config})
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if opts.Journal != "" {
		cfg.Journal.Path = opts.Journal
	}

	// Configure logging based on settings; --verbose always wins.
	level, _ := cfg.Log.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})

	ids := opts.RunIDs
	if ids == nil {
		ids = journal.UUIDv7Generator{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &session{
		cfg:       cfg,
		formatter: formatter,
		runID:     ids.Generate(),
		now:       now,
	}
	s.logger = slog.New(handler).With("run_id", s.runID)

	if cfg.Journal.Path != "" {
		s.logger.Debug("opening journal", "path", cfg.Journal.Path)
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), map[string]string{"journal": cfg.Journal.Path})
			return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		s.journal = j
		formatter.RunID = s.runID
	}

	return s, nil
}

// Close releases the journal.
func (s *session) Close() {
	if s.journal == nil {
		return
	}
	if err := s.journal.Close(); err != nil {
		s.logger.Error("error closing journal", "error", err)
	}
}

// record journals one finished run. Journal failures are logged, never
// turned into run failures.
func (s *session) record(ctx context.Context, e journal.Entry, runErr error) {
	if s.journal == nil {
		return
	}
	e.RunID = s.runID
	e.Status = journal.StatusOK
	if runErr != nil {
		e.Status = journal.StatusError
		e.ErrorCode = string(toolpath.CodeOf(runErr))
		e.ErrorMessage = runErr.Error()
	}
	if err := s.journal.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record run", "error", err)
		return
	}
	s.formatter.VerboseLog("Recorded run %s in %s", s.runID, s.cfg.Journal.Path)
}

// fail reports a run error and converts it to an ExitError.
func (s *session) fail(message string, err error) error {
	code, exit := classifyRunError(err)
	s.logger.Debug(message, "error", err)
	_ = s.formatter.Error(code, err.Error(), runErrorDetails(err))
	return WrapExitError(exit, message, err)
}
