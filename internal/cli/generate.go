package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ColinPollard/ToolPathGen/internal/job"
	"github.com/ColinPollard/ToolPathGen/internal/journal"
	"github.com/ColinPollard/ToolPathGen/internal/pathio"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Interactive bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <source> <destination>",
		Short: "Generate axis files from a key point file",
		Long: `Generate a time-stepped tool path from a key point file.

The source file is read, the path between its key points is sampled for every
pass, and X, Y and Z axis files are written into the destination directory.
Existing axis files are replaced.

With --interactive, missing arguments are asked for on the terminal and
replacing existing axis files must be confirmed.

Example:
  toolpathgen generate ./square.csv ./out
  toolpathgen generate --interactive
  toolpathgen generate ./square.csv ./out --journal runs.db --format json`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "prompt for missing paths")

	return cmd
}

func runGenerate(opts *GenerateOptions, args []string, cmd *cobra.Command) error {
	s, err := newSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	source, destination, err := resolveGeneratePaths(opts, s, args)
	if err != nil {
		return err
	}

	outputOpts := s.cfg.OutputOptions()
	if opts.Interactive {
		if existing := pathio.TargetFiles(destination, outputOpts).Existing(); len(existing) > 0 {
			ok, err := opts.prompter().Confirm("Replace "+strings.Join(existing, ", ")+"?", false)
			if err != nil {
				_ = s.formatter.Error(ErrCodePrompt, err.Error(), nil)
				return WrapExitError(ExitCommandError, "prompt failed", err)
			}
			if !ok {
				_ = s.formatter.Error(ErrCodeCancelled, "generation cancelled; existing axis files kept", nil)
				return NewExitError(ExitFailure, "generation cancelled")
			}
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	entry := journal.Entry{
		Command:     "generate",
		Source:      source,
		Destination: destination,
		StartedAt:   s.now(),
	}

	s.logger.Debug("generating", "source", source, "destination", destination)
	result, err := job.Run(source, destination, job.Options{Output: outputOpts, Logger: s.logger})
	if err != nil {
		s.record(ctx, entry, err)
		return s.fail("generation failed", err)
	}

	entry.EstimatedTimeSeconds = result.Summary.EstimatedTimeSeconds
	entry.TotalPoints = result.Summary.TotalPoints
	s.record(ctx, entry, nil)

	return s.formatter.Success(newSummaryView("Successfully generated", source, result.Summary, &result.Files))
}

// resolveGeneratePaths takes source and destination from args, prompting
// for the missing ones in interactive mode.
func resolveGeneratePaths(opts *GenerateOptions, s *session, args []string) (string, string, error) {
	var source, destination string
	if len(args) > 0 {
		source = args[0]
	}
	if len(args) > 1 {
		destination = args[1]
	}

	if !opts.Interactive {
		if source == "" || destination == "" {
			_ = s.formatter.Error(ErrCodeMissingArg, "source and destination are required (or use --interactive)", nil)
			return "", "", NewExitError(ExitCommandError, "missing arguments")
		}
		return source, destination, nil
	}

	prompts := []struct {
		target  *string
		message string
		help    string
	}{
		{&source, "Key point file:", "CSV file with the run header followed by x,y,z key points"},
		{&destination, "Output directory:", "Existing directory that receives the X, Y and Z axis files"},
	}
	for _, p := range prompts {
		if *p.target != "" {
			continue
		}
		answer, err := opts.prompter().Input(p.message, p.help)
		if err != nil {
			_ = s.formatter.Error(ErrCodePrompt, err.Error(), nil)
			return "", "", WrapExitError(ExitCommandError, "prompt failed", err)
		}
		*p.target = strings.TrimSpace(answer)
	}
	return source, destination, nil
}
