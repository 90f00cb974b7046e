// Package job runs the load → generate → write pipeline for one source.
//
// Run and Check hold no state between calls; each call builds its own
// parameters, key points and path and drops them on return.
package job

import (
	"io"
	"log/slog"
	"time"

	"github.com/ColinPollard/ToolPathGen/internal/keypoint"
	"github.com/ColinPollard/ToolPathGen/internal/pathio"
	"github.com/ColinPollard/ToolPathGen/internal/toolpath"
)

// Options configures a run.
type Options struct {
	// Output controls axis file naming and formatting.
	Output pathio.Options

	// Logger receives stage diagnostics at debug level. Nil discards them.
	Logger *slog.Logger
}

// Result is the outcome of a successful run.
type Result struct {
	Summary toolpath.RunSummary
	Files   pathio.Files
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// Run loads source, generates the tool path and writes the axis files into
// destination. The first failure aborts the run and is returned unchanged.
func Run(source, destination string, opts Options) (*Result, error) {
	log := opts.logger().With("source", source, "destination", destination)

	path, summary, err := generate(source, log)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	files, err := pathio.Write(path, destination, opts.Output)
	if err != nil {
		return nil, err
	}
	log.Debug("axis files written", "x", files.X, "y", files.Y, "z", files.Z, "elapsed", time.Since(start))

	return &Result{Summary: summary, Files: files}, nil
}

// Check loads source and generates the tool path without writing anything.
func Check(source string, opts Options) (toolpath.RunSummary, error) {
	_, summary, err := generate(source, opts.logger().With("source", source))
	if err != nil {
		return toolpath.RunSummary{}, err
	}
	return summary, nil
}

func generate(source string, log *slog.Logger) (*toolpath.GeneratedPath, toolpath.RunSummary, error) {
	start := time.Now()
	params, points, err := keypoint.Load(source)
	if err != nil {
		return nil, toolpath.RunSummary{}, err
	}
	log.Debug("key points loaded",
		"key_points", len(points),
		"max_points", params.MaxPoints,
		"passes", params.NumPasses,
		"elapsed", time.Since(start))

	start = time.Now()
	path, summary, err := toolpath.Generate(params, points)
	if err != nil {
		return nil, toolpath.RunSummary{}, err
	}
	log.Debug("tool path generated",
		"points", summary.TotalPoints,
		"estimated_time_s", summary.EstimatedTimeSeconds,
		"elapsed", time.Since(start))

	return path, summary, nil
}
