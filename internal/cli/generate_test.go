package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColinPollard/ToolPathGen/internal/journal"
	"github.com/ColinPollard/ToolPathGen/internal/testutil"
)

func TestGenerate_BoundaryScenario(t *testing.T) {
	dir := t.TempDir()
	source := testutil.WriteSource(t, dir, "line.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")
	dest := t.TempDir()

	rootOpts := &RootOptions{Format: "text"}
	out, _, err := execute(t, NewGenerateCommand(rootOpts), source, dest)
	require.NoError(t, err)

	assert.Contains(t, out, "Successfully generated. Estimated time: 5.00 s. Machine path steps: 5.")
	assert.Contains(t, out, filepath.Join(dest, "X.csv"))

	for name, want := range map[string]string{
		"X.csv": "0,0,0,0,0\n",
		"Y.csv": "0,0,0,0,0\n",
		"Z.csv": "0,1,2,3,4\n",
	} {
		data, err := os.ReadFile(filepath.Join(dest, name))
		require.NoError(t, err)
		assert.Equal(t, want, string(data), name)
	}
}

func TestGenerate_JSON(t *testing.T) {
	dir := t.TempDir()
	source := testutil.WriteSource(t, dir, "line.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")
	dest := t.TempDir()

	rootOpts := &RootOptions{Format: "json"}
	out, _, err := execute(t, NewGenerateCommand(rootOpts), source, dest)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.RunID, "run id is only echoed when journaling")

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, source, data["source"])
	assert.Equal(t, 5.0, data["estimated_time_seconds"])
	assert.Equal(t, 5.0, data["total_points"])
	files, ok := data["files"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dest, "Z.csv"), files["z"])
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		points   []string
		wantCode string
		wantExit int
	}{
		{"malformed header", "abc", []string{"0,0,0", "0,0,5"}, ErrCodeHeader, ExitCommandError},
		{"bad key point", testutil.BoundaryHeader, []string{"0,0,0", "0,zero,5"}, ErrCodeNumericField, ExitCommandError},
		{"short key point", testutil.BoundaryHeader, []string{"0,0,0", "0,5"}, ErrCodeKeyPoint, ExitCommandError},
		{"too few key points", testutil.BoundaryHeader, []string{"0,0,0"}, ErrCodeTooFewPoints, ExitFailure},
		{"invalid parameters", "10,1,0,1,0", []string{"0,0,0", "0,0,5"}, ErrCodeParameters, ExitFailure},
		{"point budget", "4,1,0,1,1", []string{"0,0,0", "0,0,5"}, ErrCodePointBudget, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := testutil.WriteSource(t, t.TempDir(), "in.csv", tt.header, tt.points...)
			dest := t.TempDir()

			rootOpts := &RootOptions{Format: "json"}
			out, _, err := execute(t, NewGenerateCommand(rootOpts), source, dest)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))

			resp := decodeResponse(t, out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)

			entries, err := os.ReadDir(dest)
			require.NoError(t, err)
			assert.Empty(t, entries, "no axis files on failure")
		})
	}
}

func TestGenerate_PointBudgetText(t *testing.T) {
	source := testutil.WriteSource(t, t.TempDir(), "in.csv", "4,1,0,1,1", "0,0,0", "0,0,5")

	rootOpts := &RootOptions{Format: "text"}
	out, _, err := execute(t, NewGenerateCommand(rootOpts), source, t.TempDir())
	require.Error(t, err)

	assert.Contains(t, out, "Error [E106]")
	assert.Contains(t, out, "increase the time step")
}

func TestGenerate_MissingSourceAndDestination(t *testing.T) {
	t.Run("missing source file", func(t *testing.T) {
		rootOpts := &RootOptions{Format: "json"}
		out, _, err := execute(t, NewGenerateCommand(rootOpts), filepath.Join(t.TempDir(), "nope.csv"), t.TempDir())
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Equal(t, ErrCodeSourceRead, decodeResponse(t, out).Error.Code)
	})

	t.Run("missing destination directory", func(t *testing.T) {
		source := testutil.WriteSource(t, t.TempDir(), "in.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")
		rootOpts := &RootOptions{Format: "json"}
		out, _, err := execute(t, NewGenerateCommand(rootOpts), source, filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Equal(t, ErrCodeDestWrite, decodeResponse(t, out).Error.Code)
	})

	t.Run("arguments required without interactive", func(t *testing.T) {
		rootOpts := &RootOptions{Format: "json"}
		out, _, err := execute(t, NewGenerateCommand(rootOpts), "in.csv")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Equal(t, ErrCodeMissingArg, decodeResponse(t, out).Error.Code)
	})
}

func TestGenerate_Interactive(t *testing.T) {
	source := testutil.WriteSource(t, t.TempDir(), "in.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")
	dest := t.TempDir()

	prompter := &stubPrompter{inputs: []string{" " + source + " ", dest}}
	rootOpts := &RootOptions{Format: "text", Prompter: prompter}
	out, _, err := execute(t, NewGenerateCommand(rootOpts), "--interactive")
	require.NoError(t, err)

	assert.Equal(t, []string{"Key point file:", "Output directory:"}, prompter.asked)
	assert.Contains(t, out, "Machine path steps: 5.")
	assert.FileExists(t, filepath.Join(dest, "X.csv"))
}

func TestGenerate_InteractivePromptsOnlyForMissing(t *testing.T) {
	source := testutil.WriteSource(t, t.TempDir(), "in.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")
	dest := t.TempDir()

	prompter := &stubPrompter{inputs: []string{dest}}
	rootOpts := &RootOptions{Format: "text", Prompter: prompter}
	_, _, err := execute(t, NewGenerateCommand(rootOpts), source, "-i")
	require.NoError(t, err)
	assert.Equal(t, []string{"Output directory:"}, prompter.asked)
}

func TestGenerate_InteractiveReplaceDeclined(t *testing.T) {
	source := testutil.WriteSource(t, t.TempDir(), "in.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")
	dest := t.TempDir()
	existing := filepath.Join(dest, "X.csv")
	require.NoError(t, os.WriteFile(existing, []byte("keep me\n"), 0644))

	prompter := &stubPrompter{confirms: []bool{false}}
	rootOpts := &RootOptions{Format: "json", Prompter: prompter}
	out, _, err := execute(t, NewGenerateCommand(rootOpts), source, dest, "--interactive")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeCancelled, decodeResponse(t, out).Error.Code)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", string(data))
	assert.NoFileExists(t, filepath.Join(dest, "Y.csv"))
}

func TestGenerate_InteractiveReplaceAccepted(t *testing.T) {
	source := testutil.WriteSource(t, t.TempDir(), "in.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "Z.csv"), []byte("old\n"), 0644))

	prompter := &stubPrompter{confirms: []bool{true}}
	rootOpts := &RootOptions{Format: "text", Prompter: prompter}
	_, _, err := execute(t, NewGenerateCommand(rootOpts), source, dest, "--interactive")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "Z.csv"))
	require.NoError(t, err)
	assert.Equal(t, "0,1,2,3,4\n", string(data))
}

func TestGenerate_InteractivePromptFails(t *testing.T) {
	prompter := &stubPrompter{err: errors.New("interrupt")}
	rootOpts := &RootOptions{Format: "json", Prompter: prompter}
	out, _, err := execute(t, NewGenerateCommand(rootOpts), "--interactive")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodePrompt, decodeResponse(t, out).Error.Code)
}

func TestGenerate_ConfigOutputOptions(t *testing.T) {
	dir := t.TempDir()
	source := testutil.WriteSource(t, dir, "in.csv", "100,1,0,0.1,3", "0,0,0", "1,0,0")
	config := filepath.Join(dir, "toolpathgen.yaml")
	require.NoError(t, os.WriteFile(config, []byte("output:\n  extension: .txt\n  precision: 2\n"), 0644))
	dest := t.TempDir()

	rootOpts := &RootOptions{Format: "text", Config: config}
	_, _, err := execute(t, NewGenerateCommand(rootOpts), source, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "X.txt"))
	require.NoError(t, err)
	assert.Equal(t, "0,0.33,0.67\n", string(data))
	assert.NoFileExists(t, filepath.Join(dest, "X.csv"))
}

func TestGenerate_BadConfig(t *testing.T) {
	config := filepath.Join(t.TempDir(), "toolpathgen.yaml")
	require.NoError(t, os.WriteFile(config, []byte("output:\n  extension: csv\n"), 0644))

	rootOpts := &RootOptions{Format: "json", Config: config}
	out, _, err := execute(t, NewGenerateCommand(rootOpts), "in.csv", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeConfig, decodeResponse(t, out).Error.Code)
}

func TestGenerate_RecordsRuns(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	clock := testutil.NewStepClock(start, time.Second)

	good := testutil.WriteSource(t, dir, "good.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")
	bad := testutil.WriteSource(t, dir, "bad.csv", "4,1,0,1,1", "0,0,0", "0,0,5")
	dest := t.TempDir()

	rootOpts := &RootOptions{
		Format:  "json",
		Journal: dbPath,
		RunIDs:  testutil.NewFixedRunIDGenerator("run-ok"),
		Now:     clock.Now,
	}
	out, _, err := execute(t, NewGenerateCommand(rootOpts), good, dest)
	require.NoError(t, err)
	assert.Equal(t, "run-ok", decodeResponse(t, out).RunID)

	rootOpts.RunIDs = testutil.NewFixedRunIDGenerator("run-budget")
	out, _, err = execute(t, NewGenerateCommand(rootOpts), bad, dest)
	require.Error(t, err)
	assert.Equal(t, "run-budget", decodeResponse(t, out).RunID)

	j, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	failed, succeeded := entries[0], entries[1]
	assert.Equal(t, "run-budget", failed.RunID)
	assert.Equal(t, journal.StatusError, failed.Status)
	assert.Equal(t, "POINT_BUDGET_EXCEEDED", failed.ErrorCode)
	assert.Contains(t, failed.ErrorMessage, "increase the time step")
	assert.True(t, start.Add(time.Second).Equal(failed.StartedAt))

	assert.Equal(t, "run-ok", succeeded.RunID)
	assert.Equal(t, "generate", succeeded.Command)
	assert.Equal(t, good, succeeded.Source)
	assert.Equal(t, dest, succeeded.Destination)
	assert.Equal(t, journal.StatusOK, succeeded.Status)
	assert.Empty(t, succeeded.ErrorCode)
	assert.Equal(t, 5, succeeded.TotalPoints)
	assert.Equal(t, 5.0, succeeded.EstimatedTimeSeconds)
	assert.True(t, start.Equal(succeeded.StartedAt))
}

func TestGenerate_JournalFlagOnRoot(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	source := testutil.WriteSource(t, dir, "in.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")

	_, _, err := execute(t, NewRootCommand(), "generate", source, t.TempDir(), "--journal", dbPath, "--format", "json")
	require.NoError(t, err)

	j, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].RunID, 36, "default run ids are UUIDs")
}

func TestGenerate_VerboseLogsToStderr(t *testing.T) {
	source := testutil.WriteSource(t, t.TempDir(), "in.csv", testutil.BoundaryHeader, "0,0,0", "0,0,5")

	rootOpts := &RootOptions{Format: "json", Verbose: true}
	out, errOut, err := execute(t, NewGenerateCommand(rootOpts), source, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "ok", decodeResponse(t, out).Status)
	assert.Contains(t, errOut, "tool path generated")
	assert.Contains(t, errOut, "points=5")
}
