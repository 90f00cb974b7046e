package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ColinPollard/ToolPathGen/internal/toolpath"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Run failure (point budget, too few key points, bad parameters)
	ExitCommandError = 2 // Command error (unreadable source, unwritable destination, malformed input)
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Settings file error
	ErrCodeJournal      = "E003" // Run history error
	ErrCodePrompt       = "E004" // Interactive prompt failed
	ErrCodeMissingArg   = "E005" // Required argument missing
	ErrCodeCancelled    = "E006" // Operator declined to continue
	ErrCodeHeader       = "E101" // MALFORMED_HEADER
	ErrCodeNumericField = "E102" // INVALID_NUMERIC_FIELD
	ErrCodeKeyPoint     = "E103" // MALFORMED_KEY_POINT
	ErrCodeTooFewPoints = "E104" // INSUFFICIENT_KEY_POINTS
	ErrCodeParameters   = "E105" // INVALID_PARAMETERS
	ErrCodePointBudget  = "E106" // POINT_BUDGET_EXCEEDED
	ErrCodeSourceRead   = "E107" // SOURCE_UNREADABLE
	ErrCodeDestWrite    = "E108" // DESTINATION_UNWRITABLE
)

// runErrorCodes maps run failures to CLI error codes and exit codes.
var runErrorCodes = map[toolpath.ErrorCode]struct {
	code string
	exit int
}{
	toolpath.ErrCodeMalformedHeader:       {ErrCodeHeader, ExitCommandError},
	toolpath.ErrCodeInvalidNumericField:   {ErrCodeNumericField, ExitCommandError},
	toolpath.ErrCodeMalformedKeyPoint:     {ErrCodeKeyPoint, ExitCommandError},
	toolpath.ErrCodeInsufficientKeyPoints: {ErrCodeTooFewPoints, ExitFailure},
	toolpath.ErrCodeInvalidParameters:     {ErrCodeParameters, ExitFailure},
	toolpath.ErrCodePointBudgetExceeded:   {ErrCodePointBudget, ExitFailure},
	toolpath.ErrCodeSourceUnreadable:      {ErrCodeSourceRead, ExitCommandError},
	toolpath.ErrCodeDestinationUnwritable: {ErrCodeDestWrite, ExitCommandError},
}

// classifyRunError returns the CLI error code and exit code for a run error.
func classifyRunError(err error) (string, int) {
	if m, ok := runErrorCodes[toolpath.CodeOf(err)]; ok {
		return m.code, m.exit
	}
	return ErrCodeGeneric, ExitFailure
}

// runErrorDetails extracts the location of an input error for verbose and
// JSON output. Returns nil when there is nothing beyond the message.
func runErrorDetails(err error) map[string]any {
	var te *toolpath.Error
	if !errors.As(err, &te) {
		return nil
	}
	details := map[string]any{"kind": string(te.Code)}
	if te.Line > 0 {
		details["line"] = te.Line
	}
	if te.Field != "" {
		details["field"] = te.Field
	}
	return details
}

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	RunID     string // Journal run id, echoed in JSON responses when set
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
	RunID  string    `json:"run_id,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E101", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt.Println.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
			RunID:  f.RunID,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			RunID: f.RunID,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
