package toolpath

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes run failures.
type ErrorCode string

const (
	// ErrCodeMalformedHeader indicates the header line has fewer than 5 fields
	// or is missing entirely.
	ErrCodeMalformedHeader ErrorCode = "MALFORMED_HEADER"

	// ErrCodeInvalidNumericField indicates a numeric field failed to parse.
	ErrCodeInvalidNumericField ErrorCode = "INVALID_NUMERIC_FIELD"

	// ErrCodeMalformedKeyPoint indicates a key-point line has fewer than 3 fields.
	ErrCodeMalformedKeyPoint ErrorCode = "MALFORMED_KEY_POINT"

	// ErrCodeInsufficientKeyPoints indicates fewer than 2 key points.
	ErrCodeInsufficientKeyPoints ErrorCode = "INSUFFICIENT_KEY_POINTS"

	// ErrCodeInvalidParameters indicates the run parameters are out of range.
	ErrCodeInvalidParameters ErrorCode = "INVALID_PARAMETERS"

	// ErrCodePointBudgetExceeded indicates the run would generate more than
	// MaxPoints samples.
	ErrCodePointBudgetExceeded ErrorCode = "POINT_BUDGET_EXCEEDED"

	// ErrCodeSourceUnreadable indicates the source could not be opened or read.
	ErrCodeSourceUnreadable ErrorCode = "SOURCE_UNREADABLE"

	// ErrCodeDestinationUnwritable indicates an output could not be written.
	ErrCodeDestinationUnwritable ErrorCode = "DESTINATION_UNWRITABLE"
)

// Error is a fatal run error.
//
// Line and Field locate input errors in the source (Line is 1-based, zero
// when not applicable). Err carries the underlying parse or I/O error.
type Error struct {
	Code    ErrorCode
	Message string
	Line    int
	Field   string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.Line > 0 && e.Field != "":
		msg = fmt.Sprintf("%s (line %d, field %s)", msg, e.Line, e.Field)
	case e.Line > 0:
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewInsufficientKeyPointsError creates an error for a path with too few key points.
func NewInsufficientKeyPointsError(have int) *Error {
	return &Error{
		Code:    ErrCodeInsufficientKeyPoints,
		Message: fmt.Sprintf("need at least 2 key points, have %d", have),
	}
}

// NewPointBudgetError creates an error for a run exceeding its point budget.
func NewPointBudgetError(total float64, maxPoints int) *Error {
	return &Error{
		Code:    ErrCodePointBudgetExceeded,
		Message: fmt.Sprintf("generated %.0f points, maximum is %d; increase the time step to reduce points", total, maxPoints),
	}
}

// NewSourceError wraps an I/O failure on the source.
func NewSourceError(path string, err error) *Error {
	return &Error{
		Code:    ErrCodeSourceUnreadable,
		Message: fmt.Sprintf("cannot read %s", path),
		Err:     err,
	}
}

// NewDestinationError wraps an I/O failure on an output.
func NewDestinationError(path string, err error) *Error {
	return &Error{
		Code:    ErrCodeDestinationUnwritable,
		Message: fmt.Sprintf("cannot write %s", path),
		Err:     err,
	}
}
