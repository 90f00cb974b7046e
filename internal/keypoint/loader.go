// Package keypoint reads run parameters and key points from comma-separated
// text.
//
// The first line is the header:
//
//	maxPoints,numPasses,passHeight,timeStep,velocity
//
// and every following non-empty line is one key point:
//
//	x,y,z
//
// Extra fields on either kind of line are ignored.
package keypoint

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ColinPollard/ToolPathGen/internal/toolpath"
)

const (
	headerFields   = 5
	keyPointFields = 3

	// maxLineBytes bounds a single input line.
	maxLineBytes = 1 << 20
)

var headerNames = [headerFields]string{"maxPoints", "numPasses", "passHeight", "timeStep", "velocity"}

var axisNames = [keyPointFields]string{"x", "y", "z"}

// Load opens the file at path and parses it with Parse.
// The file is closed before Load returns.
func Load(path string) (toolpath.RunParameters, []toolpath.KeyPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return toolpath.RunParameters{}, nil, toolpath.NewSourceError(path, err)
	}
	defer f.Close()

	return parse(f, path)
}

// Parse reads the header and key points from r.
//
// No point-count validation happens here; Generate checks that.
func Parse(r io.Reader) (toolpath.RunParameters, []toolpath.KeyPoint, error) {
	return parse(r, "input")
}

// parse does the work of Parse; name identifies the source in read errors.
func parse(r io.Reader, name string) (toolpath.RunParameters, []toolpath.KeyPoint, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return toolpath.RunParameters{}, nil, toolpath.NewSourceError(name, err)
		}
		return toolpath.RunParameters{}, nil, &toolpath.Error{
			Code:    toolpath.ErrCodeMalformedHeader,
			Message: "input is empty",
			Line:    1,
		}
	}

	// Editors on Windows like to prepend a byte order mark.
	header := strings.TrimPrefix(scanner.Text(), "\ufeff")
	params, err := parseHeader(header)
	if err != nil {
		return toolpath.RunParameters{}, nil, err
	}

	var points []toolpath.KeyPoint
	line := 1
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		p, err := parseKeyPoint(text, line)
		if err != nil {
			return toolpath.RunParameters{}, nil, err
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return toolpath.RunParameters{}, nil, toolpath.NewSourceError(name, err)
	}

	return params, points, nil
}

func parseHeader(text string) (toolpath.RunParameters, error) {
	fields := strings.Split(text, ",")
	if len(fields) < headerFields {
		return toolpath.RunParameters{}, &toolpath.Error{
			Code: toolpath.ErrCodeMalformedHeader,
			Message: fmt.Sprintf("expected %d fields (%s), found %d",
				headerFields, strings.Join(headerNames[:], ", "), len(fields)),
			Line: 1,
		}
	}

	var (
		params toolpath.RunParameters
		err    error
	)
	if params.MaxPoints, err = parseInt(fields[0], 1, headerNames[0]); err != nil {
		return toolpath.RunParameters{}, err
	}
	if params.NumPasses, err = parseInt(fields[1], 1, headerNames[1]); err != nil {
		return toolpath.RunParameters{}, err
	}
	if params.PassHeight, err = parseReal(fields[2], 1, headerNames[2]); err != nil {
		return toolpath.RunParameters{}, err
	}
	if params.TimeStep, err = parseReal(fields[3], 1, headerNames[3]); err != nil {
		return toolpath.RunParameters{}, err
	}
	if params.Velocity, err = parseReal(fields[4], 1, headerNames[4]); err != nil {
		return toolpath.RunParameters{}, err
	}
	return params, nil
}

func parseKeyPoint(text string, line int) (toolpath.KeyPoint, error) {
	fields := strings.Split(text, ",")
	if len(fields) < keyPointFields {
		return toolpath.KeyPoint{}, &toolpath.Error{
			Code:    toolpath.ErrCodeMalformedKeyPoint,
			Message: fmt.Sprintf("expected %d fields (x, y, z), found %d", keyPointFields, len(fields)),
			Line:    line,
		}
	}

	var coords [keyPointFields]float64
	for i := range coords {
		v, err := parseReal(fields[i], line, axisNames[i])
		if err != nil {
			return toolpath.KeyPoint{}, err
		}
		coords[i] = v
	}
	return toolpath.KeyPoint{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func parseInt(field string, line int, name string) (int, error) {
	s := strings.TrimSpace(field)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, numericError(s, line, name, err)
	}
	return v, nil
}

func parseReal(field string, line int, name string) (float64, error) {
	s := strings.TrimSpace(field)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, numericError(s, line, name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &toolpath.Error{
			Code:    toolpath.ErrCodeInvalidNumericField,
			Message: fmt.Sprintf("%q is not a finite number", s),
			Line:    line,
			Field:   name,
		}
	}
	return v, nil
}

func numericError(s string, line int, name string, err error) *toolpath.Error {
	return &toolpath.Error{
		Code:    toolpath.ErrCodeInvalidNumericField,
		Message: fmt.Sprintf("cannot parse %q", s),
		Line:    line,
		Field:   name,
		Err:     err,
	}
}
