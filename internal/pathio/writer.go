// Package pathio serializes a generated tool path to one file per axis.
package pathio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ColinPollard/ToolPathGen/internal/toolpath"
)

// DefaultExtension is the suffix of the axis files.
const DefaultExtension = ".csv"

// Options controls axis file naming and number formatting.
type Options struct {
	// Extension is appended to the axis names X, Y and Z.
	Extension string

	// Precision is the number of digits after the decimal point. -1 selects
	// the shortest representation that round-trips.
	Precision int
}

// DefaultOptions returns the options matching the classic X.csv/Y.csv/Z.csv layout.
func DefaultOptions() Options {
	return Options{Extension: DefaultExtension, Precision: -1}
}

// Files lists the written axis files.
type Files struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

// TargetFiles returns the axis file names Write uses for dir.
func TargetFiles(dir string, opts Options) Files {
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	return Files{
		X: filepath.Join(dir, "X"+opts.Extension),
		Y: filepath.Join(dir, "Y"+opts.Extension),
		Z: filepath.Join(dir, "Z"+opts.Extension),
	}
}

// Existing returns the files that are already present on disk.
func (f Files) Existing() []string {
	var out []string
	for _, name := range []string{f.X, f.Y, f.Z} {
		if _, err := os.Stat(name); err == nil {
			out = append(out, name)
		}
	}
	return out
}

// Write stores path as three axis files in dir.
//
// Each file holds a single comma-separated line. Files are written to a
// temporary sibling and renamed into place, so an axis file is either
// complete or untouched. Axis files written before a failure are left in
// place.
func Write(path *toolpath.GeneratedPath, dir string, opts Options) (Files, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Files{}, toolpath.NewDestinationError(dir, err)
	}
	if !info.IsDir() {
		return Files{}, toolpath.NewDestinationError(dir, fmt.Errorf("not a directory"))
	}
	var xs, ys, zs []float64
	if path != nil {
		xs, ys, zs = path.Xs, path.Ys, path.Zs
	}

	files := TargetFiles(dir, opts)
	axes := []struct {
		target string
		values []float64
	}{
		{files.X, xs},
		{files.Y, ys},
		{files.Z, zs},
	}
	for _, axis := range axes {
		if err := writeAxis(axis.target, axis.values, opts.Precision); err != nil {
			return Files{}, err
		}
	}
	return files, nil
}

func writeAxis(target string, values []float64, precision int) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return toolpath.NewDestinationError(target, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := WriteLine(w, values, precision); err != nil {
		return toolpath.NewDestinationError(target, err)
	}
	if err := w.Flush(); err != nil {
		return toolpath.NewDestinationError(target, err)
	}
	if err := tmp.Close(); err != nil {
		return toolpath.NewDestinationError(target, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return toolpath.NewDestinationError(target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return toolpath.NewDestinationError(target, err)
	}
	return nil
}

// WriteLine writes values as one comma-separated line terminated by "\n".
func WriteLine(w *bufio.Writer, values []float64, precision int) error {
	for i, v := range values {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(FormatFloat(v, precision)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// FormatFloat renders f in plain decimal notation.
//
// With precision -1 the shortest round-tripping digits are used. Otherwise f
// is rounded to precision decimals and trailing zeros are dropped.
func FormatFloat(f float64, precision int) string {
	x := strconv.FormatFloat(f, 'f', precision, 64)
	if precision >= 0 && strings.IndexByte(x, '.') != -1 {
		x = strings.TrimRight(x, "0")
		x = strings.TrimSuffix(x, ".")
	}
	if x == "-0" {
		x = "0"
	}
	return x
}
