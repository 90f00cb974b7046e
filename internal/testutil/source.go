package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// BoundaryHeader is the header of the canonical five-sample run.
const BoundaryHeader = "10,1,0,1,1"

// WriteSource writes a key-point source file into dir and returns its path.
// Each point is one "x,y,z" line following the header.
func WriteSource(t *testing.T, dir, name, header string, points ...string) string {
	t.Helper()
	lines := append([]string{header}, points...)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}
