package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles creates each named file in dir. The content is the file name,
// so a moved file can be told apart from a recreated one.
func WriteFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
}

// FixtureFolder creates a temporary folder holding names.
func FixtureFolder(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, dir, names...)
	return dir
}

// ListNames returns the sorted names of the entries in dir, directories
// included.
func ListNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
