// Package fsutil provides file system helpers shared by the cleanup and
// matrix workflows.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListFiles returns the names of the regular files directly inside dir,
// sorted by name. Symlinks to regular files are included. Subdirectories
// (including the holding folder) and dangling links are skipped.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		} else if !e.Type().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// FindFilesByExtension returns the names of regular files directly inside
// dir whose extension equals ext, ignoring case. Sorted by name.
func FindFilesByExtension(dir, ext string) ([]string, error) {
	if ext == "" {
		panic("extension must not be empty")
	}

	names, err := ListFiles(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range names {
		if strings.EqualFold(filepath.Ext(n), ext) {
			out = append(out, n)
		}
	}
	return out, nil
}

// FindChildFold returns the name of the first entry in dir whose name equals
// name ignoring case. An exact-case match is preferred over other casings.
func FindChildFold(dir, name string, wantDir bool) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, fmt.Errorf("list %s: %w", dir, err)
	}

	found := ""
	for _, e := range entries {
		if wantDir && !e.IsDir() {
			continue
		}
		if e.Name() == name {
			return name, true, nil
		}
		if found == "" && strings.EqualFold(e.Name(), name) {
			found = e.Name()
		}
	}
	return found, found != "", nil
}
