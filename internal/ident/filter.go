package ident

import (
	"path/filepath"
	"strings"
)

// Filter decides whether a filename is in scope before pattern matching.
type Filter func(filename string) bool

// PrefixFilter accepts names starting with prefix, ignoring case.
// An empty prefix accepts everything.
func PrefixFilter(prefix string) Filter {
	p := strings.ToLower(prefix)
	return func(filename string) bool {
		return strings.HasPrefix(strings.ToLower(filename), p)
	}
}

// ExtensionFilter accepts names whose extension is one of exts, ignoring
// case. Extensions may be given with or without the leading dot.
// No extensions accepts everything.
func ExtensionFilter(exts ...string) Filter {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return func(filename string) bool {
		if len(set) == 0 {
			return true
		}
		_, ok := set[strings.ToLower(filepath.Ext(filename))]
		return ok
	}
}

// All combines filters; nil filters are ignored.
func All(filters ...Filter) Filter {
	return func(filename string) bool {
		for _, f := range filters {
			if f != nil && !f(filename) {
				return false
			}
		}
		return true
	}
}
