// Package utils holds tiny helpers shared across layers, with no domain
// knowledge of their own.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 int, returning def when s is empty or
// unparseable. Optional numeric query parameters, like the history list
// limit, arrive as strings; this keeps their handling to one line.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
