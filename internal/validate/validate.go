package validate

import (
	"strconv"
	"strings"
)

// Title validates a category or item title. Titles are stored in an
// 80-char column, matching the original schema.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Description validates an item description; required but unbounded.
func Description(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ID parses a numeric route parameter. Row ids start at 1.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
