package catalog

import "strings"

// matchGlob reports whether value matches glob, where '*' means "any
// substring". The glob is decomposed into literal segments at '*'
// boundaries: a leading non-empty segment forces a prefix match, a
// trailing non-empty segment forces a suffix match, and middle segments
// must appear in order without overlapping the matched prefix/suffix.
// This is intentionally not a regex engine — spec only needs a single
// wildcard meaning "any substring".
func matchGlob(glob, value string) bool {
	if !strings.Contains(glob, "*") {
		return glob == value
	}

	segments := strings.Split(glob, "*")

	// Empty glob decomposed as a single "" segment around no wildcards is
	// handled above; here segments has at least 2 entries.
	first, last := segments[0], segments[len(segments)-1]
	middle := segments[1 : len(segments)-1]

	pos := 0

	if first != "" {
		if !strings.HasPrefix(value, first) {
			return false
		}
		pos = len(first)
	}

	for _, seg := range middle {
		if seg == "" {
			continue
		}
		idx := strings.Index(value[pos:], seg)
		if idx < 0 {
			return false
		}
		pos += idx + len(seg)
	}

	if last != "" {
		if !strings.HasSuffix(value, last) {
			return false
		}
		if pos > len(value)-len(last) {
			return false
		}
	}

	return true
}

// globSpecificity scores one side of a glob match for specificity
// resolution: 2 for an exact literal (no wildcard at all), 1 for a glob
// containing literal segments alongside '*', 0 for a bare '*'.
func globSpecificity(glob string) int {
	if glob == "*" {
		return 0
	}
	if !strings.Contains(glob, "*") {
		return 2
	}
	return 1
}
