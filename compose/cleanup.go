package compose

import (
	"regexp"
)

// CleanupOptions configures Cleanup.
type CleanupOptions struct {
	// MergeAcrossPunctuation also merges unknown markers separated by punctuation, not
	// only by blanks.
	MergeAcrossPunctuation bool `yaml:"mergeAcrossPunctuation"`
}

const (
	blankClass = `[ \t]`
	punctClass = `[ \t\x{0F01}-\x{0F14}\x{0F1A}-\x{0F1F}.,;:!?|/\-]`
)

var (
	markerRun            = regexp.MustCompile(`\(\?\)` + blankClass + `*(\(\?\)` + blankClass + `*)+`)
	markerRunAcrossPunct = regexp.MustCompile(`\(\?\)` + punctClass + `*(\(\?\)` + punctClass + `*)+`)
	spaceRun             = regexp.MustCompile(`  +`)
	spaceBeforeEOL       = regexp.MustCompile(` +(\n|$)`)
)

// Cleanup merges runs of unknown markers into one, collapses runs of spaces and removes
// the spaces at the end of each line. It never joins lines, and Cleanup(Cleanup(s)) ==
// Cleanup(s).
func Cleanup(s string, opts CleanupOptions) string {
	if opts.MergeAcrossPunctuation {
		s = markerRunAcrossPunct.ReplaceAllLiteralString(s, "(?) ")
	} else {
		s = markerRun.ReplaceAllLiteralString(s, "(?) ")
	}
	s = spaceRun.ReplaceAllLiteralString(s, " ")
	s = spaceBeforeEOL.ReplaceAllString(s, "${1}")
	return s
}
