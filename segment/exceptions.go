package segment

import (
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Column names of the exceptions CSV header.
const (
	ColumnOriginal  = "ORIGINAL"
	ColumnSegmented = "SEGMENTED"
)

// ExceptionEntry maps a literal substring of the source text to its pre-segmented form.
type ExceptionEntry struct {
	Original, Segmented string
}

// ExceptionTable is the immutable set of segmentation exceptions. Patterns are matched
// longest first, ties keeping the input order.
//
// The zero value and nil are empty tables.
type ExceptionTable struct {
	replacements map[string]string
	// patterns are the originals sorted by decreasing length in code points.
	patterns []string
	re       *regexp.Regexp
}

// NewExceptionTable builds a table from entries. Entries with an empty original or
// segmented form, or whose original starts with "#", are ignored. When the same original
// appears twice the last replacement wins, at the position of the first.
func NewExceptionTable(entries []ExceptionEntry) *ExceptionTable {
	t := &ExceptionTable{replacements: make(map[string]string, len(entries))}
	for _, e := range entries {
		original, segmented := strings.TrimSpace(e.Original), strings.TrimSpace(e.Segmented)
		if original == "" || segmented == "" || strings.HasPrefix(original, "#") {
			continue
		}
		if _, found := t.replacements[original]; !found {
			t.patterns = append(t.patterns, original)
		}
		t.replacements[original] = segmented
	}
	if len(t.patterns) == 0 {
		return t
	}
	sort.SliceStable(t.patterns, func(i, j int) bool {
		return utf8.RuneCountInString(t.patterns[i]) > utf8.RuneCountInString(t.patterns[j])
	})
	quoted := make([]string, len(t.patterns))
	for i, p := range t.patterns {
		quoted[i] = regexp.QuoteMeta(p)
	}
	t.re = regexp.MustCompile("(" + strings.Join(quoted, "|") + ")")
	return t
}

// ParseExceptionTable reads a CSV with a header containing the ORIGINAL and SEGMENTED
// columns. Blank rows and rows whose original starts with "#" are skipped.
func ParseExceptionTable(r io.Reader) (*ExceptionTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read exceptions header")
	}
	origCol, segCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")) {
		case ColumnOriginal:
			origCol = i
		case ColumnSegmented:
			segCol = i
		}
	}
	if origCol < 0 || segCol < 0 {
		return nil, errors.Errorf("exceptions header %q lacks the %s and %s columns", header, ColumnOriginal, ColumnSegmented)
	}

	var entries []ExceptionEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read exceptions")
		}
		if origCol >= len(record) || segCol >= len(record) {
			continue
		}
		entries = append(entries, ExceptionEntry{Original: record[origCol], Segmented: record[segCol]})
	}
	return NewExceptionTable(entries), nil
}

// LoadExceptionTable loads the exceptions CSV at path. Any failure is logged and yields an
// empty table: the exception overlay is then simply disabled.
func LoadExceptionTable(path string) *ExceptionTable {
	f, err := os.Open(path)
	if err != nil {
		klog.Warningf("Could not load segmentation exceptions: %v", err)
		return NewExceptionTable(nil)
	}
	defer func() { _ = f.Close() }()
	t, err := ParseExceptionTable(f)
	if err != nil {
		klog.Warningf("Could not load segmentation exceptions from %q: %v", path, err)
		return NewExceptionTable(nil)
	}
	klog.V(1).Infof("segment: loaded %d exceptions from %q", t.Len(), path)
	return t
}

// Len returns the number of exceptions.
func (t *ExceptionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.patterns)
}

// Patterns returns the originals in matching order.
func (t *ExceptionTable) Patterns() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.patterns...)
}

// Replacement returns the segmented form of original.
func (t *ExceptionTable) Replacement(original string) (string, bool) {
	if t == nil {
		return "", false
	}
	segmented, ok := t.replacements[original]
	return segmented, ok
}

// part is a piece of a line: either an exception original or free text.
type part struct {
	text      string
	exception bool
}

// split cuts line into alternating free and exception parts, starting and ending with a
// (possibly empty) free part. Matches are leftmost, longest pattern first, non-overlapping.
func (t *ExceptionTable) split(line string) []part {
	if t.Len() == 0 {
		return []part{{text: line}}
	}
	var parts []part
	last := 0
	for _, loc := range t.re.FindAllStringIndex(line, -1) {
		parts = append(parts, part{text: line[last:loc[0]]}, part{text: line[loc[0]:loc[1]], exception: true})
		last = loc[1]
	}
	return append(parts, part{text: line[last:]})
}
