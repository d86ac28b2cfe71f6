// Package lexicon implements a converters/api.Converter backed by a pronunciation lexicon.
//
// The lexicon is a tab-separated file. The first row that isn't blank or a comment ("#")
// is the header: the first column holds the Tibetan spelling, the following columns are
// named after the schema they render, e.g.:
//
//	TIBETAN	kvp	ipa
//	སངས་རྒྱས	sangyé	saŋɟɛ̀ː
//
// Units are looked up whole first, and then syllable by syllable.
package lexicon

import (
	"bytes"
	"io"
	"strings"

	"github.com/gomlx/go-tibphon/converters/api"
	"github.com/gomlx/go-tibphon/internal/files"
	"github.com/gomlx/go-tibphon/internal/tibetan"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Converter implements api.Converter. It is immutable after construction.
type Converter struct {
	// columns maps a schema name to its index in the entries.
	columns map[string]int
	entries map[string][]string
}

// Compile time assert that Converter implements api.Converter interface.
var _ api.Converter = &Converter{}

// NewFromFile loads the lexicon at filePath.
func NewFromFile(filePath string) (*Converter, error) {
	c := &Converter{entries: make(map[string][]string)}
	if err := files.ScanFileLines(filePath, c.parseLine); err != nil {
		return nil, errors.WithMessagef(err, "failed to load lexicon")
	}
	if c.columns == nil {
		return nil, errors.Errorf("lexicon %q has no header", filePath)
	}
	klog.V(1).Infof("lexicon: loaded %d entries from %q", len(c.entries), filePath)
	return c, nil
}

// NewFromContent parses a lexicon from its content.
func NewFromContent(content []byte) (*Converter, error) {
	return New(bytes.NewReader(content))
}

// New parses a lexicon from r.
func New(r io.Reader) (*Converter, error) {
	c := &Converter{entries: make(map[string][]string)}
	if err := files.ScanLines(r, c.parseLine); err != nil {
		return nil, errors.WithMessagef(err, "failed to parse lexicon")
	}
	if c.columns == nil {
		return nil, errors.Errorf("lexicon has no header")
	}
	return c, nil
}

func (c *Converter) parseLine(lineNum int, line string) error {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Split(line, "\t")
	if c.columns == nil {
		if len(fields) < 2 {
			return errors.Errorf("line %d: header needs at least one schema column", lineNum)
		}
		c.columns = make(map[string]int, len(fields)-1)
		for i, name := range fields[1:] {
			c.columns[strings.ToLower(strings.TrimSpace(name))] = i
		}
		return nil
	}
	key := unitKey(fields[0])
	if key == "" {
		klog.Warningf("lexicon: line %d has an empty spelling, skipped", lineNum)
		return nil
	}
	values := make([]string, len(fields)-1)
	for i, field := range fields[1:] {
		values[i] = strings.TrimSpace(field)
	}
	c.entries[key] = values
	return nil
}

// Len returns the number of entries.
func (c *Converter) Len() int {
	return len(c.entries)
}

// Convert implements api.Converter.
func (c *Converter) Convert(unit string, schema api.Schema) string {
	key := unitKey(unit)
	if key == "" {
		// Nothing to pronounce.
		return ""
	}
	column, ok := c.columns[strings.ToLower(schema.Name)]
	if !ok {
		return api.UnknownMarker
	}
	if value, found := c.lookup(key, column); found {
		return value
	}

	syllables := strings.FieldsFunc(key, tibetan.IsPunct)
	parts := make([]string, 0, len(syllables))
	for _, syllable := range syllables {
		value, found := c.lookup(syllable, column)
		if !found {
			if !schema.Options.UnknownSyllableMarker {
				return api.UnknownMarker
			}
			value = api.UnknownMarker
		}
		parts = append(parts, value)
	}
	return strings.Join(parts, schema.Options.SyllableSeparator)
}

func (c *Converter) lookup(key string, column int) (string, bool) {
	values, ok := c.entries[key]
	if !ok || column >= len(values) || values[column] == "" {
		return "", false
	}
	return values[column], true
}

// unitKey trims blanks and the surrounding punctuation, and unifies the tsheg variants.
func unitKey(unit string) string {
	unit = strings.ReplaceAll(unit, "༌", "་")
	return strings.TrimFunc(unit, func(r rune) bool {
		return r == ' ' || r == '\t' || tibetan.IsPunct(r)
	})
}
