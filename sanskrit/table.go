// Package sanskrit detects Sanskrit material embedded in Tibetan words and renders it as
// IAST transliteration, simplified phonetics or the unknown marker.
//
// Detection is driven by a Table of patterns over Tibetan text. Only patterns containing a
// glyph that Tibetan words never use (see Exclusive) are kept, so that ordinary Tibetan
// spellings are never mistaken for Sanskrit.
package sanskrit

import (
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/gomlx/go-tibphon/internal/tibetan"
	"github.com/gomlx/go-tibphon/normalize"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// Exclusive lists the glyphs and clusters that only occur in Sanskrit: the vowel
// lengthening mark, the nasal and visarga marks, the reversed vowels, the retroflex letters
// and the aspirated voiced clusters.
var Exclusive = []string{
	string(tibetan.AChung), string(tibetan.Anusvara), string(tibetan.SnaLdan),
	string(tibetan.Visarga), string(tibetan.NyiZlaNaaDa), string(tibetan.ReversedI),
	"ཊ", "ཋ", "ཌ", "ཎ", "ཥ", "ྚ", "ྛ", "ྜ", "ྞ", "ྵ", "ཀྵ",
	"གྷ", "ཌྷ", "དྷ", "བྷ", "ཛྷ", "ྒྷ", "ྜྷ", "ྡྷ", "ྦྷ", "ྫྷ",
}

// Entry is one record of the Sanskrit table.
type Entry struct {
	// Pattern is a regular expression over Tibetan text. If it doesn't compile it is
	// matched as a literal.
	Pattern string `yaml:"pattern"`
	// IAST is the transliteration of the matched text.
	IAST string `yaml:"iast"`
	// Phonetics is the simplified pronunciation. If empty it is derived from IAST
	// with Simplify.
	Phonetics string `yaml:"phonetics,omitempty"`
}

// Normalizer is what the table needs to bring patterns to the same form as the text they
// are matched against.
type Normalizer interface {
	String(s string) string
}

// Table is the immutable, ordered list of Sanskrit patterns. It is safe for concurrent use.
//
// A nil Table has no patterns.
type Table struct {
	entries []*compiledEntry
}

type compiledEntry struct {
	Entry
	// re is nil when Pattern isn't a valid regular expression; literal is used instead.
	re      *regexp2.Regexp
	literal []rune
}

// NewTable normalizes the entries with normalizer (normalize.Normalizer if nil), drops
// the ones without a Sanskrit-exclusive glyph or without a transliteration, and sorts them
// longest pattern first, keeping the given order for patterns of the same length.
func NewTable(entries []Entry, normalizer Normalizer) *Table {
	if normalizer == nil {
		normalizer = normalize.Normalizer{}
	}
	t := &Table{entries: make([]*compiledEntry, 0, len(entries))}
	var dropped, literals int
	for _, e := range entries {
		e.Pattern = normalizer.String(strings.TrimSpace(e.Pattern))
		e.IAST = norm.NFC.String(strings.TrimSpace(e.IAST))
		e.Phonetics = norm.NFC.String(strings.TrimSpace(e.Phonetics))
		if e.Pattern == "" || e.IAST == "" || !HasExclusive(e.Pattern) {
			dropped++
			continue
		}
		if e.Phonetics == "" {
			e.Phonetics = Simplify(e.IAST)
		}
		ce := &compiledEntry{Entry: e}
		re, err := regexp2.Compile(e.Pattern, regexp2.RE2)
		if err != nil {
			klog.V(2).Infof("sanskrit: pattern %q is not a valid regular expression, matching it literally: %v", e.Pattern, err)
			ce.literal = []rune(e.Pattern)
			literals++
		} else {
			ce.re = re
		}
		t.entries = append(t.entries, ce)
	}
	sort.SliceStable(t.entries, func(i, j int) bool {
		return utf8.RuneCountInString(t.entries[i].Pattern) > utf8.RuneCountInString(t.entries[j].Pattern)
	})
	klog.V(1).Infof("sanskrit: %d patterns (%d literal), %d entries dropped", len(t.entries), literals, dropped)
	return t
}

// ParseTable parses a YAML list of entries, see Entry for the field names.
func ParseTable(content []byte, normalizer Normalizer) (*Table, error) {
	var entries []Entry
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return nil, errors.Wrap(err, "failed to parse Sanskrit table")
	}
	return NewTable(entries, normalizer), nil
}

// LoadTable loads the YAML Sanskrit table at filePath.
func LoadTable(filePath string, normalizer Normalizer) (*Table, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read Sanskrit table %q", filePath)
	}
	t, err := ParseTable(content, normalizer)
	if err != nil {
		return nil, errors.WithMessagef(err, "in %q", filePath)
	}
	return t, nil
}

// HasExclusive reports whether s contains any of the Exclusive glyphs or clusters.
func HasExclusive(s string) bool {
	for _, g := range Exclusive {
		if strings.Contains(s, g) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the normalized entries in matching order, with Phonetics filled in.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	entries := make([]Entry, len(t.entries))
	for i, ce := range t.entries {
		entries[i] = ce.Entry
	}
	return entries
}

// matches returns every match of the entry in text, as rune offsets. Matches of one
// pattern don't overlap each other, matches of different patterns may.
func (ce *compiledEntry) matches(text []rune) []match {
	var result []match
	if ce.re == nil {
		n := len(ce.literal)
		for i := 0; i+n <= len(text); {
			if runesEqual(text[i:i+n], ce.literal) {
				result = append(result, match{entry: ce, start: i, end: i + n})
				i += n
				continue
			}
			i++
		}
		return result
	}
	m, err := ce.re.FindRunesMatch(text)
	for ; m != nil && err == nil; m, err = ce.re.FindNextMatch(m) {
		if m.Length == 0 {
			continue
		}
		result = append(result, match{entry: ce, start: m.Index, end: m.Index + m.Length})
	}
	if err != nil {
		klog.Warningf("sanskrit: matching %q failed: %v", ce.Pattern, err)
	}
	return result
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
