// Package dictionary implements a Tibetan word tokenizer based on maximal matching of
// syllable sequences against a word list.
//
// The text is first cut into syllables (a run of letters and vowel signs plus its trailing
// tshegs); runs of punctuation and of non-Tibetan characters become their own spans.
// Consecutive syllables are then grouped greedily: at each position the longest sequence of
// syllables found in the word list becomes one token, falling back to a single syllable.
package dictionary

import (
	"encoding/json"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gomlx/go-tibphon/internal/files"
	"github.com/gomlx/go-tibphon/internal/tibetan"
	"github.com/gomlx/go-tibphon/tokenizers/api"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Tokenizer implements api.Tokenizer. It is immutable after construction and safe for
// concurrent use.
type Tokenizer struct {
	words map[string]struct{}
	// maxSyllables is the length, in syllables, of the longest word.
	maxSyllables int
}

// Compile time assert that Tokenizer implements api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// New creates a Tokenizer from a list of words. Words may or may not carry their final tsheg.
// An empty list yields a syllable tokenizer.
func New(words []string) *Tokenizer {
	t := &Tokenizer{words: make(map[string]struct{}, len(words)), maxSyllables: 1}
	for _, w := range words {
		t.add(w)
	}
	return t
}

func (t *Tokenizer) add(word string) {
	key := wordKey(word)
	if key == "" {
		return
	}
	t.words[key] = struct{}{}
	if n := strings.Count(key, "་") + 1; n > t.maxSyllables {
		t.maxSyllables = n
	}
}

// NewFromFile creates a Tokenizer from a word list file: one word per line, in the first
// tab-separated column. Blank lines and lines starting with "#" are skipped.
func NewFromFile(filePath string) (*Tokenizer, error) {
	t := New(nil)
	if err := files.ScanFileLines(filePath, t.parseLine); err != nil {
		return nil, errors.WithMessagef(err, "failed to load word list")
	}
	klog.V(1).Infof("dictionary: loaded %d words from %q", t.Len(), filePath)
	return t, nil
}

// NewFromReader creates a Tokenizer from a word list read from r, in the format of
// NewFromFile.
func NewFromReader(r io.Reader) (*Tokenizer, error) {
	t := New(nil)
	if err := files.ScanLines(r, t.parseLine); err != nil {
		return nil, errors.WithMessagef(err, "failed to read word list")
	}
	return t, nil
}

func (t *Tokenizer) parseLine(_ int, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	word, _, _ := strings.Cut(line, "\t")
	t.add(word)
	return nil
}

// tokenizerJSON is the subset of HuggingFace's tokenizer.json needed to get the vocabulary.
type tokenizerJSON struct {
	Model struct {
		Type  string          `json:"type"`
		Vocab json.RawMessage `json:"vocab"`
	} `json:"model"`
}

// NewFromTokenizerJSON creates a Tokenizer from the vocabulary of a HuggingFace tokenizer.json
// file content. WordPiece and BPE vocabularies are maps of piece to id, Unigram vocabularies
// are lists of [piece, score] pairs. Only pieces containing Tibetan letters are kept, with the
// SentencePiece metaspace ("▁") and WordPiece continuation prefix ("##") removed.
func NewFromTokenizerJSON(content []byte) (*Tokenizer, error) {
	var tj tokenizerJSON
	if err := json.Unmarshal(content, &tj); err != nil {
		return nil, errors.Wrapf(err, "failed to parse tokenizer.json")
	}
	var pieces []string
	switch tj.Model.Type {
	case "Unigram":
		var entries [][]json.RawMessage
		if err := json.Unmarshal(tj.Model.Vocab, &entries); err != nil {
			return nil, errors.Wrapf(err, "failed to parse Unigram vocab")
		}
		for _, entry := range entries {
			if len(entry) == 0 {
				continue
			}
			var piece string
			if err := json.Unmarshal(entry[0], &piece); err != nil {
				return nil, errors.Wrapf(err, "failed to parse Unigram vocab piece")
			}
			pieces = append(pieces, piece)
		}
	default:
		var vocab map[string]int
		if err := json.Unmarshal(tj.Model.Vocab, &vocab); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s vocab", tj.Model.Type)
		}
		for piece := range vocab {
			pieces = append(pieces, piece)
		}
	}

	t := New(nil)
	for _, piece := range pieces {
		piece = strings.TrimPrefix(strings.ReplaceAll(piece, "▁", ""), "##")
		if strings.IndexFunc(piece, tibetan.IsLetter) < 0 {
			continue
		}
		t.add(piece)
	}
	return t, nil
}

// Len returns the number of distinct words known.
func (t *Tokenizer) Len() int {
	return len(t.words)
}

// Contains reports whether word is in the word list.
func (t *Tokenizer) Contains(word string) bool {
	_, ok := t.words[wordKey(word)]
	return ok
}

// wordKey strips the trailing tshegs and unifies the tsheg variants, so that words
// are looked up regardless of how they end.
func wordKey(word string) string {
	word = strings.TrimSpace(word)
	word = strings.ReplaceAll(word, "༌", "་")
	return strings.TrimRight(word, "་")
}

// unit is a syllable, a punctuation run or a run of other characters.
type unit struct {
	start, end int
	// bodyEnd is the end of the syllable without its trailing tshegs.
	bodyEnd int
	kind    api.SpanKind
}

func isSyllableBody(r rune) bool {
	return tibetan.IsBody(r) || r == tibetan.Visarga || r == '༹'
}

func kindOf(r rune) (api.SpanKind, bool) {
	switch {
	case unicode.IsSpace(r):
		return 0, false
	case isSyllableBody(r):
		return api.KindWord, true
	case tibetan.IsPunct(r):
		return api.KindPunct, true
	default:
		return api.KindOther, true
	}
}

// units cuts text into units, skipping whitespace.
func units(text string) []unit {
	var result []unit
	pos := 0
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		kind, ok := kindOf(r)
		if !ok {
			pos += size
			continue
		}
		u := unit{start: pos, kind: kind}
		pos += size
		for pos < len(text) {
			r, size = utf8.DecodeRuneInString(text[pos:])
			k, ok := kindOf(r)
			if !ok || k != kind {
				break
			}
			pos += size
		}
		u.bodyEnd = pos
		if kind == api.KindWord {
			for pos < len(text) {
				r, size = utf8.DecodeRuneInString(text[pos:])
				if !tibetan.IsTshegLike(r) {
					break
				}
				pos += size
			}
		}
		u.end = pos
		result = append(result, u)
	}
	return result
}

// Tokenize implements api.Tokenizer.
func (t *Tokenizer) Tokenize(text string) ([]api.Span, error) {
	if !utf8.ValidString(text) {
		return nil, errors.Errorf("text is not valid UTF-8")
	}
	us := units(text)
	spans := make([]api.Span, 0, len(us))
	for i := 0; i < len(us); {
		if us[i].kind != api.KindWord {
			spans = append(spans, api.Span{Start: us[i].start, End: us[i].end, Kind: us[i].kind})
			i++
			continue
		}
		n := t.longestMatch(text, us[i:])
		spans = append(spans, api.Span{Start: us[i].start, End: us[i+n-1].end, Kind: api.KindWord})
		i += n
	}
	return spans, nil
}

// longestMatch returns the number of syllables, at least one, of the longest word starting
// at us[0].
func (t *Tokenizer) longestMatch(text string, us []unit) int {
	limit := 0
	for limit < len(us) && limit < t.maxSyllables && us[limit].kind == api.KindWord {
		// Syllables must be contiguous: a tsheg joins them, a space doesn't.
		if limit > 0 && us[limit-1].end != us[limit].start {
			break
		}
		// A syllable without a tsheg closes the word.
		if limit > 0 && us[limit-1].bodyEnd == us[limit-1].end {
			break
		}
		limit++
	}
	if len(t.words) == 0 {
		return 1
	}
	for n := limit; n > 1; n-- {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = text[us[i].start:us[i].bodyEnd]
		}
		if _, ok := t.words[strings.Join(parts, "་")]; ok {
			return n
		}
	}
	return 1
}
