// Package sentencepiece implements an api.Tokenizer based on a SentencePiece model.
package sentencepiece

import (
	"strings"

	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/gomlx/go-tibphon/internal/files"
	"github.com/gomlx/go-tibphon/internal/tibetan"
	"github.com/gomlx/go-tibphon/tokenizers/api"
	"github.com/pkg/errors"
)

// metaspace is the SentencePiece replacement for the space character (U+2581).
const metaspace = "▁"

// Encoder is the part of the SentencePiece processor used by the Tokenizer.
type Encoder interface {
	Encode(text string) []esentencepiece.Token
}

// Tokenizer implements api.Tokenizer on top of a SentencePiece processor.
type Tokenizer struct {
	Encoder Encoder
}

// Compile time assert that sentencepiece.Tokenizer implements api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// New creates a SentencePiece tokenizer from a "tokenizer.model" file, which must be a
// SentencePiece Model proto.
func New(modelPath string) (*Tokenizer, error) {
	if !files.Exists(modelPath) {
		return nil, errors.Errorf("sentencepiece model %q not found", modelPath)
	}
	proc, err := esentencepiece.NewProcessorFromPath(modelPath)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create sentencepiece tokenizer from %q", modelPath)
	}
	return &Tokenizer{Encoder: proc}, nil
}

// Tokenize implements api.Tokenizer.
//
// SentencePiece returns pieces, not offsets: spans are recovered by matching each piece back
// to the original text, starting at the end of the previous one.
func (p *Tokenizer) Tokenize(text string) ([]api.Span, error) {
	tokens := p.Encoder.Encode(text)
	spans := make([]api.Span, 0, len(tokens))

	pos := 0
	for _, tok := range tokens {
		// SentencePiece uses U+2581 (lower one eighth block) as the space replacement,
		// it has to be removed before matching back to the original text.
		matchPiece := strings.TrimPrefix(tok.Text, metaspace)
		hasLeadingSpace := len(matchPiece) != len(tok.Text)
		if hasLeadingSpace {
			for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t' || text[pos] == '\n' || text[pos] == '\r') {
				pos++
			}
		}
		if matchPiece == "" {
			// The token represents just the space.
			continue
		}

		foundAt := findSubstring(text, matchPiece, pos)
		if foundAt < 0 {
			return nil, errors.Errorf("piece %q (id %d) not found in text after byte %d", tok.Text, tok.ID, pos)
		}
		spans = append(spans, api.Span{Start: foundAt, End: foundAt + len(matchPiece), Kind: kindOf(matchPiece)})
		pos = foundAt + len(matchPiece)
	}
	return spans, nil
}

// kindOf classifies a piece by its content.
func kindOf(piece string) api.SpanKind {
	switch {
	case strings.IndexFunc(piece, tibetan.IsLetter) >= 0:
		return api.KindWord
	case strings.IndexFunc(piece, func(r rune) bool { return !tibetan.IsPunct(r) }) < 0:
		return api.KindPunct
	default:
		return api.KindOther
	}
}

// findSubstring finds the first occurrence of substr in s starting from position start.
// Returns the byte position of the match, or -1 if not found.
func findSubstring(s, substr string, start int) int {
	if start >= len(s) {
		return -1
	}
	idx := strings.Index(s[start:], substr)
	if idx < 0 {
		return -1
	}
	return start + idx
}
