// Package api defines the Tokenizer API consumed by word segmentation.
// It's kept apart so tokenizer implementations and the segmenter don't import each other.
package api

// Span represents the byte span of a token in the original text.
// Start and End are byte offsets (not rune offsets), suitable for slicing
// Go strings directly: originalText[span.Start:span.End].
type Span struct {
	Start int // start byte position (inclusive)
	End   int // end byte position (exclusive)
	Kind  SpanKind
}

// Text returns the slice of text covered by the span.
func (s Span) Text(text string) string {
	return text[s.Start:s.End]
}

// SpanKind distinguishes word-like tokens from punctuation.
type SpanKind int

const (
	KindWord SpanKind = iota
	KindPunct
	KindOther
)

// String implements fmt.Stringer.
func (k SpanKind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindPunct:
		return "punct"
	default:
		return "other"
	}
}

// Tokenizer splits text into ordered, non-overlapping spans.
//
// Concatenating text[span.Start:span.End] for all returned spans, plus whitespace between
// them, must not drop or reorder characters. An error means the text couldn't be tokenized;
// callers are expected to fall back to the unmodified text.
type Tokenizer interface {
	Tokenize(text string) ([]Span, error)
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(text string) ([]Span, error)

// Tokenize implements Tokenizer.
func (f TokenizerFunc) Tokenize(text string) ([]Span, error) {
	return f(text)
}
