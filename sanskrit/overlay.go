package sanskrit

import (
	"github.com/gomlx/go-tibphon/internal/intervals"
)

// Piece is a span of a word, either Tibetan or Sanskrit.
type Piece struct {
	Text     string
	Sanskrit bool
	// Rendered is the output for a Sanskrit piece, empty for Tibetan pieces.
	Rendered string
}

type match struct {
	entry      *compiledEntry
	start, end int
}

func matchSpan(m match) intervals.Interval {
	return intervals.Interval{Start: m.start, End: m.end}
}

// Overlay partitions word into alternating Tibetan and Sanskrit pieces.
//
// Every match of every pattern is a candidate. Candidates are kept left to right, longest
// first among those starting at the same position, and dropped when they overlap a kept
// one. Text between kept matches forms the Tibetan pieces. The concatenation of the pieces'
// Text is always word.
func (t *Table) Overlay(word string, opts Options) []Piece {
	if word == "" {
		return nil
	}
	if t.Len() == 0 {
		return []Piece{{Text: word}}
	}
	text := []rune(word)
	var candidates []match
	for _, ce := range t.entries {
		candidates = append(candidates, ce.matches(text)...)
	}
	kept := intervals.Select(candidates, matchSpan)

	pieces := make([]Piece, 0, 2*len(kept)+1)
	last := 0
	for _, m := range kept {
		if m.start > last {
			pieces = append(pieces, Piece{Text: string(text[last:m.start])})
		}
		pieces = append(pieces, Piece{
			Text:     string(text[m.start:m.end]),
			Sanskrit: true,
			Rendered: m.entry.render(opts),
		})
		last = m.end
	}
	if last < len(text) {
		pieces = append(pieces, Piece{Text: string(text[last:])})
	}
	return pieces
}
