// Package compose renders segmented Tibetan text into the phonetic schemas, word by word,
// handing Sanskrit spans to the sanskrit overlay and the rest to a phonemic converter.
package compose

import (
	"strings"

	"github.com/gomlx/go-tibphon/converters/api"
	"github.com/gomlx/go-tibphon/internal/tibetan"
	"github.com/gomlx/go-tibphon/sanskrit"
)

// Composer holds what is needed to render segmented text. It is immutable and safe for
// concurrent use once built.
type Composer struct {
	// Overlay detects Sanskrit spans. It may be nil, disabling the detection.
	Overlay *sanskrit.Table
	// Converter renders the Tibetan spans.
	Converter api.Converter
	// Schemas rendered into Result.KVP and Result.IPA respectively.
	Schemas [2]api.Schema
	Cleanup CleanupOptions
}

// New returns a Composer for the KVP and fastidious schemas.
func New(overlay *sanskrit.Table, converter api.Converter) *Composer {
	return &Composer{
		Overlay:   overlay,
		Converter: converter,
		Schemas:   [2]api.Schema{api.SchemaKVP, api.SchemaFastidious},
	}
}

// Result holds the rendering of a text in both schemas. Both are line-aligned with the
// segmented text.
type Result struct {
	KVP string `json:"kvp"`
	IPA string `json:"ipa"`
}

// Compose renders segmented text in both schemas.
func (c *Composer) Compose(segmented string, opts sanskrit.Options) Result {
	return Result{
		KVP: c.ComposeSchema(segmented, c.Schemas[0], opts),
		IPA: c.ComposeSchema(segmented, c.Schemas[1], opts),
	}
}

// ComposeSchema renders segmented text in one schema. Words are the blank-separated fields
// of each line; the output has one line per input line. Words rendering to nothing, like
// a lone shad, leave no trace.
func (c *Composer) ComposeSchema(segmented string, schema api.Schema, opts sanskrit.Options) string {
	var sb, word strings.Builder
	for i, line := range strings.Split(segmented, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, field := range strings.Fields(line) {
			word.Reset()
			c.writeWord(&word, field, schema, opts)
			if word.Len() == 0 {
				continue
			}
			sb.WriteString(word.String())
			sb.WriteByte(' ')
		}
	}
	return Cleanup(sb.String(), c.Cleanup)
}

func (c *Composer) writeWord(sb *strings.Builder, word string, schema api.Schema, opts sanskrit.Options) {
	pieces := c.Overlay.Overlay(word, opts)
	for i, p := range pieces {
		prevSanskrit := i > 0 && pieces[i-1].Sanskrit
		if p.Sanskrit {
			if prevSanskrit {
				sb.WriteByte(' ')
			}
			sb.WriteString(p.Rendered)
			continue
		}
		if prevSanskrit && i+1 < len(pieces) && pieces[i+1].Sanskrit && tibetan.OnlyPunct(p.Text) {
			// A tsheg or shad between two Sanskrit spans.
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(c.Converter.Convert(p.Text, schema))
	}
}
