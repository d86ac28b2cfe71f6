// Package segment cuts Tibetan text into space-separated units: syllables, pairs of syllables
// or words.
//
// Word segmentation combines an external tokenizer with a table of segmentation exceptions
// and a set of morphological fixups applied around the tokenizer output.
package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gomlx/go-tibphon/internal/tibetan"
	"github.com/gomlx/go-tibphon/tokenizers/api"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Strategy selects how text is segmented.
type Strategy int

const (
	// Words segments into words with the tokenizer, exceptions and fixups.
	Words Strategy = iota
	// ByOne separates every syllable.
	ByOne
	// ByTwo groups syllables by pairs.
	ByTwo
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Words:
		return "words"
	case ByOne:
		return "one"
	case ByTwo:
		return "two"
	default:
		return "unknown"
	}
}

// ParseStrategy parses the name of a strategy, as used by the command line ("words",
// "one", "two") or by the HTTP endpoints ("segmentbywords", "segmentbyone", "segmentbytwo").
func ParseStrategy(name string) (Strategy, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "segmentby") {
	case "words", "word", "":
		return Words, nil
	case "one", "1":
		return ByOne, nil
	case "two", "2":
		return ByTwo, nil
	}
	return Words, errors.Errorf("unknown segmentation strategy %q", name)
}

// Degradation records a chunk of text the tokenizer failed on, which was passed through
// unmodified.
type Degradation struct {
	Chunk string
	Err   error
}

// Result of a segmentation.
type Result struct {
	// Text is the segmented text, one line per input line.
	Text string
	// Degraded lists the chunks passed through unsegmented. Empty on full success.
	Degraded []Degradation
}

// Ok returns true when no chunk was degraded.
func (r Result) Ok() bool {
	return len(r.Degraded) == 0
}

var (
	byOnePattern = regexp.MustCompile(`(` + tibetan.Body + `+` + tibetan.NonBody + `*)`)
	byTwoPattern = regexp.MustCompile(`(` + tibetan.Body + `+` + tibetan.NonBody + `+` + tibetan.Body + `+` + tibetan.NonBody + `*)`)
	bodyRun      = regexp.MustCompile(tibetan.Body + `+`)
	lastSyllable = regexp.MustCompile(` (` + tibetan.Body + `+` + tibetan.NonBody + `*)$`)
)

// Engine segments text. It only reads its fields, and is safe for concurrent use as long as
// the tokenizer is.
type Engine struct {
	// Exceptions may be nil or empty, in which case whole lines go to the tokenizer.
	Exceptions *ExceptionTable
	// Tokenizer is only used by the Words strategy.
	Tokenizer api.Tokenizer
}

// New creates an Engine.
func New(exceptions *ExceptionTable, tokenizer api.Tokenizer) *Engine {
	return &Engine{Exceptions: exceptions, Tokenizer: tokenizer}
}

// Segment segments text with the given strategy.
func (e *Engine) Segment(text string, strategy Strategy) Result {
	switch strategy {
	case ByOne:
		return Result{Text: SegmentByOne(text)}
	case ByTwo:
		return Result{Text: SegmentByTwo(text)}
	default:
		return e.SegmentByWords(text)
	}
}

// EnforceTsheg strips trailing whitespace from line and appends a tsheg if it isn't empty and
// doesn't already end with a tsheg, a shad or a gter.
func EnforceTsheg(line string) string {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	if line != "" && !tibetan.EndsTerminated(line) {
		line += "་"
	}
	return line
}

// splitLines splits text in lines, treating "\r\n" as "\n".
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// collapseSpaces collapses whitespace runs into one space and trims the line.
func collapseSpaces(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// SegmentByOne separates every syllable, with its trailing marks, by one space.
func SegmentByOne(text string) string {
	lines := splitLines(text)
	for i, line := range lines {
		line = byOnePattern.ReplaceAllString(EnforceTsheg(line), "${1} ")
		lines[i] = collapseSpaces(line)
	}
	return strings.Join(lines, "\n")
}

// SegmentByTwo groups syllables by pairs. On lines with an odd number of syllables the last
// one is attached to the preceding pair.
func SegmentByTwo(text string) string {
	lines := splitLines(text)
	for i, line := range lines {
		line = EnforceTsheg(line)
		count := len(bodyRun.FindAllStringIndex(line, -1))
		line = byTwoPattern.ReplaceAllString(line, "${1} ")
		if count%2 == 1 {
			line = lastSyllable.ReplaceAllString(line, "${1}")
		}
		lines[i] = collapseSpaces(line)
	}
	return strings.Join(lines, "\n")
}

// SegmentByWords segments text in words. Exceptions are substituted by their segmented form,
// the text in between goes through the tokenizer and the fixups. If the tokenizer fails on a
// chunk, the chunk is kept as is and reported in Result.Degraded.
func (e *Engine) SegmentByWords(text string) Result {
	var res Result
	lines := splitLines(text)
	for i, line := range lines {
		line = EnforceTsheg(line)
		if line == "" {
			lines[i] = ""
			continue
		}
		var sb strings.Builder
		parts := e.Exceptions.split(line)
		for j, p := range parts {
			if !p.exception {
				if strings.TrimSpace(p.text) != "" {
					sb.WriteString(e.tokenize(p.text, &res))
				}
				continue
			}
			segmented, _ := e.Exceptions.Replacement(p.text)
			sb.WriteString(" ")
			sb.WriteString(segmented)
			var next string
			if j+1 < len(parts) {
				next = parts[j+1].text
			}
			if !fusesWithNext(segmented, strings.TrimLeftFunc(next, unicode.IsSpace)) {
				sb.WriteString(" ")
			}
		}
		lines[i] = collapseSpaces(sb.String())
	}
	res.Text = strings.Join(lines, "\n")
	return res
}

// fusionPrefixes are the particles that always attach to a preceding exception.
var fusionPrefixes = []string{"འི", "ར", "ས"}

// fusesWithNext reports whether an exception's segmented form must not be followed by a space:
// when the next text starts with one of the fusionPrefixes, or when the fixups would have
// merged the two anyway.
func fusesWithNext(segmented, next string) bool {
	for _, prefix := range fusionPrefixes {
		if strings.HasPrefix(next, prefix) {
			return true
		}
	}
	combined := segmented + next
	return PostFixups(combined) != combined
}

// tokenize segments a chunk of free text with the tokenizer and applies the fixups.
func (e *Engine) tokenize(chunk string, res *Result) string {
	if e.Tokenizer == nil {
		return e.degrade(chunk, errors.New("no tokenizer configured"), res)
	}
	spans, err := e.Tokenizer.Tokenize(chunk)
	if err != nil {
		return e.degrade(chunk, err, res)
	}
	tokens, err := rebuild(chunk, spans)
	if err != nil {
		return e.degrade(chunk, err, res)
	}
	return PostFixups(PreFixup(strings.Join(tokens, " ")))
}

func (e *Engine) degrade(chunk string, err error, res *Result) string {
	klog.Warningf("segment: tokenizer failed to segment %q, passing it through: %v", chunk, err)
	res.Degraded = append(res.Degraded, Degradation{Chunk: chunk, Err: err})
	return chunk
}

// rebuild slices the tokens out of the chunk. Text not covered by any span is kept as a token
// of its own, so no character is ever lost.
func rebuild(chunk string, spans []api.Span) ([]string, error) {
	tokens := make([]string, 0, len(spans)+1)
	cursor := 0
	for i, span := range spans {
		if span.Start < cursor || span.End < span.Start || span.End > len(chunk) {
			return nil, errors.Errorf("invalid span #%d [%d, %d) for a chunk of %d bytes after byte %d",
				i, span.Start, span.End, len(chunk), cursor)
		}
		if gap := strings.TrimSpace(chunk[cursor:span.Start]); gap != "" {
			tokens = append(tokens, gap)
		}
		if token := strings.TrimSpace(chunk[span.Start:span.End]); token != "" {
			tokens = append(tokens, token)
		}
		cursor = span.End
	}
	if tail := strings.TrimSpace(chunk[cursor:]); tail != "" {
		tokens = append(tokens, tail)
	}
	return tokens, nil
}
