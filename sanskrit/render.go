package sanskrit

import (
	"fmt"
	"strings"

	"github.com/gomlx/go-tibphon/converters/api"
	"github.com/pkg/errors"
)

// Mode selects how Sanskrit spans are rendered.
type Mode int

const (
	// ModeUnset renders Sanskrit spans like ModeKeep.
	ModeUnset Mode = iota
	// ModeKeep renders Sanskrit spans as the unknown marker.
	ModeKeep
	// ModeIAST renders Sanskrit spans in IAST transliteration.
	ModeIAST
	// ModePhonetics renders Sanskrit spans in simplified phonetics.
	ModePhonetics
)

var modeNames = []string{"unset", "keep", "iast", "phonetics"}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a mode name to a Mode. The empty string is ModeUnset.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unset":
		return ModeUnset, nil
	case "keep":
		return ModeKeep, nil
	case "iast":
		return ModeIAST, nil
	case "phonetics", "phonetic":
		return ModePhonetics, nil
	}
	return ModeUnset, errors.Errorf("unknown Sanskrit mode %q, valid values are keep, iast and phonetics", s)
}

// Anusvara selects the diacritic used for the anusvara in IAST.
type Anusvara int

const (
	// AnusvaraDefault writes the anusvara with a dot below: ṃ.
	AnusvaraDefault Anusvara = iota
	// AnusvaraAlternate writes the anusvara with a dot above: ṁ.
	AnusvaraAlternate
)

// String implements fmt.Stringer.
func (a Anusvara) String() string {
	if a == AnusvaraAlternate {
		return "ṁ"
	}
	return "ṃ"
}

// ParseAnusvara accepts the diacritic itself or the names "default" and "alternate".
func ParseAnusvara(s string) (Anusvara, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ṃ", "default", "dot-below":
		return AnusvaraDefault, nil
	case "ṁ", "alternate", "dot-above":
		return AnusvaraAlternate, nil
	}
	return AnusvaraDefault, errors.Errorf("unknown anusvara style %q, valid values are ṃ and ṁ", s)
}

// Options of the rendering of Sanskrit spans.
type Options struct {
	Mode     Mode
	Anusvara Anusvara
}

var alternateAnusvara = strings.NewReplacer("ṃ", "ṁ", "Ṃ", "Ṁ")

// render returns the text of a Sanskrit span matched by e.
func (e *Entry) render(opts Options) string {
	switch opts.Mode {
	case ModeIAST:
		if opts.Anusvara == AnusvaraAlternate {
			return alternateAnusvara.Replace(e.IAST)
		}
		return e.IAST
	case ModePhonetics:
		return e.Phonetics
	default:
		return api.UnknownMarker
	}
}

// simplifier strips the IAST diacritics: long vowels become short, the retroflex and
// sibilant letters lose their marks and the nasals and visarga become plain letters.
// The velar nasal before a velar stop is a plain n, so ṅg never doubles its g.
var simplifier = strings.NewReplacer(
	"ā", "a", "ī", "i", "ū", "u",
	"ṛ", "ri", "ṝ", "ri", "ḷ", "li", "ḹ", "li",
	"ṭ", "t", "ḍ", "d", "ṇ", "n",
	"ṣ", "sh", "ś", "sh",
	"ṅkh", "nkh", "ṅgh", "ngh", "ṅk", "nk", "ṅg", "ng",
	"ṅ", "ng", "ñ", "ny",
	"ṃ", "m", "ṁ", "m", "ḥ", "h",
	"Ā", "A", "Ī", "I", "Ū", "U",
	"Ṛ", "Ri", "Ṝ", "Ri", "Ḷ", "Li", "Ḹ", "Li",
	"Ṭ", "T", "Ḍ", "D", "Ṇ", "N",
	"Ṣ", "Sh", "Ś", "Sh",
	"Ṅkh", "Nkh", "Ṅgh", "Ngh", "Ṅk", "Nk", "Ṅg", "Ng",
	"Ṅ", "Ng", "Ñ", "Ny",
	"Ṃ", "M", "Ṁ", "M", "Ḥ", "H",
)

// Simplify derives the simplified phonetics of an IAST transliteration.
func Simplify(iast string) string {
	return simplifier.Replace(iast)
}
