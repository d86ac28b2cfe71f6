// Package tibetan holds the Unicode code points and character classes of the Tibetan block
// shared by the normalizer, the segmenters and the tokenizers.
package tibetan

import "unicode/utf8"

const (
	Tsheg            = '་' // ་ intersyllabic mark.
	NonBreakingTsheg = '༌' // ༌
	Shad             = '།' // །
	NyisShad         = '༎' // ༎
	Gter             = '༔' // ༔
	Om               = 'ༀ' // ༀ
	AChung           = 'ཱ' // ཱ vowel lengthening mark.
	Anusvara         = 'ཾ' // ཾ
	Visarga          = 'ཿ' // ཿ
	SnaLdan          = 'ྃ' // ྃ
	NyiZlaNaaDa      = 'ྂ' // ྂ
	ReversedI        = 'ྀ' // ྀ
)

// Body is the regular expression character class of "syllable body" glyphs: base consonants,
// vowel signs and subjoined consonants.
const Body = `[\x{0F35}\x{0F37}\x{0F40}-\x{0F7E}\x{0F80}-\x{0FBC}]`

// NonBody is the complement of Body.
const NonBody = `[^\x{0F35}\x{0F37}\x{0F40}-\x{0F7E}\x{0F80}-\x{0FBC}]`

// Glyph is the character class used to detect two Tibetan glyphs separated only by spaces.
const Glyph = `[\x{0F40}-\x{0FBC}]`

// Boundary matches what may follow a fused particle: a space or any mark from the tsheg to the gter.
const Boundary = `[ \x{0F0B}-\x{0F14}]`

// IsBody reports whether r belongs to Body.
func IsBody(r rune) bool {
	switch {
	case r == '༵' || r == '༷':
		return true
	case r >= 'ཀ' && r <= 'ཾ':
		return true
	case r >= 'ྀ' && r <= 'ྼ':
		return true
	}
	return false
}

// IsLetter reports whether r is a base or subjoined consonant.
func IsLetter(r rune) bool {
	return (r >= 'ཀ' && r <= 'ཬ') || (r >= 'ྐ' && r <= 'ྼ')
}

// IsTshegLike reports whether r is one of the two intersyllabic marks.
func IsTshegLike(r rune) bool {
	return r == Tsheg || r == NonBreakingTsheg
}

// IsTerminator reports whether r can end a line without an added tsheg.
func IsTerminator(r rune) bool {
	return r == Tsheg || r == Shad || r == NyisShad || r == Gter
}

// EndsTerminated reports whether s ends with a terminator.
func EndsTerminated(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return size > 0 && IsTerminator(r)
}

// IsPunct reports whether r is a sign that carries no sound: Tibetan head marks, tshegs,
// shads and ornaments, or common ASCII punctuation.
func IsPunct(r rune) bool {
	switch {
	case r >= '༁' && r <= '༗':
		return true
	case r >= '༚' && r <= '༟':
		return true
	case r == '༴' || r == '༶' || r == '༸':
		return true
	case r >= '༺' && r <= '༽':
		return true
	case r >= '྾' && r <= '࿚':
		return true
	case r < utf8.RuneSelf:
		switch r {
		case '.', ',', ';', ':', '!', '?', '|', '/', '-':
			return true
		}
	}
	return false
}

// OnlyPunct reports whether s is non-empty and made only of punctuation and blanks.
func OnlyPunct(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsPunct(r) && r != ' ' && r != '\t' {
			return false
		}
	}
	return true
}
