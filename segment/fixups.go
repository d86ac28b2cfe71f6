package segment

import (
	"regexp"
	"strings"

	"github.com/gomlx/go-tibphon/internal/tibetan"
)

// Particles are the possessive, nominalizing and copula forms that are absorbed into the
// preceding token when the tokenizer leaves them apart. The order matters: alternatives are
// tried in sequence at each position.
var Particles = []string{
	"མེད", "བ", "པ", "བོ", "ཝོ", "མོ", "བའི", "བས", "བའོ",
	"པའི", "པར", "པས", "པའོ", "བོའི", "བོར", "བོས", "བོའོ",
	"པོའི", "པོར", "པོས", "པོའོ", "མའི", "མས", "མའོ", "མོའི", "མོར", "མོའོ",
}

// Imperatives are the sentence-final imperative particles ("chik", "shok") that always
// stand alone.
var Imperatives = []string{
	"གཅིག", "ཅིག", "ཞིག", "ཤིགས", "ཤིག", "ཞོགས", "ཤོགས", "ཤོག", "ཞོག",
}

var (
	// negationPrefix is the negation མ at the start of a token.
	negationPrefix = regexp.MustCompile(`(^| )(མ)་`)

	cliticAbsorption = regexp.MustCompile(
		`(^| )([^ ]+)[\x{0F0B}\x{0F0C}] +(` + strings.Join(Particles, "|") + `)($|` + tibetan.Boundary + `)`)

	glyphFusion = regexp.MustCompile(`(` + tibetan.Glyph + `) +(` + tibetan.Glyph + `)`)

	imperativeSeparation = regexp.MustCompile(
		`(` + strings.Join(Imperatives, "|") + `)($|` + tibetan.Boundary + `)`)
)

// PreFixup forces the negation prefix མ to stand alone, whatever the tokenizer decided.
func PreFixup(s string) string {
	return negationPrefix.ReplaceAllString(s, " ${2}་ ")
}

// PostFixups applies, in order:
//
//  1. clitic absorption: a token ending in a tsheg followed by one of the Particles is fused
//     with it;
//  2. glyph fusion: a space between two glyphs of the Tibetan block is removed, which repairs
//     tokenizer artifacts;
//  3. imperative separation: Imperatives are split off the preceding text.
func PostFixups(s string) string {
	s = cliticAbsorption.ReplaceAllString(s, "${1}${2}་${3}${4}")
	s = glyphFusion.ReplaceAllString(s, "${1}${2}")
	s = imperativeSeparation.ReplaceAllString(s, " ${1}${2}")
	return s
}
