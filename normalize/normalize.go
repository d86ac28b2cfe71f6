// Package normalize canonicalizes Tibetan text before it is segmented or converted.
//
// It applies Unicode NFC and then fixes glyph sequences that are commonly malformed in
// input produced by legacy fonts and keyboards.
package normalize

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/gomlx/go-tibphon/internal/tibetan"
	"golang.org/x/text/unicode/norm"
	"k8s.io/klog/v2"
)

var (
	// ligatures are sequences with a single canonical spelling.
	ligatures = strings.NewReplacer(
		string(tibetan.Om), "ཨོ"+string(tibetan.Anusvara), // ༀ -> ཨོཾ
		"ེེ", "ཻ", // ེེ -> ཻ
		"ོོ", "ཽ", // ོོ -> ཽ
	)

	// repeatedVowel needs a back-reference, which RE2 doesn't support.
	repeatedVowel = regexp2.MustCompile(`([ཱིཻཽྀུ])\1+`, regexp2.None)

	// nasalBeforeVowel matches ཾ or ྃ typed before the vowel sign of the syllable.
	nasalBeforeVowel = regexp.MustCompile(
		`([` + string(tibetan.Anusvara) + string(tibetan.SnaLdan) + `])([\x{0F71}-\x{0F7D}\x{0F80}])`)

	tshegRun = regexp.MustCompile(`\x{0F0B}{2,}`)
)

// Normalizer implements the normalization steps. Its zero value is ready to use.
type Normalizer struct{}

// String returns the normalized form of s.
func (Normalizer) String(s string) string {
	return String(s)
}

// String returns the normalized form of s:
//
//  1. Unicode canonical composition (NFC);
//  2. known ligature equivalences collapsed to one spelling;
//  3. a nasal mark placed before a vowel sign moved after it;
//  4. runs of the same vowel sign collapsed to one;
//  5. the non-breaking tsheg mapped to the tsheg;
//  6. runs of tshegs collapsed to one.
func String(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = ligatures.Replace(s)
	s = reorderNasals(s)
	if collapsed, err := repeatedVowel.Replace(s, "$1", -1, -1); err == nil {
		s = collapsed
	} else {
		klog.Warningf("normalize: failed to collapse repeated vowels: %v", err)
	}
	s = strings.ReplaceAll(s, "༌", "་")
	s = tshegRun.ReplaceAllString(s, "་")
	return s
}

// reorderNasals moves every nasal mark behind the vowel signs that follow it. A mark
// followed by several vowel signs needs one pass per sign.
func reorderNasals(s string) string {
	for range len(s) {
		reordered := nasalBeforeVowel.ReplaceAllString(s, "${2}${1}")
		if reordered == s {
			break
		}
		s = reordered
	}
	return s
}
