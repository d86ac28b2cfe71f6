package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text untouched", "བཀྲ་ཤིས་", "བཀྲ་ཤིས་"},
		{"om ligature", "ༀ་", "ཨོཾ་"},
		{"precomposed long i decomposed", "ཀ\u0F73", "ཀ\u0F71\u0F72"},
		{"double e is ai", "ཀ\u0F7A\u0F7A", "ཀ\u0F7B"},
		{"double o is au", "ཀ\u0F7C\u0F7C", "ཀ\u0F7D"},
		{"repeated i", "ཀིིི་", "ཀི་"},
		{"repeated u", "ཀུུ་", "ཀུ་"},
		{"repeated a-chung", "ཧ\u0F71\u0F71་", "ཧ\u0F71་"},
		{"anusvara before vowel", "ཧ\u0F7E\u0F74", "ཧ\u0F74\u0F7E"},
		{"sna ldan before vowel", "ཧ\u0F83\u0F74", "ཧ\u0F74\u0F83"},
		{"nasal between repeated vowels", "ཧ\u0F72\u0F7E\u0F72་", "ཧ\u0F72\u0F7E་"},
		{"nasal before two vowels", "ཧ\u0F7E\u0F71\u0F74", "ཧ\u0F71\u0F74\u0F7E"},
		{"non-breaking tsheg", "ཀ༌ཁ༌", "ཀ་ཁ་"},
		{"tsheg runs", "ཀ་་་ཁ་་", "ཀ་ཁ་"},
		{"mixed tsheg run", "ཀ་༌ཁ", "ཀ་ཁ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.input))
		})
	}
}

func TestStringIdempotent(t *testing.T) {
	inputs := []string{"ༀ་ཀེེ་ཧཾུ་་", "ཀིིི༌༌ཁ", "སངས་རྒྱས།", "abc ཀ", "ཧིཾི་", "ཧཾིི་", "ཧཾཱུ་"}
	for _, input := range inputs {
		once := String(input)
		assert.Equal(t, once, String(once), "input %q", input)
	}
}

func TestNormalizerValue(t *testing.T) {
	var n Normalizer
	assert.Equal(t, String("ༀ"), n.String("ༀ"))
}
