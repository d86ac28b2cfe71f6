package tibetan

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBodyMatchesClass(t *testing.T) {
	body := regexp.MustCompile(`^` + Body + `$`)
	for r := rune(0x0F00); r <= 0x0FFF; r++ {
		assert.Equal(t, body.MatchString(string(r)), IsBody(r), "%U", r)
	}
	assert.False(t, IsBody('a'))
}

func TestClasses(t *testing.T) {
	assert.True(t, IsLetter('ཀ'))
	assert.True(t, IsLetter('ྱ'))
	assert.False(t, IsLetter('ི'))
	assert.True(t, IsTshegLike(Tsheg))
	assert.True(t, IsTshegLike(NonBreakingTsheg))
	assert.False(t, IsTshegLike(Shad))

	for _, s := range []string{"ཀ་", "ཀ།", "ཀ༎", "ཀ༔"} {
		assert.True(t, EndsTerminated(s), s)
	}
	for _, s := range []string{"", "ཀ", "ཀ་ "} {
		assert.False(t, EndsTerminated(s), s)
	}

	for _, s := range []string{"།", "་", " ༄༅། ", "?!", "༎ ་"} {
		assert.True(t, OnlyPunct(s), s)
	}
	for _, s := range []string{"", "ཀ་", "ཨོཾ", "a."} {
		assert.False(t, OnlyPunct(s), s)
	}
}
