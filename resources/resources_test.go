package resources_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gomlx/go-tibphon/converters/lexicon"
	"github.com/gomlx/go-tibphon/resources"
	"github.com/gomlx/go-tibphon/sanskrit"
	"github.com/gomlx/go-tibphon/segment"
	"github.com/gomlx/go-tibphon/tokenizers/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The embedded files must all load, without any entry silently dropped.
func TestDefaultsLoad(t *testing.T) {
	exceptions, err := segment.ParseExceptionTable(bytes.NewReader(resources.Exceptions))
	require.NoError(t, err)
	assert.Equal(t, 6, exceptions.Len())

	table, err := sanskrit.ParseTable(resources.Sanskrit, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Count(string(resources.Sanskrit), "- pattern:"), table.Len())

	words, err := dictionary.NewFromReader(bytes.NewReader(resources.Words))
	require.NoError(t, err)
	assert.True(t, words.Contains("བཀྲ་ཤིས"))

	lex, err := lexicon.NewFromContent(resources.Lexicon)
	require.NoError(t, err)
	assert.Greater(t, lex.Len(), 40)
}
