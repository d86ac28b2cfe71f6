package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gomlx/go-tibphon/sanskrit"
	"github.com/gomlx/go-tibphon/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(context.Background(), Config{})
	require.NoError(t, err)
	return p
}

func TestProcessSanskritScenarios(t *testing.T) {
	p := newDefault(t)
	keep := Request{SanskritMode: sanskrit.ModeKeep}
	iast := Request{SanskritMode: sanskrit.ModeIAST}
	phonetics := Request{SanskritMode: sanskrit.ModePhonetics}

	// A single Sanskrit syllable is one marker, whatever the strategy.
	for _, strategy := range []segment.Strategy{segment.Words, segment.ByOne, segment.ByTwo} {
		out := p.Process("ཧཱུྃ", Request{Strategy: strategy, SanskritMode: sanskrit.ModeKeep})
		assert.Equal(t, 1, strings.Count(out.KVP, "(?)"), strategy.String())
		assert.Equal(t, 1, strings.Count(out.IPA, "(?)"), strategy.String())
	}

	tests := []struct {
		text    string
		req     Request
		wantKVP string
	}{
		{"ཨོཾ་ཨཱཿཧཱུྃ་", phonetics, "om ah hung"},
		{"ཨོཾ་ཨཱཿཧཱུྃ་", iast, "oṃ āḥ hūṃ"},
		{"ཨོཾ་ཨཱཿཧཱུྃ་", keep, "(?)"},
		{"མ་ཧཱ་", iast, "mahā"},
		{"མ་ཧཱ་", phonetics, "maha"},
		{"མ་ཧཱ་", keep, "(?)"},
		{"དྷཱུ་ཏི", iast, "dhūti"},
		{"དྷཱུ་ཏི", phonetics, "dhuti"},
		{"བྷནྡྷ", phonetics, "bhandha"},
		{"རྡོ་རྗེ་སློབ་དཔོན་ཨོཾ་ཨཱཿཧཱུྃ་སངས་རྒྱས་དཔལ", keep, "dorjé lopön (?) sangyé pal"},
		{"རྡོ་རྗེ་སློབ་དཔོན་ཨོཾ་ཨཱཿཧཱུྃ་སངས་རྒྱས་དཔལ", iast, "dorjé lopön oṃ āḥ hūṃ sangyé pal"},
		{"རྡོ་རྗེ་སློབ་དཔོན་ཨོཾ་ཨཱཿཧཱུྃ་སངས་རྒྱས་དཔལ", phonetics, "dorjé lopön om ah hung sangyé pal"},
	}
	for _, tt := range tests {
		t.Run(tt.req.SanskritMode.String()+"/"+tt.text, func(t *testing.T) {
			out := p.Process(tt.text, tt.req)
			assert.Equal(t, tt.wantKVP, out.KVP)
			assert.Empty(t, out.Degraded)
		})
	}
}

func TestProcessAnusvaraStyle(t *testing.T) {
	p := newDefault(t)
	out := p.Process("ཨོཾ་", Request{SanskritMode: sanskrit.ModeIAST})
	assert.Contains(t, out.KVP, "oṃ")
	out = p.Process("ཨོཾ་", Request{SanskritMode: sanskrit.ModeIAST, Anusvara: sanskrit.AnusvaraAlternate})
	assert.Contains(t, out.KVP, "oṁ")
	assert.Contains(t, out.IPA, "oṁ")
}

func TestProcessNormalizes(t *testing.T) {
	p := newDefault(t)
	// ༀ is the ligature of ཨོཾ, and the non-breaking tsheg a tsheg.
	out := p.Process("ༀ༌", Request{SanskritMode: sanskrit.ModeIAST})
	assert.Equal(t, "ཨོཾ་", out.Segmented)
	assert.Equal(t, "oṃ", out.KVP)
}

func TestProcessLines(t *testing.T) {
	p := newDefault(t)
	out := p.Process("བཀྲ་ཤིས་བདེ་ལེགས།\r\n\nསངས་རྒྱས", Request{})
	assert.Equal(t, "བཀྲ་ཤིས་ བདེ་ལེགས །\n\nསངས་རྒྱས་", out.Segmented)
	assert.Equal(t, "trashi delek\n\nsangyé", out.KVP)
	assert.Equal(t, "ʈʂaɕi tèlek\n\nsàŋɟɛ", out.IPA)

	out = p.Process("བཀྲ་ཤིས་བདེ་ལེགས", Request{Strategy: segment.ByTwo})
	assert.Equal(t, "བཀྲ་ཤིས་ བདེ་ལེགས་", out.Segmented)
	out = p.Process("བཀྲ་ཤིས་བདེ་ལེགས", Request{Strategy: segment.ByOne})
	assert.Equal(t, "བཀྲ་ ཤིས་ བདེ་ ལེགས་", out.Segmented)
}

func TestPhoneticize(t *testing.T) {
	p := newDefault(t)
	out := p.Phoneticize("རྡོ་རྗེ་ ཨོཾ་", Request{Strategy: segment.ByOne, SanskritMode: sanskrit.ModePhonetics})
	assert.Equal(t, "རྡོ་རྗེ་ ཨོཾ་", out.Segmented, "already segmented text isn't resegmented")
	assert.Equal(t, "dorjé om", out.KVP)
}

func TestProcessConcurrent(t *testing.T) {
	p := newDefault(t)
	want := p.Process("རྡོ་རྗེ་སློབ་དཔོན་ཨོཾ་ཨཱཿཧཱུྃ་", Request{SanskritMode: sanskrit.ModeIAST})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				got := p.Process("རྡོ་རྗེ་སློབ་དཔོན་ཨོཾ་ཨཱཿཧཱུྃ་", Request{SanskritMode: sanskrit.ModeIAST})
				assert.Equal(t, want, got)
			}
		}()
	}
	wg.Wait()
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest("segmentbytwo", "phonetics", "ṁ")
	require.NoError(t, err)
	assert.Equal(t, Request{Strategy: segment.ByTwo, SanskritMode: sanskrit.ModePhonetics, Anusvara: sanskrit.AnusvaraAlternate}, req)

	req, err = ParseRequest("", "", "")
	require.NoError(t, err)
	assert.Equal(t, Request{}, req)

	_, err = ParseRequest("three", "", "")
	assert.Error(t, err)
	_, err = ParseRequest("one", "wylie", "")
	assert.Error(t, err)
	_, err = ParseRequest("one", "iast", "m")
	assert.Error(t, err)
}

func TestNewWithFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("words.txt", "ཀ་ཁ\n")
	write("lexicon.tsv", "TIBETAN\tkvp\tipa\nཀ་ཁ\tkakha\tkakʰa\n")
	write("sanskrit.yaml", "- pattern: ཀཱ\n  iast: kā\n")
	write("exceptions.csv", "ORIGINAL,SEGMENTED\nཀ་ཁ་ག་,ཀ་ ཁ་ག་\n")
	write("config.yaml", "words: words.txt\nlexicon: lexicon.tsv\nsanskrit: sanskrit.yaml\nexceptions: exceptions.csv\n")

	cfg, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "words.txt"), cfg.Words)

	p, err := New(context.Background(), cfg)
	require.NoError(t, err)
	out := p.Process("ཀ་ཁ་ ཀཱ་", Request{SanskritMode: sanskrit.ModeIAST})
	assert.Equal(t, "ཀ་ཁ་ ཀཱ་", out.Segmented)
	assert.Equal(t, "kakha kā", out.KVP)
	assert.Equal(t, "kakʰa kā", out.IPA)

	out = p.Process("ཀ་ཁ་ག་", Request{})
	assert.Equal(t, "ཀ་ ཁ་ག་", out.Segmented)
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	_, err := New(context.Background(), Config{Lexicon: missing})
	assert.Error(t, err)
	_, err = New(context.Background(), Config{Sanskrit: missing})
	assert.Error(t, err)
	_, err = New(context.Background(), Config{Words: missing})
	assert.Error(t, err)
	_, err = New(context.Background(), Config{TokenizerJSON: missing})
	assert.Error(t, err)

	// Missing exceptions only disable them.
	p, err := New(context.Background(), Config{Exceptions: missing})
	require.NoError(t, err)
	out := p.Process("མ་ཧཱ་", Request{})
	assert.Equal(t, "མ་ ཧཱ་", out.Segmented)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lexicn: typo.tsv\n"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err, "unknown fields are rejected")

	require.NoError(t, os.WriteFile(path, []byte("schemas:\n  - name: kvp\n"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("words: https://example.com/words.txt\nmergePlaceholdersAcrossPunctuation: true\n"), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/words.txt", cfg.Words)
	assert.True(t, cfg.MergePlaceholdersAcrossPunctuation)
}
