package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	assert.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.True(t, Exists(path))
	assert.False(t, Exists(dir), "directories are not files")
}

func TestScanLines(t *testing.T) {
	var got []string
	err := ScanLines(strings.NewReader("a\r\nb\n\nc"), func(_ int, line string) error {
		got = append(got, line)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "", "c"}, got)

	stop := errors.New("stop")
	err = ScanLines(strings.NewReader("a\nb"), func(lineNum int, _ string) error {
		if lineNum == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
}

func TestScanFileLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.tsv")
	require.NoError(t, os.WriteFile(path, []byte("ཀ་\tka\nཁ་\tkha\n"), 0o644))
	var lines []string
	require.NoError(t, ScanFileLines(path, func(_ int, line string) error {
		lines = append(lines, line)
		return nil
	}))
	assert.Equal(t, []string{"ཀ་\tka", "ཁ་\tkha"}, lines)

	err := ScanFileLines(filepath.Join(t.TempDir(), "missing"), func(int, string) error { return nil })
	assert.Error(t, err)
}
