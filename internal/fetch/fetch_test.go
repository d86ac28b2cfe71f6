package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/words.txt"))
	assert.True(t, IsURL("http://localhost:8080/x"))
	assert.False(t, IsURL("/tmp/words.txt"))
	assert.False(t, IsURL("words.txt"))
}

func TestLocalPathUnchanged(t *testing.T) {
	got, err := Local(context.Background(), "/some/path.tsv", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/some/path.tsv", got)
}

func TestLocalDownloadsOnce(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte("བཀྲ་ཤིས\n"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	url := server.URL + "/data/words.txt"
	var wg sync.WaitGroup
	paths := make([]string, 4)
	for i := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			paths[i], err = Local(context.Background(), url, cacheDir)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for _, p := range paths {
		assert.Equal(t, paths[0], p)
	}
	assert.True(t, strings.HasSuffix(paths[0], "-words.txt"))
	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "བཀྲ་ཤིས\n", string(content))
	assert.EqualValues(t, 1, requests.Load())

	_, err = Local(context.Background(), url, cacheDir)
	require.NoError(t, err)
	assert.EqualValues(t, 1, requests.Load(), "cached file should be reused")
}

func TestLocalDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	cacheDir := t.TempDir()
	_, err := Local(context.Background(), server.URL+"/missing.csv", cacheDir)
	require.Error(t, err)
	matches, err := filepath.Glob(filepath.Join(cacheDir, "*missing.csv"))
	require.NoError(t, err)
	assert.Empty(t, matches, "no partial file should be left behind")
}

func TestLocalCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Local(ctx, "http://localhost:1/x", t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
