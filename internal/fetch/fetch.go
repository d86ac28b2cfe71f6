// Package fetch makes resource files given as URLs available locally: they are downloaded
// once into a cache directory, which may be shared by concurrent processes.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/gomlx/go-tibphon/internal/files"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultDirCreationPerm is used when creating the cache directory.
const DefaultDirCreationPerm = 0755

// CacheEnvVar overrides the default cache directory.
const CacheEnvVar = "TIBPHON_CACHE"

// DefaultCacheDir returns $TIBPHON_CACHE if set, or a "tibphon" directory under the user's
// cache directory.
func DefaultCacheDir() string {
	if dir := os.Getenv(CacheEnvVar); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "tibphon")
}

// IsURL reports whether resource is an http or https URL.
func IsURL(resource string) bool {
	return strings.HasPrefix(resource, "http://") || strings.HasPrefix(resource, "https://")
}

// Local returns a local path for resource. Paths are returned unchanged. URLs are
// downloaded into cacheDir, unless a previous call already did it.
func Local(ctx context.Context, resource, cacheDir string) (string, error) {
	if !IsURL(resource) {
		return resource, nil
	}
	if cacheDir == "" {
		cacheDir = DefaultCacheDir()
	}
	filePath, err := cachePath(cacheDir, resource)
	if err != nil {
		return "", err
	}
	if err := lockedDownload(ctx, http.DefaultClient, resource, filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

// cachePath is unique per URL and keeps the file name for readability.
func cachePath(cacheDir, resource string) (string, error) {
	u, err := url.Parse(resource)
	if err != nil {
		return "", errors.Wrapf(err, "invalid resource URL %q", resource)
	}
	sum := sha256.Sum256([]byte(resource))
	name := hex.EncodeToString(sum[:8])
	if base := path.Base(u.Path); base != "." && base != "/" {
		name += "-" + base
	}
	return filepath.Join(cacheDir, name), nil
}

// lockedDownload downloads url to filePath, unless filePath already exists.
//
// It downloads to filePath+".downloading" and then atomically moves it to filePath. A
// filePath+".lock" file coordinates multiple processes downloading the same file.
func lockedDownload(ctx context.Context, client *http.Client, url, filePath string) error {
	if files.Exists(filePath) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), DefaultDirCreationPerm); err != nil {
		return errors.Wrapf(err, "failed to create directory for file %q", filePath)
	}

	lockPath := filePath + ".lock"
	var mainErr error
	errLock := execOnFileLock(ctx, lockPath, func() {
		if files.Exists(filePath) {
			// Downloaded by a concurrent process while we waited for the lock.
			return
		}
		tmpPath := filePath + ".downloading"
		tmpFile, err := os.Create(tmpPath)
		if err != nil {
			mainErr = errors.Wrapf(err, "creating temporary file for download in %q", tmpPath)
			return
		}
		var tmpFileClosed bool
		defer func() {
			if !tmpFileClosed {
				if err := tmpFile.Close(); err != nil {
					klog.Warningf("Failed closing temporary file %q: %v", tmpPath, err)
				}
				if err := os.Remove(tmpPath); err != nil {
					klog.Warningf("Failed removing temporary file %q: %v", tmpPath, err)
				}
			}
		}()

		if mainErr = download(ctx, client, url, tmpFile); mainErr != nil {
			mainErr = errors.WithMessagef(mainErr, "while downloading %q to %q", url, tmpPath)
			return
		}
		tmpFileClosed = true
		if err := tmpFile.Close(); err != nil {
			mainErr = errors.Wrapf(err, "failed to close temporary download file %q", tmpPath)
			return
		}
		if err := os.Rename(tmpPath, filePath); err != nil {
			mainErr = errors.Wrapf(err, "failed to move downloaded file %q to %q", tmpPath, filePath)
			return
		}
		klog.V(1).Infof("fetch: downloaded %q to %q", url, filePath)

		// The file exists now, so the lock is no longer needed.
		if err := os.Remove(lockPath); err != nil {
			klog.Warningf("Error removing lock file %q: %+v", lockPath, err)
		}
	})
	if mainErr != nil {
		return mainErr
	}
	if errLock != nil {
		return errors.WithMessagef(errLock, "while locking %q to download %q", lockPath, url)
	}
	return nil
}

func download(ctx context.Context, client *http.Client, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to create request for %q", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to request %q", url)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("bad status code %d: %s", resp.StatusCode, resp.Status)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return errors.Wrapf(err, "failed to read %q", url)
	}
	return nil
}

// execOnFileLock locks lockPath (creating it if needed) and executes fn. If lockPath is
// already locked, it polls with a 1 to 2 seconds period (randomly) until it acquires the
// lock or ctx is done.
func execOnFileLock(ctx context.Context, lockPath string, fn func()) (err error) {
	fileLock := flock.New(lockPath)
	for {
		locked, err := fileLock.TryLock()
		if err != nil {
			return errors.Wrapf(err, "while trying to lock %q", lockPath)
		}
		if locked {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond * time.Duration(1000+rand.Intn(1000))):
		}
	}

	// Unlock even if fn panics.
	defer func() {
		unlockErr := fileLock.Unlock()
		if unlockErr != nil {
			if err == nil {
				err = errors.Wrapf(unlockErr, "unlocking file %q", lockPath)
			} else {
				klog.Errorf("Error unlocking file %q: %v", lockPath, unlockErr)
			}
		}
	}()
	fn()
	return
}
