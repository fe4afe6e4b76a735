package fetch

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the cache directory below $XDG_CACHE_HOME.
const AppName = "hepbib"

// ErrCacheMiss is returned by Cacher.Get for unknown keys.
var ErrCacheMiss = errors.New("cache miss")

// Cacher allows to save and request data by key.
type Cacher interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// FileCacher stores one file per key, named by the key's sha1.
type FileCacher struct {
	// Dir overrides the XDG cache location.
	Dir string
}

func (c *FileCacher) slugify(s string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, s)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (c *FileCacher) filename(key string) (string, error) {
	if c.Dir != "" {
		if err := os.MkdirAll(c.Dir, 0o755); err != nil {
			return "", err
		}
		return filepath.Join(c.Dir, c.slugify(key)), nil
	}
	return xdg.CacheFile(filepath.Join(AppName, c.slugify(key)))
}

// Get returns the cached value or ErrCacheMiss.
func (c *FileCacher) Get(key string) ([]byte, error) {
	filename, err := c.filename(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCacheMiss
	}
	return b, err
}

// Set stores value under key.
func (c *FileCacher) Set(key string, value []byte) error {
	filename, err := c.filename(key)
	if err != nil {
		return err
	}
	slog.Debug("cached", "file", filename, "url", key)
	return WriteFileAtomic(filename, value, 0o644)
}

// WriteFileAtomic writes the data to a temp file and moves it into place
// if everything succeeds.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir, name := filepath.Split(filename)
	f, err := os.CreateTemp(dir, name)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if permErr := os.Chmod(f.Name(), perm); err == nil {
		err = permErr
	}
	if err == nil {
		err = os.Rename(f.Name(), filename)
	}
	if err != nil {
		os.Remove(f.Name())
	}
	return err
}
