// Package loader resolves practice content from local paths or URLs and
// cleans it into typeable logical lines.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// Cache stores fetched remote content. Implementations must treat a miss as
// (content="", ok=false, err=nil).
type Cache interface {
	Get(key string) (string, bool, error)
	Put(key, content string) error
}

// DirCache is a Cache backed by one file per key inside a directory.
type DirCache struct {
	dir string
}

// NewDirCache returns a DirCache rooted at dir. The directory is created
// lazily on the first Put.
func NewDirCache(dir string) *DirCache {
	return &DirCache{dir: dir}
}

// Get reads the cached content for key, reporting a miss for absent files.
func (c *DirCache) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return string(data), true, nil
}

// Put writes content for key via a temp file and rename.
func (c *DirCache) Put(key, content string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(c.dir, "content-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache entry: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.WriteString(content); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close cache entry: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(c.dir, key)); err != nil {
		return fmt.Errorf("failed to move cache entry: %w", err)
	}
	return nil
}
