// Package inputcache implements the file-backed puzzle input cache of §4.3:
// one file per (year, day) under a per-user directory, so a re-run never
// re-fetches input already on disk.
//
// Grounded on _examples/original_source/aoc-cli/src/cache.rs; the write
// path additionally goes through a temp-file-then-rename (justified in
// DESIGN.md) so a crash mid-write can never leave a half-written cache file
// for a later run to read back as valid input.
package inputcache

import (
	"fmt"
	"os"
	"path/filepath"
)

// Cache is a file-based cache of puzzle inputs for one user, rooted at
// {baseDir}/{userID} (§6.1: filesystem path format).
type Cache struct {
	userDir string
}

// New builds a Cache for userID, rooted under baseDir.
func New(baseDir string, userID uint64) *Cache {
	return &Cache{userDir: filepath.Join(baseDir, fmt.Sprint(userID))}
}

// Path returns the cache file path for (year, day): {user_dir}/{year}_day{day:02}.txt.
func (c *Cache) Path(year uint16, day uint8) string {
	return filepath.Join(c.userDir, fmt.Sprintf("%d_day%02d.txt", year, day))
}

// Contains reports whether input for (year, day) is cached.
func (c *Cache) Contains(year uint16, day uint8) bool {
	_, err := os.Stat(c.Path(year, day))
	return err == nil
}

// Get returns the cached input for (year, day), and false if nothing is
// cached. Any other read failure (permissions, a directory where a file is
// expected) is returned as an error.
func (c *Cache) Get(year uint16, day uint8) (string, bool, error) {
	b, err := os.ReadFile(c.Path(year, day))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

// Put stores input for (year, day), creating the user directory if needed.
// The write is staged into a sibling temp file and renamed into place, so a
// reader never observes a partially-written cache file.
func (c *Cache) Put(year uint16, day uint8, input string) error {
	if err := os.MkdirAll(c.userDir, 0o755); err != nil {
		return fmt.Errorf("inputcache: create user dir %s: %w", c.userDir, err)
	}
	dst := c.Path(year, day)
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, []byte(input), 0o644); err != nil {
		return fmt.Errorf("inputcache: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("inputcache: rename %s to %s: %w", tmp, dst, err)
	}
	return nil
}
