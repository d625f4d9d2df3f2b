// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
)

// Dir resolves the base cache directory.
// Precedence:
//  1. STATSCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/statsctl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("STATSCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "statsctl"), true
	}
	return "", false
}

// Enabled returns true unless STATSCTL_CACHE explicitly disables it
// ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("STATSCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and a
// base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// FileStore keeps one file per key beneath a directory. File names are the
// MD5 of the key.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// lazily on the first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, encodeKey(key))
}

func (s *FileStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache file: %w", err)
	}
	return bytes.TrimSpace(b), true, nil
}

func (s *FileStore) Save(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(s.path(key), data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Purge removes files last written more than maxAge ago. A maxAge <= 0 is a
// no-op. It returns the number of files removed. Purge is housekeeping only;
// expiry on read does not depend on it.
func (s *FileStore) Purge(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}

	removed := 0
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				removed++
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}
	return removed, nil
}

// Stats describes the files currently in the store.
type Stats struct {
	Dir        string    `json:"dir" yaml:"dir"`
	Entries    int       `json:"entries" yaml:"entries"`
	TotalBytes int64     `json:"totalBytes" yaml:"totalBytes"`
	Oldest     time.Time `json:"oldest" yaml:"oldest"`
}

// Stats walks the store directory. A missing directory yields empty stats.
func (s *FileStore) Stats() (Stats, error) {
	stats := Stats{Dir: s.dir}
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
		if stats.Oldest.IsZero() || info.ModTime().Before(stats.Oldest) {
			stats.Oldest = info.ModTime()
		}
	}
	return stats, nil
}
