package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/timeutil"
)

// FSCache keeps one JSON file per key at {dir}/{kind}/{sport}/{date}.json.
type FSCache struct {
	dir           string
	retentionDays int
	now           func() time.Time
}

// NewFSCache roots a cache at dir. Prune removes files older than
// retentionDays; zero disables pruning. Store never prunes.
func NewFSCache(dir string, retentionDays int) *FSCache {
	if retentionDays < 0 {
		retentionDays = 0
	}
	return &FSCache{dir: dir, retentionDays: retentionDays, now: time.Now}
}

// Dir exposes the cache root.
func (c *FSCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Path returns the file backing key.
func (c *FSCache) Path(key Key) string {
	return filepath.Join(c.dir, string(key.Kind), key.Sport, key.Date+".json")
}

// Has reports whether a file exists for key.
func (c *FSCache) Has(_ context.Context, key Key) bool {
	if c == nil || key.Validate() != nil {
		return false
	}
	info, err := os.Stat(c.Path(key))
	return err == nil && !info.IsDir()
}

// Load reads the stored payload for key.
func (c *FSCache) Load(_ context.Context, key Key) ([]byte, error) {
	if c == nil {
		return nil, errors.New("fs cache not configured")
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// Store writes payload atomically, creating directories as needed. Identical
// content already on disk is left untouched.
func (c *FSCache) Store(_ context.Context, key Key, payload []byte) error {
	if c == nil {
		return &WriteError{Key: key, Err: errors.New("fs cache not configured")}
	}
	if err := key.Validate(); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	if err := c.write(key, payload); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	if err := c.updateManifest(key); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return nil
}

func (c *FSCache) write(key Key, payload []byte) error {
	target := c.Path(key)
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, payload) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return writeFileAtomic(target, payload)
}

// writeFileAtomic uses a unique temp file so racing writers never share one.
func writeFileAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Dates lists the stored dates for kind and sport, ascending.
func (c *FSCache) Dates(kind slate.DatasetKind, sport string) ([]string, error) {
	dir := filepath.Join(c.dir, string(kind), sport)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	dates := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}

// Prune removes files older than the retention window for every kind and
// sport on disk, returning how many were removed.
func (c *FSCache) Prune() (int, error) {
	if c == nil || c.retentionDays == 0 {
		return 0, nil
	}
	removed := 0
	kept := map[string][]string{}
	for _, kind := range slate.DatasetKinds {
		sports, err := c.sports(kind)
		if err != nil {
			return removed, err
		}
		for _, sport := range sports {
			dates, n, err := c.pruneDates(kind, sport)
			removed += n
			if err != nil {
				return removed, err
			}
			kept[manifestKey(Key{Kind: kind, Sport: sport})] = dates
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, c.recordDates(kept)
}

func (c *FSCache) sports(kind slate.DatasetKind) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.dir, string(kind)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// pruneDates deletes expired files for one kind/sport and returns the dates kept.
func (c *FSCache) pruneDates(kind slate.DatasetKind, sport string) ([]string, int, error) {
	dates, err := c.Dates(kind, sport)
	if err != nil {
		return nil, 0, err
	}
	if c.retentionDays == 0 {
		return dates, 0, nil
	}
	now := c.now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -c.retentionDays)
	keep := []string{}
	removed := 0
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err != nil || !parsed.Before(cutoff) {
			keep = append(keep, d)
			continue
		}
		if err := os.Remove(c.Path(Key{Kind: kind, Sport: sport, Date: d})); err != nil && !errors.Is(err, os.ErrNotExist) {
			return keep, removed, err
		}
		removed++
	}
	return keep, removed, nil
}
