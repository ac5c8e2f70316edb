package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const manifestVersion = 1

// Manifest summarizes what the fs cache holds.
type Manifest struct {
	Version       int                      `json:"version"`
	GeneratedAt   time.Time                `json:"generatedAt"`
	RetentionDays int                      `json:"retentionDays"`
	Entries       map[string]ManifestEntry `json:"entries"`
}

// ManifestEntry lists the dates stored for one kind/sport pair.
type ManifestEntry struct {
	Dates       []string  `json:"dates"`
	LastWritten time.Time `json:"lastWritten"`
}

func defaultManifest(retentionDays int) Manifest {
	return Manifest{
		Version:       manifestVersion,
		GeneratedAt:   time.Now().UTC(),
		RetentionDays: retentionDays,
		Entries:       map[string]ManifestEntry{},
	}
}

func manifestKey(key Key) string {
	return string(key.Kind) + "/" + key.Sport
}

func (c *FSCache) manifestPath() string {
	return filepath.Join(c.dir, "manifest.json")
}

// Manifest reads the current manifest, or an empty one when none exists.
func (c *FSCache) Manifest() (Manifest, error) {
	return readManifest(c.manifestPath(), c.retentionDays)
}

// updateManifest records the dates on disk for the key's kind/sport. Dates are
// rebuilt from the directory, so a lost concurrent update heals on the next
// store.
func (c *FSCache) updateManifest(key Key) error {
	dates, err := c.Dates(key.Kind, key.Sport)
	if err != nil {
		return err
	}
	return c.recordDates(map[string][]string{manifestKey(key): dates})
}

func (c *FSCache) recordDates(entries map[string][]string) error {
	m, _ := readManifest(c.manifestPath(), c.retentionDays)
	if m.Entries == nil {
		m.Entries = map[string]ManifestEntry{}
	}
	now := c.now().UTC()
	for k, dates := range entries {
		m.Entries[k] = ManifestEntry{Dates: dates, LastWritten: now}
	}
	m.RetentionDays = c.retentionDays
	return writeManifest(c.dir, m)
}

func readManifest(path string, retentionDays int) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return defaultManifest(retentionDays), err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return defaultManifest(retentionDays), err
	}
	return m, nil
}

func writeManifest(dir string, m Manifest) error {
	m.Version = manifestVersion
	m.GeneratedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, "manifest.json"), data)
}
