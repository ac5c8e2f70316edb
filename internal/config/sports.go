package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/slate-scores-service/internal/scoring"
)

//go:embed sports.yaml
var defaultSportsYAML []byte

// SportConfig is one entry of the sport table.
type SportConfig struct {
	Key        string                    `yaml:"-"`
	Name       string                    `yaml:"name"`
	Path       string                    `yaml:"path"`
	Groups     string                    `yaml:"groups"`
	Weights    scoring.Weights           `yaml:"weights"`
	Scaling    *scoring.ScalingFactors   `yaml:"scaling"`
	PowerIndex scoring.PowerIndexKeys    `yaml:"powerIndex"`
	Projection *scoring.ProjectionParams `yaml:"projection"`
}

// Scoring returns the engine configuration for this sport.
func (s SportConfig) Scoring() scoring.Config {
	cfg := scoring.Config{
		Weights:    s.Weights,
		PowerIndex: s.PowerIndex,
		Projection: s.Projection,
	}
	if s.Scaling != nil {
		cfg.Scaling = *s.Scaling
	}
	return cfg
}

// SportTable maps a sport key (e.g. "nba") to its configuration.
type SportTable map[string]SportConfig

type sportFile struct {
	Sports map[string]SportConfig `yaml:"sports"`
}

// DefaultSportTable parses the embedded table.
func DefaultSportTable() (SportTable, error) {
	return ParseSportTable(defaultSportsYAML)
}

// LoadSportTable reads the table at path, or the embedded default when path is empty.
func LoadSportTable(path string) (SportTable, error) {
	if path == "" {
		return DefaultSportTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sports config: %w", err)
	}
	return ParseSportTable(data)
}

// ParseSportTable decodes and validates a YAML sport table.
func ParseSportTable(data []byte) (SportTable, error) {
	var f sportFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sports yaml: %w", err)
	}
	table := make(SportTable, len(f.Sports))
	for key, sc := range f.Sports {
		key = strings.ToLower(strings.TrimSpace(key))
		sc.Key = key
		table[key] = sc
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("validate sports config: %w", err)
	}
	return table, nil
}

// Validate checks every sport. Scaling factors are required on each entry.
func (t SportTable) Validate() error {
	if len(t) == 0 {
		return errors.New("no sports configured")
	}
	var errs []error
	for _, key := range t.Keys() {
		sc := t[key]
		if sc.Path == "" {
			errs = append(errs, fmt.Errorf("%s: provider path is required", key))
		}
		if sc.Scaling == nil {
			errs = append(errs, fmt.Errorf("%s: scaling factors are required", key))
			continue
		}
		if err := sc.Scoring().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Keys returns the configured sport keys in sorted order.
func (t SportTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the config for sport.
func (t SportTable) Get(sport string) (SportConfig, bool) {
	sc, ok := t[strings.ToLower(strings.TrimSpace(sport))]
	return sc, ok
}
