package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the full runtime configuration. Values resolve through the
// hierarchy: CLI flags > LOSTYEARS_* env vars > config file > these
// defaults.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	Join   JoinConfig   `yaml:"join"`
	Cache  CacheConfig  `yaml:"cache"`
	Update UpdateConfig `yaml:"update"`
	Output OutputConfig `yaml:"output"`
}

// DataConfig locates the reference datasets.
type DataConfig struct {
	// Dir is the root directory holding ssa/, hld/ and who/ data files.
	Dir string `yaml:"dir"`
}

// JoinConfig controls matching behavior.
type JoinConfig struct {
	// Unmatched is the policy for rows failing category or partition
	// resolution: "null" keeps them with empty appended columns, "drop"
	// excludes them. Empty means each source's default applies.
	Unmatched string `yaml:"unmatched"`

	// Concurrency is the number of workers joining query-row chunks in
	// parallel. 1 disables chunking.
	Concurrency int `yaml:"concurrency"`
}

// CacheConfig controls caching of fetched payloads during updates.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// UpdateConfig controls the reference-data update fetcher.
type UpdateConfig struct {
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// OutputConfig controls command output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".lostyears")

	return &Config{
		Data: DataConfig{
			Dir: filepath.Join(base, "data"),
		},
		Join: JoinConfig{
			Unmatched:   "",
			Concurrency: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     filepath.Join(base, "cache"),
			TTL:     24 * time.Hour,
		},
		Update: UpdateConfig{
			UserAgent:         "lostyears/1.0 (+https://github.com/gojiplus/lostyears)",
			Timeout:           2 * time.Minute,
			MaxBodyBytes:      64 << 20,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Output: OutputConfig{},
	}
}
