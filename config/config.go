package config

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/viant/afs"
	"github.com/viant/astscope/discover"
	"gopkg.in/yaml.v3"
)

const (
	mb = 1 << 20
)

// Config represents analysis pipeline configuration
type Config struct {
	Discovery Discovery `yaml:"discovery"`
	Analysis  Analysis  `yaml:"analysis"`
	Cache     Cache     `yaml:"cache"`
	Guard     Guard     `yaml:"guard"`
	Fetch     Fetch     `yaml:"fetch"`
}

// Discovery bounds repository traversal
type Discovery struct {
	MaxFileSize       int64    `yaml:"maxFileSize" validate:"gt=0"`
	MaxTotalSize      int64    `yaml:"maxTotalSize" validate:"gtefield=MaxFileSize"`
	MaxFiles          int      `yaml:"maxFiles" validate:"gt=0"`
	ExcludedDirs      []string `yaml:"excludedDirs"`
	AllowedExtensions []string `yaml:"allowedExtensions" validate:"dive,startswith=."`
}

// Analysis controls the worker pool and per file output
type Analysis struct {
	Workers        int           `yaml:"workers" validate:"gte=1"`
	FileTimeout    time.Duration `yaml:"fileTimeout" validate:"gt=0"`
	MaxNodes       int           `yaml:"maxNodes" validate:"gte=1"`
	ChunkSize      int           `yaml:"chunkSize" validate:"gte=1"`
	EssentialNodes int           `yaml:"essentialNodes" validate:"gte=0"`
	MaxSourceBytes int64         `yaml:"maxSourceBytes" validate:"gte=0"`
}

// Cache controls cache backend and ceilings
type Cache struct {
	Backend       string        `yaml:"backend" validate:"oneof=memory badger"`
	Path          string        `yaml:"path"`
	MaxBytes      int64         `yaml:"maxBytes" validate:"gt=0"`
	MaxItems      int           `yaml:"maxItems" validate:"gt=0"`
	AnalysisTTL   time.Duration `yaml:"analysisTTL" validate:"gt=0"`
	SourceTTL     time.Duration `yaml:"sourceTTL" validate:"gt=0"`
	CloneTTL      time.Duration `yaml:"cloneTTL" validate:"gt=0"`
	SweepInterval time.Duration `yaml:"sweepInterval" validate:"gte=0"`
	GCInterval    time.Duration `yaml:"gcInterval" validate:"gte=0"`
}

// Guard controls path and URL validation
type Guard struct {
	SystemDirs     []string `yaml:"systemDirs"`
	AllowedSchemes []string `yaml:"allowedSchemes" validate:"min=1"`
	BlockedHosts   []string `yaml:"blockedHosts"`
}

// Fetch controls remote clone
type Fetch struct {
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	Depth   int           `yaml:"depth" validate:"gte=0"`
}

// DefaultWorkers returns half of available CPUs, at least one
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()/2)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Discovery: Discovery{
			MaxFileSize:  discover.DefaultMaxFileSize,
			MaxTotalSize: discover.DefaultMaxTotalSize,
			MaxFiles:     discover.DefaultMaxFiles,
			ExcludedDirs: append([]string{}, discover.DefaultExcludedDirs...),
		},
		Analysis: Analysis{
			Workers:        DefaultWorkers(),
			FileTimeout:    60 * time.Second,
			MaxNodes:       5000,
			ChunkSize:      50,
			EssentialNodes: 1000,
			MaxSourceBytes: 1 * mb,
		},
		Cache: Cache{
			Backend:       "memory",
			MaxBytes:      100 * mb,
			MaxItems:      1000,
			AnalysisTTL:   7200 * time.Second,
			SourceTTL:     3600 * time.Second,
			CloneTTL:      7200 * time.Second,
			SweepInterval: time.Minute,
			GCInterval:    5 * time.Minute,
		},
		Guard: Guard{
			SystemDirs:     []string{"/bin", "/sbin", "/etc", "/sys", "/proc", "/dev"},
			AllowedSchemes: []string{"http", "https", "git"},
			BlockedHosts:   []string{"localhost", "127.0.0.1", "0.0.0.0", "::1"},
		},
		Fetch: Fetch{
			Timeout: 5 * time.Minute,
			Depth:   1,
		},
	}
}

// Validate checks configuration constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Cache.Backend == "badger" && c.Cache.Path == "" {
		return fmt.Errorf("invalid config: cache.path is required for badger backend")
	}
	return nil
}

// Load loads YAML configuration from URL over defaults
func Load(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration over defaults
func Parse(data []byte) (*Config, error) {
	ret := Default()
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
