package discover

import (
	"log/slog"
	"strings"
)

const (
	DefaultMaxFileSize  = 10 << 20
	DefaultMaxTotalSize = 500 << 20
	DefaultMaxFiles     = 10000
)

// DefaultExcludedDirs lists version control, virtual environment, build and dependency cache directories
var DefaultExcludedDirs = []string{
	".git", "__pycache__", "venv", "env", ".env", "node_modules", ".venv",
	"site-packages", "dist", "build", ".pytest_cache", ".mypy_cache", ".tox",
	"htmlcov", ".coverage", "target", "vendor", ".idea", ".gradle",
}

// Option represents discoverer option
type Option func(*Discoverer)

// WithMaxFileSize sets individual file ceiling, larger files are skipped
func WithMaxFileSize(size int64) Option {
	return func(d *Discoverer) {
		if size > 0 {
			d.maxFileSize = size
		}
	}
}

// WithMaxTotalSize sets cumulative size ceiling
func WithMaxTotalSize(size int64) Option {
	return func(d *Discoverer) {
		if size > 0 {
			d.maxTotalSize = size
		}
	}
}

// WithMaxFiles sets file count ceiling
func WithMaxFiles(count int) Option {
	return func(d *Discoverer) {
		if count > 0 {
			d.maxFiles = count
		}
	}
}

// WithExcludedDirs replaces excluded directory names
func WithExcludedDirs(names ...string) Option {
	return func(d *Discoverer) {
		d.excluded = map[string]bool{}
		for _, name := range names {
			d.excluded[name] = true
		}
	}
}

// WithExtensions sets allowed file extensions, an empty list allows every file
func WithExtensions(extensions ...string) Option {
	return func(d *Discoverer) {
		d.extensions = map[string]bool{}
		for _, ext := range extensions {
			d.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}
