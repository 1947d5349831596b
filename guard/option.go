package guard

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// Option represents guard option
type Option func(*Guard)

// WithSystemDirs sets directories rejected by ValidateLocalPath
func WithSystemDirs(dirs ...string) Option {
	return func(g *Guard) {
		g.systemDirs = g.systemDirs[:0]
		for _, dir := range dirs {
			g.systemDirs = append(g.systemDirs, filepath.Clean(dir))
		}
	}
}

// WithSchemes sets accepted URL schemes
func WithSchemes(schemes ...string) Option {
	return func(g *Guard) {
		g.schemes = map[string]bool{}
		for _, scheme := range schemes {
			g.schemes[strings.ToLower(scheme)] = true
		}
	}
}

// WithBlockedHosts sets hosts rejected by ValidateRemoteURL
func WithBlockedHosts(hosts ...string) Option {
	return func(g *Guard) {
		g.blockedHosts = map[string]bool{}
		for _, host := range hosts {
			g.blockedHosts[strings.ToLower(host)] = true
		}
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}
