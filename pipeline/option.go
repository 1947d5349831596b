package pipeline

import (
	"log/slog"
	"time"

	"github.com/viant/astscope/fetch"
	"github.com/viant/astscope/guard"
	"github.com/viant/astscope/inspector/repository"
)

const (
	DefaultFileTimeout    = 60 * time.Second
	DefaultAnalysisTTL    = 7200 * time.Second
	DefaultSourceTTL      = 3600 * time.Second
	DefaultCloneTTL       = 7200 * time.Second
	DefaultChunkSize      = 50
	DefaultEssentialNodes = 1000
	DefaultMaxSourceBytes = 1 << 20
)

// Option represents orchestrator option
type Option func(*Orchestrator)

// WithWorkers sets worker pool size
func WithWorkers(workers int) Option {
	return func(o *Orchestrator) {
		if workers > 0 {
			o.workers = workers
		}
	}
}

// WithFileTimeout sets per file analysis budget
func WithFileTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.fileTimeout = timeout
		}
	}
}

// WithTTL sets analysis and source entry TTLs
func WithTTL(analysis, source time.Duration) Option {
	return func(o *Orchestrator) {
		if analysis > 0 {
			o.analysisTTL = analysis
		}
		if source > 0 {
			o.sourceTTL = source
		}
	}
}

// WithCloneTTL sets TTL of entries produced from temporary clones
func WithCloneTTL(ttl time.Duration) Option {
	return func(o *Orchestrator) {
		if ttl > 0 {
			o.cloneTTL = ttl
		}
	}
}

// WithChunkSize sets number of file summaries per chunk
func WithChunkSize(size int) Option {
	return func(o *Orchestrator) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// WithEssentialNodes sets essential node limit, zero disables node caching
func WithEssentialNodes(limit int) Option {
	return func(o *Orchestrator) {
		if limit >= 0 {
			o.essentialNodes = limit
		}
	}
}

// WithMaxSourceBytes sets largest source cached as text, zero disables source caching
func WithMaxSourceBytes(size int64) Option {
	return func(o *Orchestrator) {
		if size >= 0 {
			o.maxSourceBytes = size
		}
	}
}

// WithGuard sets path and URL guard
func WithGuard(g *guard.Guard) Option {
	return func(o *Orchestrator) {
		if g != nil {
			o.guard = g
		}
	}
}

// WithFetcher sets remote repository fetcher
func WithFetcher(fetcher fetch.Fetcher) Option {
	return func(o *Orchestrator) {
		if fetcher != nil {
			o.fetcher = fetcher
		}
	}
}

// WithDetector sets project detector
func WithDetector(detector *repository.Detector) Option {
	return func(o *Orchestrator) {
		if detector != nil {
			o.detector = detector
		}
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}
