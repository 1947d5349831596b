package discover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// Ceiling identifies the limit that halted traversal
type Ceiling string

const (
	CeilingNone      Ceiling = ""
	CeilingFileCount Ceiling = "file_count"
	CeilingTotalSize Ceiling = "total_size"
)

// ErrNotDirectory indicates a discovery root that is not a directory
var ErrNotDirectory = errors.New("not a directory")

// Candidate represents a file selected for analysis
type Candidate struct {
	Path string `json:"path"`
	Rel  string `json:"rel"`
	Size int64  `json:"size"`
}

// Result represents discovery outcome
type Result struct {
	Root       string
	Files      []Candidate
	TotalBytes int64
	Oversized  int
	Unreadable int
	Stop       Ceiling
}

// Paths returns candidate paths in discovery order
func (r *Result) Paths() []string {
	var result = make([]string, 0, len(r.Files))
	for _, candidate := range r.Files {
		result = append(result, candidate.Path)
	}
	return result
}

// Discoverer walks a validated root and returns a bounded candidate list
type Discoverer struct {
	maxFileSize  int64
	maxTotalSize int64
	maxFiles     int
	excluded     map[string]bool
	extensions   map[string]bool
	logger       *slog.Logger
}

// New creates a discoverer
func New(options ...Option) *Discoverer {
	ret := &Discoverer{
		maxFileSize:  DefaultMaxFileSize,
		maxTotalSize: DefaultMaxTotalSize,
		maxFiles:     DefaultMaxFiles,
		excluded:     map[string]bool{},
		extensions:   map[string]bool{},
		logger:       slog.Default(),
	}
	WithExcludedDirs(DefaultExcludedDirs...)(ret)
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Discover walks root in lexical order; excluded directories are pruned, traversal halts at the first global ceiling
func (d *Discoverer) Discover(ctx context.Context, root string) (*Result, error) {
	ret := &Result{Root: root}
	err := filepath.WalkDir(root, func(location string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if location == root {
				return err
			}
			ret.Unreadable++
			d.logger.Warn("skipping unreadable entry", slog.String("path", location), slog.String("error", err.Error()))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if location == root && !entry.IsDir() {
			return ErrNotDirectory
		}
		if entry.IsDir() {
			if location != root && d.excluded[entry.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || !d.isAllowed(entry.Name()) {
			return nil
		}
		fileInfo, err := entry.Info()
		if err != nil {
			ret.Unreadable++
			d.logger.Warn("skipping file", slog.String("path", location), slog.String("error", err.Error()))
			return nil
		}
		size := fileInfo.Size()
		if size > d.maxFileSize {
			ret.Oversized++
			d.logger.Debug("skipping oversized file", slog.String("path", location), slog.String("size", humanize.IBytes(uint64(size))))
			return nil
		}
		if ret.TotalBytes+size > d.maxTotalSize {
			ret.Stop = CeilingTotalSize
			d.logger.Warn("discovery halted: total size ceiling reached",
				slog.String("root", root),
				slog.String("limit", humanize.IBytes(uint64(d.maxTotalSize))),
				slog.String("discovered", humanize.IBytes(uint64(ret.TotalBytes))),
				slog.Int("files", len(ret.Files)))
			return fs.SkipAll
		}
		rel, _ := filepath.Rel(root, location)
		ret.Files = append(ret.Files, Candidate{Path: location, Rel: filepath.ToSlash(rel), Size: size})
		ret.TotalBytes += size
		if len(ret.Files) >= d.maxFiles {
			ret.Stop = CeilingFileCount
			d.logger.Warn("discovery halted: file count ceiling reached",
				slog.String("root", root),
				slog.Int("limit", d.maxFiles),
				slog.String("discovered", humanize.IBytes(uint64(ret.TotalBytes))))
			return fs.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		return nil, fmt.Errorf("failed to discover files in %v: %w", root, err)
	}
	d.logger.Debug("discovery completed", slog.String("root", root), slog.Int("files", len(ret.Files)),
		slog.String("size", humanize.IBytes(uint64(ret.TotalBytes))))
	return ret, nil
}

func (d *Discoverer) isAllowed(name string) bool {
	if len(d.extensions) == 0 {
		return true
	}
	return d.extensions[strings.ToLower(filepath.Ext(name))]
}
