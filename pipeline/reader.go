package pipeline

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/viant/astscope/cache"
	"github.com/viant/astscope/inspector/info"
)

// MaxSearchResults bounds node search output
const MaxSearchResults = 100

// Reader serves cached run data to downstream consumers
type Reader struct {
	cache *cache.Cache
}

// Run returns cached run record
func (r *Reader) Run(ctx context.Context, runID string) (*Record, error) {
	ret := &Record{}
	if err := r.get(ctx, cache.AnalysisKey(runID), ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Files returns file summaries reassembled from chunks
func (r *Reader) Files(ctx context.Context, runID string) ([]info.FileSummary, error) {
	if r.cache == nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, runID)
	}
	ret := cache.GetChunks[info.FileSummary](ctx, r.cache, cache.FilesKey(runID))
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, cache.FilesKey(runID))
	}
	return ret, nil
}

// File returns full file analysis by relative path
func (r *Reader) File(ctx context.Context, runID, name string) (*info.File, error) {
	ret := &info.File{}
	if err := r.get(ctx, cache.FileKey(runID, name), ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Source returns cached source trying the given path, its slash form and its base name
func (r *Reader) Source(ctx context.Context, runID, location string) (*Source, error) {
	variants := []string{location}
	if slashed := filepath.ToSlash(location); slashed != location {
		variants = append(variants, slashed)
	}
	if base := path.Base(filepath.ToSlash(location)); base != location {
		variants = append(variants, base)
	}
	for _, variant := range variants {
		ret := &Source{}
		if err := r.get(ctx, cache.SourceKey(runID, variant), ret); err == nil {
			return ret, nil
		}
	}
	return nil, fmt.Errorf("%w: source %v", ErrNotFound, location)
}

// SearchNodes returns essential nodes whose name or type contains query, optionally filtered by type
func (r *Reader) SearchNodes(ctx context.Context, runID, query, nodeType string) ([]EssentialNode, error) {
	var nodes []EssentialNode
	if err := r.get(ctx, cache.NodesKey(runID), &nodes); err != nil {
		return nil, err
	}
	query = strings.ToLower(query)
	var result = make([]EssentialNode, 0)
	for _, node := range nodes {
		if nodeType != "" && node.Type != nodeType {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(node.Name), query) && !strings.Contains(node.Type, query) {
			continue
		}
		result = append(result, node)
		if len(result) >= MaxSearchResults {
			break
		}
	}
	return result, nil
}

// Invalidate removes every cached entry of the run, returns removed count
func (r *Reader) Invalidate(ctx context.Context, runID string) int {
	if r.cache == nil {
		return 0
	}
	return r.cache.ClearPrefix(ctx, cache.RunPrefixes(runID)...)
}

func (r *Reader) get(ctx context.Context, key string, dest interface{}) error {
	if r.cache == nil || !r.cache.Get(ctx, key, dest) {
		return fmt.Errorf("%w: %v", ErrNotFound, key)
	}
	return nil
}

// NewReader creates cache reader
func NewReader(c *cache.Cache) *Reader {
	return &Reader{cache: c}
}
