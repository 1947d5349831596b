package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/viant/afs"
	"github.com/viant/astscope/cache"
	"github.com/viant/astscope/config"
	"github.com/viant/astscope/discover"
	"github.com/viant/astscope/fetch"
	"github.com/viant/astscope/guard"
	"github.com/viant/astscope/inspector"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/repository"
	"github.com/viant/astscope/inspector/syntax"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Orchestrator runs discovery, bounded parallel analysis, aggregation and caching
type Orchestrator struct {
	factory        *inspector.Factory
	discoverer     *discover.Discoverer
	cache          *cache.Cache
	guard          *guard.Guard
	fetcher        fetch.Fetcher
	detector       *repository.Detector
	fs             afs.Service
	registry       *registry
	workers        int
	fileTimeout    time.Duration
	analysisTTL    time.Duration
	sourceTTL      time.Duration
	cloneTTL       time.Duration
	chunkSize      int
	essentialNodes int
	maxSourceBytes int64
	logger         *slog.Logger
}

// Reader returns cache reader sharing orchestrator cache
func (o *Orchestrator) Reader() *Reader {
	return NewReader(o.cache)
}

// AnalyzeLocal validates path and analyzes it under a new run id
func (o *Orchestrator) AnalyzeLocal(ctx context.Context, location string) (*Result, error) {
	root, err := o.guard.ValidateLocalPath(location)
	if err != nil {
		return nil, err
	}
	return o.analyze(ctx, root, NewRunID(), "", false)
}

// AnalyzeRemote validates URL, clones it into a temporary directory and analyzes the clone
func (o *Orchestrator) AnalyzeRemote(ctx context.Context, URL string) (*Result, error) {
	if err := o.guard.ValidateRemoteURL(URL); err != nil {
		return nil, err
	}
	tempDir, err := os.MkdirTemp("", "astscope-")
	if err != nil {
		return nil, fmt.Errorf("failed to create clone directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			o.logger.Warn("failed to remove clone directory", slog.String("dir", tempDir), slog.String("error", err.Error()))
		}
	}()
	dest := filepath.Join(tempDir, "repo")
	if err = o.fetcher.Fetch(ctx, URL, dest); err != nil {
		return nil, err
	}
	return o.analyze(ctx, dest, NewRunID(), URL, true)
}

// Analyze analyzes an already validated root under runID
func (o *Orchestrator) Analyze(ctx context.Context, root string, runID string) (*Result, error) {
	return o.analyze(ctx, root, runID, "", false)
}

func (o *Orchestrator) analyze(ctx context.Context, root, runID, origin string, temporary bool) (*Result, error) {
	started := time.Now()
	ctx, span := startRunSpan(ctx, runID, root)
	defer span.End()
	state := newRun(runID, o.logger)

	discovered, err := o.discoverer.Discover(ctx, root)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(discovered.Files) == 0 {
		span.SetStatus(codes.Error, ErrNoAnalyzableFiles.Error())
		return nil, fmt.Errorf("%w: %v", ErrNoAnalyzableFiles, root)
	}
	o.logger.Info("analysis started", slog.String("run", runID), slog.String("root", root), slog.Int("files", len(discovered.Files)))

	if err = state.advance(StageAnalyzing); err != nil {
		return nil, err
	}
	defer o.registry.release(runID)
	files, failures := o.analyzeAll(ctx, runID, discovered.Files)
	if len(files) == 0 {
		span.SetStatus(codes.Error, ErrNoAnalyzableFiles.Error())
		return nil, fmt.Errorf("%w: all %d files failed in %v", ErrNoAnalyzableFiles, failures, root)
	}

	if err = state.advance(StageAggregating); err != nil {
		return nil, err
	}
	result := &Result{
		RunID:      runID,
		Root:       root,
		Origin:     origin,
		Summary:    Summarize(files),
		Metrics:    Measure(files),
		Files:      files,
		Discovered: len(discovered.Files),
		Failures:   failures,
	}
	if result.Project, err = o.detector.DetectProject(ctx, root, root); err != nil {
		o.logger.Debug("project detection failed", slog.String("root", root), slog.String("error", err.Error()))
	}

	if err = state.advance(StageCaching); err != nil {
		return nil, err
	}
	result.AnalysisTime = time.Since(started)
	o.store(ctx, result, temporary)

	if err = state.advance(StageDone); err != nil {
		return nil, err
	}
	recordRun(ctx, result.AnalysisTime, len(files), failures)
	o.logger.Info("analysis completed",
		slog.String("run", runID),
		slog.Int("files", len(files)),
		slog.Int("failures", failures),
		slog.Duration("elapsed", result.AnalysisTime))
	return result, nil
}

// analyzeAll runs every candidate through the worker pool, failed files leave their slot empty
func (o *Orchestrator) analyzeAll(ctx context.Context, runID string, candidates []discover.Candidate) ([]*info.File, int) {
	slots := make([]*info.File, len(candidates))
	var failures atomic.Int32
	var group errgroup.Group
	group.SetLimit(o.workers)
	for i, candidate := range candidates {
		group.Go(func() error {
			file, err := o.analyzeFile(ctx, candidate)
			if err != nil {
				failures.Add(1)
				o.logger.Warn("file analysis failed",
					slog.String("run", runID),
					slog.String("path", candidate.Rel),
					slog.String("error", err.Error()))
				return nil
			}
			if duplicates := o.registry.add(runID, i, file.Nodes); duplicates > 0 {
				o.logger.Warn("duplicate node ids", slog.String("path", candidate.Rel), slog.Int("count", duplicates))
			}
			slots[i] = file
			return nil
		})
	}
	_ = group.Wait()
	files := make([]*info.File, 0, len(slots))
	for _, file := range slots {
		if file != nil {
			files = append(files, file)
		}
	}
	return files, int(failures.Load())
}

type outcome struct {
	file *info.File
	err  error
}

// analyzeFile inspects one file under the per file timeout; a panic or timeout becomes an error
func (o *Orchestrator) analyzeFile(ctx context.Context, candidate discover.Candidate) (*info.File, error) {
	ctx, span := startFileSpan(ctx, candidate.Rel, candidate.Size)
	defer span.End()
	started := time.Now()
	selected := o.factory.ForFile(candidate.Path)
	language := string(selected.Language())

	ctx, cancel := context.WithTimeout(ctx, o.fileTimeout)
	defer cancel()
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: panic: %v", inspector.ErrParseFailed, r)}
			}
		}()
		content, err := o.fs.DownloadWithURL(ctx, candidate.Path)
		if err != nil {
			done <- outcome{err: fmt.Errorf("%w: %w", inspector.ErrParseFailed, err)}
			return
		}
		file, err := selected.InspectSource(ctx, candidate.Rel, content)
		if err != nil {
			err = fmt.Errorf("%w: %w", inspector.ErrParseFailed, err)
		}
		done <- outcome{file: file, err: err}
	}()

	var result outcome
	select {
	case result = <-done:
	case <-ctx.Done():
	}
	if result.file == nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			result.err = fmt.Errorf("%w: %v after %s", ErrTimeout, candidate.Rel, o.fileTimeout)
		} else if result.err == nil {
			result.err = fmt.Errorf("%w: %v: %v", inspector.ErrParseFailed, candidate.Rel, context.Cause(ctx))
		}
	}
	reason := ""
	switch {
	case errors.Is(result.err, ErrTimeout):
		reason = "timeout"
	case result.err != nil:
		reason = "parse"
	}
	if result.err != nil {
		span.SetStatus(codes.Error, result.err.Error())
	}
	recordFile(ctx, language, time.Since(started), reason)
	return result.file, result.err
}

// store writes sources and per file records before file chunks and the run record; cache failures only log
func (o *Orchestrator) store(ctx context.Context, result *Result, temporary bool) {
	if o.cache == nil {
		return
	}
	analysisTTL, sourceTTL := o.analysisTTL, o.sourceTTL
	if temporary {
		analysisTTL, sourceTTL = o.cloneTTL, o.cloneTTL
	}
	runID := result.RunID
	keys := o.storeSources(ctx, result, temporary, sourceTTL)
	summaries := make([]info.FileSummary, 0, len(result.Files))
	for _, file := range result.Files {
		summaries = append(summaries, file.Summary())
		o.cache.Set(ctx, cache.FileKey(runID, file.Path), file, analysisTTL)
	}
	keys += len(result.Files)
	if o.essentialNodes > 0 {
		if nodes := o.registry.essential(runID, o.essentialNodes); len(nodes) > 0 {
			o.cache.Set(ctx, cache.NodesKey(runID), nodes, analysisTTL)
			keys++
		}
	}
	chunkSize := cache.ChunkSize(len(summaries), o.chunkSize)
	chunks := cache.PutChunks(ctx, o.cache, cache.FilesKey(runID), summaries, chunkSize, analysisTTL)
	keys += chunks + 1
	record := &Record{
		RunID:        runID,
		Root:         result.Root,
		Origin:       result.Origin,
		Project:      result.Project,
		Summary:      result.Summary,
		Metrics:      result.Metrics,
		AnalysisTime: result.AnalysisTime.Seconds(),
		Timestamp:    time.Now(),
		FileCount:    len(result.Files),
		Temporary:    temporary,
	}
	if !o.cache.Set(ctx, cache.AnalysisKey(runID), record, analysisTTL) {
		o.logger.Warn("run record not cached", slog.String("run", runID))
	}
	if capacity := o.cache.Capacity(); capacity > 0 && keys > capacity {
		o.logger.Warn("run exceeds cache item ceiling, earliest file and source entries were evicted",
			slog.String("run", runID),
			slog.Int("keys", keys),
			slog.Int("limit", capacity))
	}
	o.logger.Debug("analysis cached",
		slog.String("run", runID),
		slog.Int("chunks", chunks),
		slog.Int("chunkSize", chunkSize),
		slog.Int("nodes", o.registry.size(runID)),
		slog.Int("keys", keys))
}

// storeSources caches source text under every path variant, returns number of keys written
func (o *Orchestrator) storeSources(ctx context.Context, result *Result, temporary bool, ttl time.Duration) int {
	if o.maxSourceBytes <= 0 {
		return 0
	}
	stored := 0
	for _, file := range result.Files {
		if file.Encoding != info.EncodingUTF8 || int64(file.SizeBytes) > o.maxSourceBytes {
			continue
		}
		location := filepath.Join(result.Root, filepath.FromSlash(file.Path))
		content, err := o.fs.DownloadWithURL(ctx, location)
		if err != nil {
			o.logger.Warn("failed to cache source", slog.String("path", file.Path), slog.String("error", err.Error()))
			continue
		}
		source := &Source{Source: string(content), Encoding: file.Encoding, Lines: file.Lines, Size: len(content), Path: file.Path}
		variants := []string{file.Path}
		if base := path.Base(file.Path); base != file.Path {
			variants = append(variants, base)
		}
		if temporary {
			variants = append(variants, location)
		}
		for _, variant := range variants {
			if o.cache.Set(ctx, cache.SourceKey(result.RunID, variant), source, ttl) {
				stored++
			}
		}
	}
	return stored
}

// New creates orchestrator; cache may be nil, in which case results are only returned
func New(factory *inspector.Factory, discoverer *discover.Discoverer, c *cache.Cache, options ...Option) *Orchestrator {
	ret := &Orchestrator{
		factory:        factory,
		discoverer:     discoverer,
		cache:          c,
		fs:             afs.New(),
		registry:       newRegistry(),
		workers:        config.DefaultWorkers(),
		fileTimeout:    DefaultFileTimeout,
		analysisTTL:    DefaultAnalysisTTL,
		sourceTTL:      DefaultSourceTTL,
		cloneTTL:       DefaultCloneTTL,
		chunkSize:      DefaultChunkSize,
		essentialNodes: DefaultEssentialNodes,
		maxSourceBytes: DefaultMaxSourceBytes,
		logger:         slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.guard == nil {
		ret.guard = guard.New(guard.WithLogger(ret.logger))
	}
	if ret.fetcher == nil {
		ret.fetcher = fetch.NewGit(fetch.WithLogger(ret.logger))
	}
	if ret.detector == nil {
		ret.detector = repository.New()
	}
	return ret
}

// FromConfig assembles factory, discoverer, cache, guard and fetcher from configuration
func FromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	factory := inspector.NewFactory(
		inspector.WithLogger(logger),
		inspector.WithSyntaxOptions(syntax.WithMaxNodes(cfg.Analysis.MaxNodes)),
	)
	extensions := cfg.Discovery.AllowedExtensions
	if len(extensions) == 0 {
		extensions = factory.Extensions()
	}
	discoverer := discover.New(
		discover.WithMaxFileSize(cfg.Discovery.MaxFileSize),
		discover.WithMaxTotalSize(cfg.Discovery.MaxTotalSize),
		discover.WithMaxFiles(cfg.Discovery.MaxFiles),
		discover.WithExcludedDirs(cfg.Discovery.ExcludedDirs...),
		discover.WithExtensions(extensions...),
		discover.WithLogger(logger),
	)
	guardOptions := []guard.Option{guard.WithSchemes(cfg.Guard.AllowedSchemes...), guard.WithLogger(logger)}
	if len(cfg.Guard.SystemDirs) > 0 {
		guardOptions = append(guardOptions, guard.WithSystemDirs(cfg.Guard.SystemDirs...))
	}
	if len(cfg.Guard.BlockedHosts) > 0 {
		guardOptions = append(guardOptions, guard.WithBlockedHosts(cfg.Guard.BlockedHosts...))
	}
	return New(factory, discoverer, cache.New(ctx, cfg.Cache, cache.WithLogger(logger)),
		WithWorkers(cfg.Analysis.Workers),
		WithFileTimeout(cfg.Analysis.FileTimeout),
		WithTTL(cfg.Cache.AnalysisTTL, cfg.Cache.SourceTTL),
		WithCloneTTL(cfg.Cache.CloneTTL),
		WithChunkSize(cfg.Analysis.ChunkSize),
		WithEssentialNodes(cfg.Analysis.EssentialNodes),
		WithMaxSourceBytes(cfg.Analysis.MaxSourceBytes),
		WithGuard(guard.New(guardOptions...)),
		WithFetcher(fetch.NewGit(fetch.WithTimeout(cfg.Fetch.Timeout), fetch.WithDepth(cfg.Fetch.Depth), fetch.WithLogger(logger))),
		WithLogger(logger),
	), nil
}
