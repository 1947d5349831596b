package inspector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/viant/astscope/inspector/clang"
	"github.com/viant/astscope/inspector/golang"
	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/java"
	"github.com/viant/astscope/inspector/jsx"
	"github.com/viant/astscope/inspector/plain"
	"github.com/viant/astscope/inspector/python"
	"github.com/viant/astscope/inspector/rust"
	"github.com/viant/astscope/inspector/syntax"
	"github.com/viant/astscope/inspector/typescript"
	"github.com/viant/astscope/inspector/web"
	"golang.org/x/sync/singleflight"
)

// ErrParseFailed indicates a file that could not be analyzed
var ErrParseFailed = errors.New("parse failed")

// Inspector provides an interface for inspecting source code
type Inspector interface {
	// Language returns language served by the inspector
	Language() info.Language

	// InspectSource parses source content and returns normalized analysis.
	// Implementations must be safe for concurrent use.
	InspectSource(ctx context.Context, path string, src []byte) (*info.File, error)
}

// Constructor creates an inspector
type Constructor func(options ...syntax.Option) (Inspector, error)

// Factory lazily creates and caches one inspector per language
type Factory struct {
	registry  map[info.Language]Constructor
	options   []syntax.Option
	logger    *slog.Logger
	mux       sync.RWMutex
	instances map[info.Language]Inspector
	failed    map[info.Language]error
	group     singleflight.Group
	fallback  Inspector
}

// NewFactory creates a new inspector factory
func NewFactory(options ...Option) *Factory {
	ret := &Factory{
		registry:  DefaultRegistry(),
		logger:    slog.Default(),
		instances: map[info.Language]Inspector{},
		failed:    map[info.Language]error{},
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.fallback, _ = plain.NewInspector()
	return ret
}

// DefaultRegistry returns constructors of all built-in languages
func DefaultRegistry() map[info.Language]Constructor {
	return map[info.Language]Constructor{
		info.Go: func(options ...syntax.Option) (Inspector, error) {
			return golang.NewInspector(options...)
		},
		info.Java: func(options ...syntax.Option) (Inspector, error) {
			return java.NewInspector(options...)
		},
		info.JavaScript: func(options ...syntax.Option) (Inspector, error) {
			return jsx.NewInspector(options...)
		},
		info.TypeScript: func(options ...syntax.Option) (Inspector, error) {
			return typescript.NewInspector(options...)
		},
		info.Python: func(options ...syntax.Option) (Inspector, error) {
			return python.NewInspector(options...)
		},
		info.Rust: func(options ...syntax.Option) (Inspector, error) {
			return rust.NewInspector(options...)
		},
		info.C: func(options ...syntax.Option) (Inspector, error) {
			return clang.NewInspector(info.C, options...)
		},
		info.Cpp: func(options ...syntax.Option) (Inspector, error) {
			return clang.NewInspector(info.Cpp, options...)
		},
		info.CSS: func(options ...syntax.Option) (Inspector, error) {
			return web.NewInspector(info.CSS, options...)
		},
		info.HTML: func(options ...syntax.Option) (Inspector, error) {
			return web.NewInspector(info.HTML, options...)
		},
	}
}

// Inspector returns cached inspector for the language, or nil when the language is
// not registered or its inspector failed to initialize
func (f *Factory) Inspector(lang info.Language) Inspector {
	f.mux.RLock()
	instance, ok := f.instances[lang]
	_, failed := f.failed[lang]
	f.mux.RUnlock()
	if ok {
		return instance
	}
	if failed {
		return nil
	}
	constructor, ok := f.registry[lang]
	if !ok {
		return nil
	}
	value, _, _ := f.group.Do(string(lang), func() (interface{}, error) {
		f.mux.RLock()
		instance, ok := f.instances[lang]
		f.mux.RUnlock()
		if ok {
			return instance, nil
		}
		instance, err := construct(constructor, f.options)
		f.mux.Lock()
		defer f.mux.Unlock()
		if err != nil {
			f.failed[lang] = err
			f.logger.Warn("inspector unavailable", slog.String("language", string(lang)), slog.String("error", err.Error()))
			return nil, nil
		}
		f.instances[lang] = instance
		return instance, nil
	})
	if value == nil {
		return nil
	}
	return value.(Inspector)
}

// ForFile returns inspector for the file extension, falling back to the simplified inspector
func (f *Factory) ForFile(path string) Inspector {
	if lang, ok := info.DetectLanguage(path); ok {
		if instance := f.Inspector(lang); instance != nil {
			return instance
		}
	}
	return f.fallback
}

// Fallback returns simplified inspector
func (f *Factory) Fallback() Inspector {
	return f.fallback
}

// Supported returns registered languages
func (f *Factory) Supported() []info.Language {
	var result = make([]info.Language, 0, len(f.registry))
	for lang := range f.registry {
		result = append(result, lang)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Extensions returns file extensions the factory can service
func (f *Factory) Extensions() []string {
	return info.ExtensionsOf(f.Supported()...)
}

// InspectFile is a convenience method that selects an inspector and analyzes the content
func (f *Factory) InspectFile(ctx context.Context, path string, src []byte) (*info.File, error) {
	file, err := f.ForFile(path).InspectSource(ctx, path, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return file, nil
}

func construct(constructor Constructor, options []syntax.Option) (ret Inspector, err error) {
	defer func() {
		if r := recover(); r != nil {
			ret, err = nil, fmt.Errorf("inspector init panic: %v", r)
		}
	}()
	ret, err = constructor(options...)
	if err == nil && ret == nil {
		err = fmt.Errorf("inspector constructor returned nil")
	}
	return ret, err
}
