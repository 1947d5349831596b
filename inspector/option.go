package inspector

import (
	"log/slog"

	"github.com/viant/astscope/inspector/info"
	"github.com/viant/astscope/inspector/syntax"
)

// Option represents factory option
type Option func(*Factory)

// WithRegistry replaces language constructors
func WithRegistry(registry map[info.Language]Constructor) Option {
	return func(f *Factory) {
		f.registry = registry
	}
}

// WithConstructor registers or overrides a language constructor
func WithConstructor(lang info.Language, constructor Constructor) Option {
	return func(f *Factory) {
		f.registry[lang] = constructor
	}
}

// WithSyntaxOptions sets options passed to every constructed inspector
func WithSyntaxOptions(options ...syntax.Option) Option {
	return func(f *Factory) {
		f.options = append(f.options, options...)
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}
