package engine

import (
	"io"
	"log/slog"

	"github.com/EdwardDiehl/file-indexer/internal/index"
	"github.com/EdwardDiehl/file-indexer/internal/tokenizer"
)

// DefaultFilterPattern is the file filter applied when none is configured.
const DefaultFilterPattern = "*.txt"

// Option configures an Engine under construction.
type Option func(*options) error

type options struct {
	roots  []string
	tok    tokenizer.Tokenizer
	filter index.Filter
	logger *slog.Logger
}

func defaultOptions() options {
	filter, _ := index.GlobFilter(DefaultFilterPattern)
	return options{
		tok:    tokenizer.Simple{},
		filter: filter,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithRoots sets the paths scanned at start and watched afterwards.
func WithRoots(roots ...string) Option {
	return func(o *options) error {
		o.roots = append(o.roots, roots...)
		return nil
	}
}

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(tok tokenizer.Tokenizer) Option {
	return func(o *options) error {
		o.tok = tok
		return nil
	}
}

// WithFilter replaces the default *.txt file filter.
func WithFilter(filter index.Filter) Option {
	return func(o *options) error {
		o.filter = filter
		return nil
	}
}

// WithFilterPatterns replaces the file filter with one compiled from glob
// patterns matched against base names.
func WithFilterPatterns(patterns ...string) Option {
	return func(o *options) error {
		filter, err := index.GlobFilter(patterns...)
		if err != nil {
			return err
		}
		o.filter = filter
		return nil
	}
}

// WithLogger sets the logger. By default the engine is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
