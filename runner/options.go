package runner

import (
	"github.com/sirupsen/logrus"

	ai "github.com/calebmweir/parley"
)

// DefaultMaxIterations bounds the loop when no explicit limit is set.
const DefaultMaxIterations = 10

// DefaultMaxTokens is the output-token limit used when none is set.
const DefaultMaxTokens = 4096

// Options contains configuration for a Runner.
type Options struct {
	// Model is the model identifier for every turn.
	Model string

	// MaxTokens limits output tokens per turn. Default is 4096.
	MaxTokens int

	// System is an optional system prompt applied to every turn.
	System string

	// MaxIterations bounds the number of model turns per run. Default is
	// 10. Exceeding it terminates the loop silently; it is not an error.
	MaxIterations int

	// Compaction configures automatic history compaction.
	Compaction CompactionConfig

	// Counter measures conversation size for compaction. Required only
	// when compaction is enabled.
	Counter TokenCounter

	// Logger enables debug tracing of tool dispatch and compaction.
	// The loop stays silent when nil.
	Logger *logrus.Logger

	// CallOptions are appended to every model call (temperature, stop
	// sequences, ...).
	CallOptions []ai.Option
}

// Option is a functional option for configuring a Runner.
type Option func(*Options)

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the per-turn output token limit.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithSystem sets the system prompt.
func WithSystem(system string) Option {
	return func(o *Options) {
		o.System = system
	}
}

// WithMaxIterations bounds the number of model turns per run.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithCompaction enables automatic history compaction.
func WithCompaction(cfg CompactionConfig) Option {
	return func(o *Options) {
		o.Compaction = cfg
	}
}

// WithTokenCounter sets the token-count capability used by compaction.
func WithTokenCounter(c TokenCounter) Option {
	return func(o *Options) {
		o.Counter = c
	}
}

// WithLogger enables debug logging.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithCallOptions appends request options to every model call.
func WithCallOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.CallOptions = append(o.CallOptions, opts...)
	}
}

// ApplyOptions applies functional options with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxTokens:     DefaultMaxTokens,
		MaxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
