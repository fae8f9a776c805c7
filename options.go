package parley

// Options contains configuration for a model request.
type Options struct {
	Model         string
	MaxTokens     int
	System        string
	Temperature   *float64
	StopSequences []string
	Tools         []Tool
	ToolChoice    ToolChoice
}

// Option is a functional option for configuring model requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithSystem sets the system prompt for the request.
func WithSystem(system string) Option {
	return func(o *Options) {
		o.System = system
	}
}

// WithTemperature sets the sampling temperature (0.0 to 1.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithStopSequences sets custom sequences that stop generation.
func WithStopSequences(sequences ...string) Option {
	return func(o *Options) {
		o.StopSequences = sequences
	}
}

// WithTools makes the given tools available to the model.
func WithTools(tools []Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithToolChoice controls how the model selects tools.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
