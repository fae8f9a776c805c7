// Package runner drives agentic tool-execution conversations: it issues
// model turns, dispatches requested tool calls to registered handlers,
// feeds results back into the conversation, and repeats until the model
// stops asking for tools or the iteration budget runs out.
//
// One Runner owns one conversation. It must not be shared across
// goroutines or between loop instances; all calls are synchronous and
// tools execute strictly one at a time, in the order the model requested
// them.
package runner

import (
	"context"
	"errors"

	ai "github.com/calebmweir/parley"
	"github.com/calebmweir/parley/stream"
	"github.com/calebmweir/parley/tool"
)

// ErrNoMessages is returned by FinalMessage when no model turn has
// completed yet.
var ErrNoMessages = errors.New("runner: no message produced")

// ModelCaller is the model-call capability the runner consumes. The
// client package implements it; tests substitute fakes.
type ModelCaller interface {
	// CreateMessage issues one blocking model call.
	CreateMessage(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)

	// StreamMessage opens one streamed model call and returns its decoded
	// event sequence.
	StreamMessage(ctx context.Context, messages []ai.Message, opts ...ai.Option) (stream.EventSource, error)
}

// TokenCounter reports the input-token count of a prospective request.
type TokenCounter interface {
	CountTokens(ctx context.Context, messages []ai.Message, opts ...ai.Option) (int, error)
}

// Runner executes the tool loop over a single conversation.
type Runner struct {
	caller   ModelCaller
	registry *tool.Registry
	opts     *Options
	state    *conversationState
}

// New creates a Runner over the given initial messages. The registry may
// be nil for conversations without tools.
func New(caller ModelCaller, registry *tool.Registry, messages []ai.Message, opts ...Option) *Runner {
	return &Runner{
		caller:   caller,
		registry: registry,
		opts:     ApplyOptions(opts...),
		state:    newConversationState(messages),
	}
}

// NextMessage executes one turn: an optional compaction pass, one blocking
// model call, and — if the model requested tools — their dispatch and the
// append of the assistant message plus a tool-result message.
//
// It returns nil with no error once the conversation is finished, either
// because the model stopped requesting tools or because the iteration
// budget ran out (silent truncation, not an error). A transport or model
// error from the main call propagates unmodified so callers can apply
// their own retry policy.
func (r *Runner) NextMessage(ctx context.Context) (*ai.Response, error) {
	if !r.begin() {
		return nil, nil
	}

	r.maybeCompact(ctx)

	resp, err := r.caller.CreateMessage(ctx, r.state.messages, r.callOptions()...)
	if err != nil {
		return nil, err
	}
	return r.advance(ctx, resp), nil
}

// begin gates one iteration: it refuses when the conversation is finished
// or the budget is spent, and claims the iteration otherwise. The counter
// never exceeds the configured maximum.
func (r *Runner) begin() bool {
	if r.state.finished {
		return false
	}
	if r.state.iteration >= r.opts.MaxIterations {
		r.state.finished = true
		return false
	}
	r.state.iteration++
	return true
}

// advance records the response and performs the tool-dispatch-and-append
// tail shared by the blocking and streaming variants.
func (r *Runner) advance(ctx context.Context, resp *ai.Response) *ai.Response {
	r.state.last = resp

	calls := resp.ToolCalls()
	if resp.StopReason != ai.StopReasonToolUse || len(calls) == 0 {
		r.state.finished = true
		return resp
	}

	results := r.executeTools(ctx, calls)
	r.state.messages = append(r.state.messages,
		resp.ToMessage(),
		ai.NewToolResultMessage(results...),
	)

	if r.state.iteration >= r.opts.MaxIterations {
		r.state.finished = true
	}
	return resp
}

// executeTools dispatches every requested call in order, one at a time.
// Failures never propagate: a handler error or an unknown tool name
// becomes a tool_result flagged is_error, fed back as model input.
func (r *Runner) executeTools(ctx context.Context, calls []ai.ToolCall) []ai.ToolResult {
	results := make([]ai.ToolResult, 0, len(calls))
	for _, call := range calls {
		var result ai.ToolResult
		if r.registry == nil {
			result = ai.ToolResult{
				ToolUseID: call.ID,
				Content:   (&tool.ErrToolNotFound{Name: call.Name}).Error(),
				IsError:   true,
			}
		} else {
			res, err := r.registry.Execute(ctx, call)
			if err != nil {
				res = ai.ToolResult{ToolUseID: call.ID, Content: err.Error(), IsError: true}
			}
			result = res
		}
		if r.opts.Logger != nil {
			r.opts.Logger.WithField("tool", call.Name).
				WithField("is_error", result.IsError).
				Debug("tool call executed")
		}
		results = append(results, result)
	}
	return results
}

// FeedMessages appends messages to the conversation. Feeding a finished
// conversation at least one message clears the finished flag (the
// iteration counter is preserved), allowing a caller to extend a completed
// run.
func (r *Runner) FeedMessages(messages []ai.Message) {
	r.state.feed(messages)
}

// FeedMessage appends a single message. See FeedMessages.
func (r *Runner) FeedMessage(message ai.Message) {
	r.state.feed([]ai.Message{message})
}

// Finished reports whether the conversation has terminated.
func (r *Runner) Finished() bool {
	return r.state.finished
}

// Reset discards accumulated state and returns the conversation to the
// originally supplied message list.
func (r *Runner) Reset() {
	r.state.reset()
}

// FinalMessage returns the most recent model response, or ErrNoMessages
// if no turn has completed.
func (r *Runner) FinalMessage() (*ai.Response, error) {
	if r.state.last == nil {
		return nil, ErrNoMessages
	}
	return r.state.last, nil
}

// LastResponse returns the most recent model response, or nil before the
// first turn.
func (r *Runner) LastResponse() *ai.Response {
	return r.state.last
}

// RunUntilFinished resets the conversation and drives NextMessage until
// the loop terminates, collecting every response. A model-call error stops
// the run and propagates alongside the responses collected so far.
func (r *Runner) RunUntilFinished(ctx context.Context) ([]*ai.Response, error) {
	r.Reset()

	var responses []*ai.Response
	for {
		resp, err := r.NextMessage(ctx)
		if err != nil {
			return responses, err
		}
		if resp == nil {
			return responses, nil
		}
		responses = append(responses, resp)
	}
}

// CurrentMessages returns a snapshot of the conversation. Mutating the
// returned slice or its messages does not affect the runner.
func (r *Runner) CurrentMessages() []ai.Message {
	return ai.CloneMessages(r.state.messages)
}

// Params is a read-only snapshot of loop configuration and progress, for
// inspection and logging.
type Params struct {
	Model     string
	MaxTokens int
	System    string
	Iteration int
	Finished  bool
}

// Params returns the current loop parameters.
func (r *Runner) Params() Params {
	return Params{
		Model:     r.opts.Model,
		MaxTokens: r.opts.MaxTokens,
		System:    r.opts.System,
		Iteration: r.state.iteration,
		Finished:  r.state.finished,
	}
}

// callOptions assembles the request options for a main model turn.
func (r *Runner) callOptions() []ai.Option {
	opts := []ai.Option{
		ai.WithModel(r.opts.Model),
		ai.WithMaxTokens(r.opts.MaxTokens),
	}
	if r.opts.System != "" {
		opts = append(opts, ai.WithSystem(r.opts.System))
	}
	if r.registry != nil && r.registry.Len() > 0 {
		opts = append(opts, ai.WithTools(r.registry.Tools()))
	}
	return append(opts, r.opts.CallOptions...)
}
