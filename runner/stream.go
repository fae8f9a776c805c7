package runner

import (
	"context"

	ai "github.com/calebmweir/parley"
	"github.com/calebmweir/parley/stream"
)

// NextMessageStream is the streaming variant of NextMessage. It opens one
// streamed model call, forwards every decoded event to fn as it arrives,
// and accumulates the full response from the same event sequence. Once the
// stream ends it performs the identical tool-dispatch-and-append steps as
// the blocking variant, so both produce the same final conversation state
// for equivalent model output.
//
// fn may be nil when only the side effects on conversation state matter.
func (r *Runner) NextMessageStream(ctx context.Context, fn func(stream.Event)) (*ai.Response, error) {
	if !r.begin() {
		return nil, nil
	}

	r.maybeCompact(ctx)

	src, err := r.caller.StreamMessage(ctx, r.state.messages, r.callOptions()...)
	if err != nil {
		return nil, err
	}

	acc := stream.NewAccumulator()
	for src.Next() {
		evt := src.Event()
		if fn != nil {
			fn(evt)
		}
		acc.Process(evt)
	}
	if err := src.Err(); err != nil {
		return nil, err
	}

	return r.advance(ctx, acc.Response()), nil
}

// RunUntilFinishedStream resets the conversation and drives
// NextMessageStream until the loop terminates, collecting every response.
func (r *Runner) RunUntilFinishedStream(ctx context.Context, fn func(stream.Event)) ([]*ai.Response, error) {
	r.Reset()

	var responses []*ai.Response
	for {
		resp, err := r.NextMessageStream(ctx, fn)
		if err != nil {
			return responses, err
		}
		if resp == nil {
			return responses, nil
		}
		responses = append(responses, resp)
	}
}
