package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/calebmweir/parley"
	"github.com/calebmweir/parley/stream"
	"github.com/calebmweir/parley/tool"
)

// fakeCaller scripts model replies. Each CreateMessage or StreamMessage
// consumes the next scripted turn and records the request it received.
type fakeCaller struct {
	turns []fakeTurn
	calls []recordedCall
}

type fakeTurn struct {
	resp   *ai.Response
	events []stream.Event
	err    error
}

type recordedCall struct {
	messages []ai.Message
	options  *ai.Options
}

func (f *fakeCaller) next() fakeTurn {
	if len(f.turns) == 0 {
		return fakeTurn{err: errors.New("fake: no scripted turns left")}
	}
	t := f.turns[0]
	f.turns = f.turns[1:]
	return t
}

func (f *fakeCaller) record(messages []ai.Message, opts []ai.Option) {
	f.calls = append(f.calls, recordedCall{
		messages: ai.CloneMessages(messages),
		options:  ai.ApplyOptions(opts...),
	})
}

func (f *fakeCaller) CreateMessage(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	f.record(messages, opts)
	t := f.next()
	return t.resp, t.err
}

func (f *fakeCaller) StreamMessage(ctx context.Context, messages []ai.Message, opts ...ai.Option) (stream.EventSource, error) {
	f.record(messages, opts)
	t := f.next()
	if t.err != nil {
		return nil, t.err
	}
	return stream.NewSliceSource(t.events), nil
}

var _ ModelCaller = (*fakeCaller)(nil)

func textTurn(text string) fakeTurn {
	return fakeTurn{resp: &ai.Response{
		ID:         ai.GenerateMessageID(),
		Role:       ai.RoleAssistant,
		Content:    []ai.ContentBlock{ai.NewTextBlock(text)},
		StopReason: ai.StopReasonEndTurn,
	}}
}

func toolTurn(text string, calls ...ai.ToolCall) fakeTurn {
	blocks := []ai.ContentBlock{ai.NewTextBlock(text)}
	for _, c := range calls {
		blocks = append(blocks, ai.NewToolUseBlock(c.ID, c.Name, json.RawMessage(c.Arguments)))
	}
	return fakeTurn{resp: &ai.Response{
		ID:         ai.GenerateMessageID(),
		Role:       ai.RoleAssistant,
		Content:    blocks,
		StopReason: ai.StopReasonToolUse,
	}}
}

func echoRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	registry := tool.NewRegistry()
	registry.MustRegister(ai.Tool{Name: "echo", Description: "Echo the input"},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "echo: " + call.Arguments, nil
		})
	registry.MustRegister(ai.Tool{Name: "fail", Description: "Always fails"},
		func(ctx context.Context, call ai.ToolCall) (string, error) {
			return "", fmt.Errorf("tool exploded")
		})
	return registry
}

func TestNextMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("plain reply finishes the conversation", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{textTurn("Hi there")}}
		r := New(caller, nil, []ai.Message{ai.NewUserMessage("Hello")},
			WithModel("test-model"))

		resp, err := r.NextMessage(ctx)
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, "Hi there", resp.Text())
		assert.True(t, r.Finished())

		again, err := r.NextMessage(ctx)
		require.NoError(t, err)
		assert.Nil(t, again)
	})

	t.Run("tool loop appends assistant and result messages", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{
			toolTurn("Let me check.",
				ai.ToolCall{ID: "toolu_1", Name: "echo", Arguments: `{"q":"hi"}`}),
			textTurn("Done."),
		}}
		r := New(caller, echoRegistry(t), []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"))

		first, err := r.NextMessage(ctx)
		require.NoError(t, err)
		assert.Equal(t, ai.StopReasonToolUse, first.StopReason)
		assert.False(t, r.Finished())

		messages := r.CurrentMessages()
		require.Len(t, messages, 3)
		assert.Equal(t, ai.RoleAssistant, messages[1].Role)
		require.Len(t, messages[2].Content, 1)
		block := messages[2].Content[0]
		assert.Equal(t, ai.BlockTypeToolResult, block.Type)
		assert.Equal(t, "toolu_1", block.ToolUseID)
		assert.Equal(t, `echo: {"q":"hi"}`, block.Content)
		assert.False(t, block.IsError)

		second, err := r.NextMessage(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Done.", second.Text())
		assert.True(t, r.Finished())

		// The second model call saw the tool results.
		require.Len(t, caller.calls, 2)
		assert.Len(t, caller.calls[1].messages, 3)
	})

	t.Run("tool failure is isolated per call and preserves order", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{
			toolTurn("Two calls.",
				ai.ToolCall{ID: "toolu_a", Name: "fail", Arguments: `{}`},
				ai.ToolCall{ID: "toolu_b", Name: "echo", Arguments: `{"n":1}`}),
			textTurn("Recovered."),
		}}
		r := New(caller, echoRegistry(t), []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"))

		_, err := r.NextMessage(ctx)
		require.NoError(t, err)

		messages := r.CurrentMessages()
		require.Len(t, messages, 3)
		results := messages[2].Content
		require.Len(t, results, 2)

		assert.Equal(t, "toolu_a", results[0].ToolUseID)
		assert.True(t, results[0].IsError)
		assert.Equal(t, "tool exploded", results[0].Content)

		assert.Equal(t, "toolu_b", results[1].ToolUseID)
		assert.False(t, results[1].IsError)
	})

	t.Run("unknown tool becomes an error result", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{
			toolTurn("Calling.",
				ai.ToolCall{ID: "toolu_x", Name: "no_such_tool", Arguments: `{}`}),
			textTurn("Okay."),
		}}
		r := New(caller, echoRegistry(t), []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"))

		_, err := r.NextMessage(ctx)
		require.NoError(t, err)

		results := r.CurrentMessages()[2].Content
		require.Len(t, results, 1)
		assert.True(t, results[0].IsError)
		assert.Contains(t, results[0].Content, "no_such_tool")
	})

	t.Run("nil registry treats every tool as unknown", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{
			toolTurn("Calling.",
				ai.ToolCall{ID: "toolu_x", Name: "echo", Arguments: `{}`}),
			textTurn("Okay."),
		}}
		r := New(caller, nil, []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"))

		_, err := r.NextMessage(ctx)
		require.NoError(t, err)

		results := r.CurrentMessages()[2].Content
		require.Len(t, results, 1)
		assert.True(t, results[0].IsError)
	})

	t.Run("transport error propagates and leaves history intact", func(t *testing.T) {
		boom := ai.NewTransientError("rate limited", 429, nil)
		caller := &fakeCaller{turns: []fakeTurn{{err: boom}}}
		r := New(caller, nil, []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"))

		_, err := r.NextMessage(ctx)
		require.Error(t, err)
		assert.True(t, ai.IsTransient(err))
		assert.Len(t, r.CurrentMessages(), 1)
	})

	t.Run("tool declarations reach the model call", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{textTurn("ok")}}
		r := New(caller, echoRegistry(t), []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"), WithSystem("be brief"))

		_, err := r.NextMessage(ctx)
		require.NoError(t, err)

		require.Len(t, caller.calls, 1)
		opts := caller.calls[0].options
		assert.Equal(t, "test-model", opts.Model)
		assert.Equal(t, "be brief", opts.System)
		assert.Len(t, opts.Tools, 2)
	})
}

func TestIterationBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("single iteration finishes after one turn", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{
			toolTurn("loop", ai.ToolCall{ID: "t1", Name: "echo", Arguments: `{}`}),
		}}
		r := New(caller, echoRegistry(t), []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"), WithMaxIterations(1))

		resp, err := r.NextMessage(ctx)
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.True(t, r.Finished())

		again, err := r.NextMessage(ctx)
		require.NoError(t, err)
		assert.Nil(t, again)
	})

	t.Run("iteration count never exceeds the maximum", func(t *testing.T) {
		turns := make([]fakeTurn, 10)
		for i := range turns {
			turns[i] = toolTurn("again", ai.ToolCall{ID: "t", Name: "echo", Arguments: `{}`})
		}
		caller := &fakeCaller{turns: turns}
		r := New(caller, echoRegistry(t), []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"), WithMaxIterations(3))

		for {
			resp, err := r.NextMessage(ctx)
			require.NoError(t, err)
			if resp == nil {
				break
			}
		}

		assert.Equal(t, 3, r.Params().Iteration)
		assert.Len(t, caller.calls, 3)
		assert.True(t, r.Finished())
	})

	t.Run("truncation is silent, not an error", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{
			toolTurn("loop", ai.ToolCall{ID: "t1", Name: "echo", Arguments: `{}`}),
			toolTurn("loop", ai.ToolCall{ID: "t2", Name: "echo", Arguments: `{}`}),
		}}
		r := New(caller, echoRegistry(t), []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"), WithMaxIterations(2))

		responses, err := r.RunUntilFinished(ctx)
		require.NoError(t, err)
		assert.Len(t, responses, 2)
	})
}

func TestResetAndFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("reset restores the initial conversation", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{textTurn("one"), textTurn("two")}}
		initial := []ai.Message{ai.NewUserMessage("Hello")}
		r := New(caller, nil, initial, WithModel("test-model"))

		_, err := r.NextMessage(ctx)
		require.NoError(t, err)
		require.True(t, r.Finished())

		r.Reset()
		assert.False(t, r.Finished())
		assert.Equal(t, 0, r.Params().Iteration)
		assert.Nil(t, r.LastResponse())
		assert.Equal(t, initial, r.CurrentMessages())

		// Reset is idempotent.
		r.Reset()
		assert.Equal(t, initial, r.CurrentMessages())

		resp, err := r.NextMessage(ctx)
		require.NoError(t, err)
		assert.Equal(t, "two", resp.Text())
	})

	t.Run("feeding a finished conversation revives it", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{textTurn("first"), textTurn("second")}}
		r := New(caller, nil, []ai.Message{ai.NewUserMessage("Hi")},
			WithModel("test-model"))

		_, err := r.NextMessage(ctx)
		require.NoError(t, err)
		require.True(t, r.Finished())

		r.FeedMessage(ai.NewUserMessage("And another thing"))
		assert.False(t, r.Finished())

		resp, err := r.NextMessage(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", resp.Text())
	})

	t.Run("feeding nothing does not revive", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{textTurn("only")}}
		r := New(caller, nil, []ai.Message{ai.NewUserMessage("Hi")},
			WithModel("test-model"))

		_, err := r.NextMessage(ctx)
		require.NoError(t, err)
		require.True(t, r.Finished())

		r.FeedMessages(nil)
		assert.True(t, r.Finished())
	})

	t.Run("current messages are a defensive copy", func(t *testing.T) {
		r := New(&fakeCaller{}, nil, []ai.Message{ai.NewUserMessage("original")})

		snapshot := r.CurrentMessages()
		snapshot[0].Content[0].Text = "mutated"
		snapshot[0].Content = nil

		assert.Equal(t, "original", r.CurrentMessages()[0].Text())
	})
}

func TestFinalMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("errors before any turn", func(t *testing.T) {
		r := New(&fakeCaller{}, nil, []ai.Message{ai.NewUserMessage("Hi")})
		_, err := r.FinalMessage()
		assert.ErrorIs(t, err, ErrNoMessages)
	})

	t.Run("returns the most recent reply", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{textTurn("final answer")}}
		r := New(caller, nil, []ai.Message{ai.NewUserMessage("Hi")},
			WithModel("test-model"))

		_, err := r.NextMessage(ctx)
		require.NoError(t, err)

		final, err := r.FinalMessage()
		require.NoError(t, err)
		assert.Equal(t, "final answer", final.Text())
	})
}

func TestRunUntilFinished(t *testing.T) {
	ctx := context.Background()

	t.Run("collects every response", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{
			toolTurn("step", ai.ToolCall{ID: "t1", Name: "echo", Arguments: `{}`}),
			textTurn("done"),
		}}
		r := New(caller, echoRegistry(t), []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"))

		responses, err := r.RunUntilFinished(ctx)
		require.NoError(t, err)
		require.Len(t, responses, 2)
		assert.Equal(t, "done", responses[1].Text())
	})

	t.Run("stops on model error, returning partial results", func(t *testing.T) {
		caller := &fakeCaller{turns: []fakeTurn{
			toolTurn("step", ai.ToolCall{ID: "t1", Name: "echo", Arguments: `{}`}),
			{err: errors.New("server on fire")},
		}}
		r := New(caller, echoRegistry(t), []ai.Message{ai.NewUserMessage("Go")},
			WithModel("test-model"))

		responses, err := r.RunUntilFinished(ctx)
		require.Error(t, err)
		assert.Len(t, responses, 1)
	})
}
