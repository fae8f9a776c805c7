package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/calebmweir/parley"
)

func TestAccumulator(t *testing.T) {
	t.Run("rebuilds a mixed response", func(t *testing.T) {
		events := []Event{
			{Type: MessageStart, Message: &ai.Response{
				ID:    "msg_01",
				Model: "claude-sonnet-4-5",
				Role:  ai.RoleAssistant,
				Usage: ai.Usage{InputTokens: 30, OutputTokens: 1},
			}},
			blockStart(0, ai.ContentBlock{Type: ai.BlockTypeThinking}),
			thinkingDelta(0, "The user wants weather."),
			{Type: ContentBlockDelta, Index: 0, Delta: &Delta{Kind: DeltaSignature, Signature: "sig-abc"}},
			blockStop(0),
			blockStart(1, ai.ContentBlock{Type: ai.BlockTypeText}),
			textDelta(1, "Let me check "),
			textDelta(1, "that."),
			blockStop(1),
			blockStart(2, ai.ContentBlock{Type: ai.BlockTypeToolUse, ID: "toolu_01", Name: "get_weather"}),
			inputDelta(2, `{"location":"To`),
			inputDelta(2, `kyo"}`),
			blockStop(2),
			{Type: MessageDelta, StopReason: ai.StopReasonToolUse, Usage: &ai.Usage{OutputTokens: 47}},
			{Type: MessageStop},
		}

		acc := NewAccumulator()
		for _, evt := range events {
			acc.Process(evt)
		}
		resp := acc.Response()

		assert.Equal(t, "msg_01", resp.ID)
		assert.Equal(t, ai.RoleAssistant, resp.Role)
		assert.Equal(t, ai.StopReasonToolUse, resp.StopReason)
		assert.Equal(t, 30, resp.Usage.InputTokens)
		assert.Equal(t, 47, resp.Usage.OutputTokens)

		require.Len(t, resp.Content, 3)
		assert.Equal(t, ai.BlockTypeThinking, resp.Content[0].Type)
		assert.Equal(t, "The user wants weather.", resp.Content[0].Thinking)
		assert.Equal(t, "sig-abc", resp.Content[0].Signature)

		assert.Equal(t, "Let me check that.", resp.Content[1].Text)

		assert.Equal(t, ai.BlockTypeToolUse, resp.Content[2].Type)
		assert.Equal(t, "toolu_01", resp.Content[2].ID)
		assert.JSONEq(t, `{"location":"Tokyo"}`, string(resp.Content[2].Input))

		calls := resp.ToolCalls()
		require.Len(t, calls, 1)
		assert.Equal(t, "get_weather", calls[0].Name)
	})

	t.Run("delta without start is tolerated as text", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Process(textDelta(0, "orphan text"))
		resp := acc.Response()

		require.Len(t, resp.Content, 1)
		assert.Equal(t, ai.BlockTypeText, resp.Content[0].Type)
		assert.Equal(t, "orphan text", resp.Content[0].Text)
	})

	t.Run("empty input builder leaves block input untouched", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Process(blockStart(0, ai.ContentBlock{Type: ai.BlockTypeToolUse, ID: "toolu_02", Name: "noop"}))
		acc.Process(blockStop(0))
		resp := acc.Response()

		require.Len(t, resp.Content, 1)
		assert.Empty(t, resp.Content[0].Input)
	})

	t.Run("blocks assemble in index order", func(t *testing.T) {
		acc := NewAccumulator()
		acc.Process(blockStart(2, ai.ContentBlock{Type: ai.BlockTypeText}))
		acc.Process(textDelta(2, "second"))
		acc.Process(blockStart(0, ai.ContentBlock{Type: ai.BlockTypeText}))
		acc.Process(textDelta(0, "first"))
		resp := acc.Response()

		require.Len(t, resp.Content, 2)
		assert.Equal(t, "first", resp.Content[0].Text)
		assert.Equal(t, "second", resp.Content[1].Text)
	})

	t.Run("decoded stream round-trip", func(t *testing.T) {
		d := NewDecoder(strings.NewReader(helloWorldStream))
		acc := NewAccumulator()
		for d.Next() {
			acc.Process(d.Event())
		}
		require.NoError(t, d.Err())

		resp := acc.Response()
		assert.Equal(t, "Hello world", resp.Text())
		assert.Equal(t, ai.StopReasonEndTurn, resp.StopReason)
	})
}
