package parley

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentBlockRoundTrip(t *testing.T) {
	t.Run("known block types", func(t *testing.T) {
		blocks := []ContentBlock{
			NewTextBlock("hello"),
			NewToolUseBlock("toolu_1", "get_weather", json.RawMessage(`{"city":"Oslo"}`)),
			NewToolResultBlock("toolu_1", "sunny", false),
			NewThinkingBlock("let me think", "sig-abc"),
		}

		data, err := json.Marshal(blocks)
		require.NoError(t, err)

		var decoded []ContentBlock
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Len(t, decoded, 4)
		assert.Equal(t, "hello", decoded[0].Text)
		assert.Equal(t, "get_weather", decoded[1].Name)
		assert.JSONEq(t, `{"city":"Oslo"}`, string(decoded[1].Input))
		assert.Equal(t, "toolu_1", decoded[2].ToolUseID)
		assert.Equal(t, "sig-abc", decoded[3].Signature)
		for _, b := range decoded {
			assert.False(t, b.Opaque())
		}
	})

	t.Run("unknown block types pass through verbatim", func(t *testing.T) {
		raw := `{"type":"web_search_tool_result","tool_use_id":"srvtoolu_1","content":[{"url":"https://example.com","title":"Example"}]}`

		var block ContentBlock
		require.NoError(t, json.Unmarshal([]byte(raw), &block))
		assert.True(t, block.Opaque())
		assert.Equal(t, BlockType("web_search_tool_result"), block.Type)

		out, err := json.Marshal(block)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	})

	t.Run("redacted thinking keeps data", func(t *testing.T) {
		var block ContentBlock
		require.NoError(t, json.Unmarshal([]byte(`{"type":"redacted_thinking","data":"opaque-bytes"}`), &block))
		assert.False(t, block.Opaque())
		assert.Equal(t, "opaque-bytes", block.Data)
	})
}

func TestMessage(t *testing.T) {
	t.Run("constructors", func(t *testing.T) {
		user := NewUserMessage("hi")
		assert.Equal(t, RoleUser, user.Role)
		assert.Equal(t, "hi", user.Text())

		asst := NewAssistantMessage("hello")
		assert.Equal(t, RoleAssistant, asst.Role)
	})

	t.Run("text concatenates text blocks only", func(t *testing.T) {
		m := Message{Role: RoleAssistant, Content: []ContentBlock{
			NewTextBlock("first "),
			NewToolUseBlock("toolu_1", "noop", json.RawMessage(`{}`)),
			NewTextBlock("second"),
		}}
		assert.Equal(t, "first second", m.Text())
	})

	t.Run("tool result message preserves order", func(t *testing.T) {
		m := NewToolResultMessage(
			ToolResult{ToolUseID: "toolu_a", Content: "ok"},
			ToolResult{ToolUseID: "toolu_b", Content: "boom", IsError: true},
		)
		assert.Equal(t, RoleUser, m.Role)
		require.Len(t, m.Content, 2)
		assert.Equal(t, "toolu_a", m.Content[0].ToolUseID)
		assert.Equal(t, "toolu_b", m.Content[1].ToolUseID)
		assert.True(t, m.Content[1].IsError)
	})

	t.Run("clone is independent", func(t *testing.T) {
		orig := Message{Role: RoleUser, Content: []ContentBlock{NewTextBlock("original")}}
		copied := orig.Clone()
		copied.Content[0].Text = "mutated"
		assert.Equal(t, "original", orig.Content[0].Text)
	})

	t.Run("clone messages is deep enough to mutate", func(t *testing.T) {
		history := []Message{NewUserMessage("a"), NewAssistantMessage("b")}
		copied := CloneMessages(history)
		copied[0].Content[0].Text = "changed"
		copied = append(copied, NewUserMessage("c"))
		assert.Equal(t, "a", history[0].Content[0].Text)
		assert.Len(t, history, 2)
	})
}

func TestGenerateMessageID(t *testing.T) {
	a := GenerateMessageID()
	b := GenerateMessageID()
	assert.True(t, strings.HasPrefix(a, "msg-"))
	assert.NotEqual(t, a, b)
}

func TestResponse(t *testing.T) {
	resp := &Response{
		ID:   "msg_01",
		Role: RoleAssistant,
		Content: []ContentBlock{
			NewTextBlock("Let me check."),
			NewToolUseBlock("toolu_1", "get_weather", json.RawMessage(`{"city":"Oslo"}`)),
			NewToolUseBlock("toolu_2", "get_time", json.RawMessage(`{}`)),
		},
		StopReason: StopReasonToolUse,
	}

	t.Run("tool calls extracted in order", func(t *testing.T) {
		calls := resp.ToolCalls()
		require.Len(t, calls, 2)
		assert.Equal(t, "toolu_1", calls[0].ID)
		assert.Equal(t, "get_weather", calls[0].Name)
		assert.Equal(t, `{"city":"Oslo"}`, calls[0].Arguments)
		assert.Equal(t, "toolu_2", calls[1].ID)
	})

	t.Run("no tool calls yields nil", func(t *testing.T) {
		plain := &Response{Content: []ContentBlock{NewTextBlock("hi")}}
		assert.Nil(t, plain.ToolCalls())
	})

	t.Run("to message copies full content", func(t *testing.T) {
		m := resp.ToMessage()
		assert.Equal(t, RoleAssistant, m.Role)
		require.Len(t, m.Content, 3)

		m.Content[0].Text = "mutated"
		assert.Equal(t, "Let me check.", resp.Content[0].Text)
	})

	t.Run("text", func(t *testing.T) {
		assert.Equal(t, "Let me check.", resp.Text())
	})
}
