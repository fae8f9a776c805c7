package mcp

import (
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/calebmweir/parley"
)

func TestFromTool(t *testing.T) {
	t.Run("raw schema preferred", func(t *testing.T) {
		raw := json.RawMessage(`{"type":"object","properties":{"q":{"type":"string"}}}`)
		got := fromTool(mcp.NewToolWithRawSchema("search", "Search the web", raw))

		assert.Equal(t, "search", got.Name)
		assert.Equal(t, "Search the web", got.Description)
		assert.JSONEq(t, string(raw), string(got.InputSchema))
	})

	t.Run("structured schema marshaled", func(t *testing.T) {
		got := fromTool(mcp.NewTool("echo",
			mcp.WithDescription("Echo input"),
			mcp.WithString("text", mcp.Required()),
		))

		assert.Equal(t, "echo", got.Name)
		require.NotEmpty(t, got.InputSchema)

		var schema map[string]any
		require.NoError(t, json.Unmarshal(got.InputSchema, &schema))
		assert.Equal(t, "object", schema["type"])
	})
}

func TestCallRequest(t *testing.T) {
	t.Run("json arguments", func(t *testing.T) {
		req := callRequest(ai.ToolCall{
			ID:        "call-1",
			Name:      "search",
			Arguments: `{"q":"weather"}`,
		})

		assert.Equal(t, "search", req.Params.Name)
		args, ok := req.Params.Arguments.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "weather", args["q"])
	})

	t.Run("non-json arguments passed through", func(t *testing.T) {
		req := callRequest(ai.ToolCall{Name: "raw", Arguments: "not json"})
		assert.Equal(t, "not json", req.Params.Arguments)
	})

	t.Run("empty arguments", func(t *testing.T) {
		req := callRequest(ai.ToolCall{Name: "noargs"})
		assert.Nil(t, req.Params.Arguments)
	})
}

func TestFromResult(t *testing.T) {
	t.Run("text content concatenated", func(t *testing.T) {
		result := &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.TextContent{Type: "text", Text: "line one"},
				mcp.TextContent{Type: "text", Text: "line two"},
			},
		}

		got := fromResult("call-1", result)
		assert.Equal(t, "call-1", got.ToolUseID)
		assert.Equal(t, "line one\nline two", got.Content)
		assert.False(t, got.IsError)
	})

	t.Run("error flag carried", func(t *testing.T) {
		result := &mcp.CallToolResult{
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: "boom"}},
			IsError: true,
		}

		got := fromResult("call-2", result)
		assert.True(t, got.IsError)
		assert.Equal(t, "boom", got.Content)
	})

	t.Run("nil result is an error", func(t *testing.T) {
		got := fromResult("call-3", nil)
		assert.True(t, got.IsError)
		assert.Empty(t, got.Content)
	})

	t.Run("structured content appended as json", func(t *testing.T) {
		result := &mcp.CallToolResult{
			StructuredContent: map[string]any{"temp": 21},
		}

		got := fromResult("call-4", result)
		assert.JSONEq(t, `{"temp":21}`, got.Content)
	})
}
