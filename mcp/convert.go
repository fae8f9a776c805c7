// Package mcp connects to Model Context Protocol servers and exposes
// their tools to the conversation loop.
//
// Connect to a server, then either execute its tools directly or bind
// them into a [tool.Registry] alongside locally defined tools:
//
//	remote, err := mcp.Connect(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	registry := tool.NewRegistry()
//	if err := remote.Bind(registry); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/calebmweir/parley"
)

// fromTool converts an MCP tool declaration, preferring the raw schema
// when the server provides one.
func fromTool(t mcp.Tool) ai.Tool {
	var schema json.RawMessage
	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		schema = data
	}

	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: schema,
	}
}

// callRequest converts a tool call to an MCP call request. Arguments
// that are not valid JSON are passed through as a raw string.
func callRequest(call ai.ToolCall) mcp.CallToolRequest {
	var args any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = call.Arguments
		}
	}

	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// fromResult flattens an MCP call result into a tool result. Text
// content is concatenated; non-text and structured content is included
// as JSON.
func fromResult(callID string, result *mcp.CallToolResult) ai.ToolResult {
	if result == nil {
		return ai.ToolResult{ToolUseID: callID, IsError: true}
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}

	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}

	return ai.ToolResult{
		ToolUseID: callID,
		Content:   strings.Join(parts, "\n"),
		IsError:   result.IsError,
	}
}
