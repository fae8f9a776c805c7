package parley

import "encoding/json"

// Tool defines a function that can be called by the model.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string `json:"name"`
	// Description explains what the tool does (helps the model decide when to use it).
	Description string `json:"description,omitempty"`
	// InputSchema is a JSON Schema object describing the tool arguments.
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

// ToolCall represents a request from the model to invoke a tool.
type ToolCall struct {
	// ID is a unique identifier for this invocation (used to match results).
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is a JSON string containing the parsed argument payload.
	Arguments string `json:"arguments"`
}

// ToolResult represents the outcome of executing one tool call.
type ToolResult struct {
	// ToolUseID matches the ID of the corresponding ToolCall.
	ToolUseID string `json:"tool_use_id"`
	// Content is the result text to return to the model. For failed calls
	// it carries the error description.
	Content string `json:"content"`
	// IsError indicates the call failed; the model sees the failure as
	// conversation content and may recover.
	IsError bool `json:"is_error,omitempty"`
}

// ToolChoice controls how the model uses tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide when to use tools (default).
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone disables tool use for the request.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceAny forces the model to use some tool.
	ToolChoiceAny ToolChoice = "any"
)
