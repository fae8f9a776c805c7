package parley

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// BlockType discriminates the variants of a ContentBlock.
type BlockType string

const (
	BlockTypeText             BlockType = "text"
	BlockTypeToolUse          BlockType = "tool_use"
	BlockTypeToolResult       BlockType = "tool_result"
	BlockTypeThinking         BlockType = "thinking"
	BlockTypeRedactedThinking BlockType = "redacted_thinking"
)

// ContentBlock is one unit of message content. Type selects the variant;
// only the fields belonging to that variant are populated.
//
// Blocks whose type is not one of the BlockType constants (server-executed
// tool blocks such as web search or code execution results) are carried
// opaquely: the raw JSON is preserved and round-trips unchanged.
type ContentBlock struct {
	Type BlockType `json:"type"`

	// Text is set for text blocks.
	Text string `json:"text,omitempty"`

	// ID, Name and Input are set for tool_use blocks. Input holds the
	// tool arguments as a raw JSON object.
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// ToolUseID, Content and IsError are set for tool_result blocks.
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`

	// Thinking and Signature are set for thinking blocks. Data is set
	// for redacted_thinking blocks.
	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`
	Data      string `json:"data,omitempty"`

	// raw preserves the original JSON for unrecognized block types.
	raw json.RawMessage
}

// contentBlockAlias avoids recursing into the custom (un)marshalers.
type contentBlockAlias ContentBlock

// UnmarshalJSON decodes a content block, keeping the raw bytes for
// unrecognized block types so they can be passed through untouched.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	var alias contentBlockAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*b = ContentBlock(alias)
	switch b.Type {
	case BlockTypeText, BlockTypeToolUse, BlockTypeToolResult,
		BlockTypeThinking, BlockTypeRedactedThinking:
	default:
		b.raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

// MarshalJSON encodes a content block. Opaque blocks emit their original
// JSON verbatim.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	if b.raw != nil {
		return b.raw, nil
	}
	return json.Marshal(contentBlockAlias(b))
}

// Opaque reports whether the block carries an unrecognized type that the
// library passes through without interpretation.
func (b ContentBlock) Opaque() bool {
	return b.raw != nil
}

// NewTextBlock creates a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockTypeText, Text: text}
}

// NewToolUseBlock creates a tool_use content block.
func NewToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{Type: BlockTypeToolUse, ID: id, Name: name, Input: input}
}

// NewToolResultBlock creates a tool_result content block.
func NewToolResultBlock(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{
		Type:      BlockTypeToolResult,
		ToolUseID: toolUseID,
		Content:   content,
		IsError:   isError,
	}
}

// NewThinkingBlock creates a thinking content block.
func NewThinkingBlock(thinking, signature string) ContentBlock {
	return ContentBlock{Type: BlockTypeThinking, Thinking: thinking, Signature: signature}
}

// Message represents a single message in a conversation.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// NewUserMessage creates a user message with a single text block.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{NewTextBlock(text)}}
}

// NewAssistantMessage creates an assistant message with a single text block.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentBlock{NewTextBlock(text)}}
}

// NewToolResultMessage creates the user message that returns tool results
// to the model, preserving the order of the given results.
func NewToolResultMessage(results ...ToolResult) Message {
	blocks := make([]ContentBlock, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, NewToolResultBlock(r.ToolUseID, r.Content, r.IsError))
	}
	return Message{Role: RoleUser, Content: blocks}
}

// Text concatenates the text of all text blocks in the message.
func (m Message) Text() string {
	var sb strings.Builder
	for _, b := range m.Content {
		if b.Type == BlockTypeText {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// Clone returns a copy of the message whose content slice is independent
// of the original.
func (m Message) Clone() Message {
	out := Message{Role: m.Role}
	if m.Content != nil {
		out.Content = append([]ContentBlock(nil), m.Content...)
	}
	return out
}

// CloneMessages returns a copy of a message list safe to mutate without
// affecting the original.
func CloneMessages(messages []Message) []Message {
	out := make([]Message, len(messages))
	for i, m := range messages {
		out[i] = m.Clone()
	}
	return out
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// StopReason explains why the model stopped generating.
type StopReason string

const (
	StopReasonEndTurn      StopReason = "end_turn"
	StopReasonMaxTokens    StopReason = "max_tokens"
	StopReasonStopSequence StopReason = "stop_sequence"
	StopReasonToolUse      StopReason = "tool_use"
	StopReasonRefusal      StopReason = "refusal"
)

// Usage contains token accounting for a request.
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens,omitempty"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`
}

// Response represents one complete model reply.
type Response struct {
	ID           string         `json:"id"`
	Model        string         `json:"model"`
	Role         Role           `json:"role"`
	Content      []ContentBlock `json:"content"`
	StopReason   StopReason     `json:"stop_reason,omitempty"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        Usage          `json:"usage"`
}

// Text concatenates the text of all text blocks in the response.
func (r *Response) Text() string {
	var sb strings.Builder
	for _, b := range r.Content {
		if b.Type == BlockTypeText {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// ToolCalls extracts every tool_use block as a ToolCall, in content order.
func (r *Response) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, b := range r.Content {
		if b.Type == BlockTypeToolUse {
			calls = append(calls, ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: string(b.Input),
			})
		}
	}
	return calls
}

// ToMessage converts the response into the assistant message that carries
// its full content back into the conversation.
func (r *Response) ToMessage() Message {
	return Message{
		Role:    RoleAssistant,
		Content: append([]ContentBlock(nil), r.Content...),
	}
}
