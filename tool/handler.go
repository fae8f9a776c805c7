package tool

import (
	"context"

	ai "github.com/calebmweir/parley"
)

// Handler executes one tool call and returns the result content.
// The call carries the tool name, invocation ID, and the argument payload
// as a JSON string. A returned error marks the result as failed; it does
// not abort the conversation.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler executes a tool call whose JSON arguments have been
// unmarshaled into T.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)
