package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/calebmweir/parley"
	"github.com/calebmweir/parley/tool"
)

// Remote is a connection to an MCP server with a locally cached tool
// list. It is safe for concurrent use; call Refresh to re-fetch the
// list if the server's tools change.
type Remote struct {
	client *client.Client
	mu     sync.RWMutex
	tools  map[string]ai.Tool
}

// Connect starts an MCP server as a subprocess and connects over stdio.
func Connect(ctx context.Context, command string, env []string, args ...string) (*Remote, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: create stdio client: %w", err)
	}
	return newRemote(ctx, c)
}

// ConnectSSE connects to an MCP server over SSE.
func ConnectSSE(ctx context.Context, baseURL string) (*Remote, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("mcp: create SSE client: %w", err)
	}
	return newRemote(ctx, c)
}

// NewRemote wraps an existing MCP client. The client is started,
// initialized, and its tool list fetched.
func NewRemote(ctx context.Context, c *client.Client) (*Remote, error) {
	return newRemote(ctx, c)
}

func newRemote(ctx context.Context, c *client.Client) (*Remote, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp: start client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "parley",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize session: %w", err)
	}

	r := &Remote{
		client: c,
		tools:  make(map[string]ai.Tool),
	}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: list tools: %w", err)
	}
	return r, nil
}

// Close closes the connection to the server.
func (r *Remote) Close() error {
	return r.client.Close()
}

// Refresh re-fetches the server's tool list.
func (r *Remote) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = make(map[string]ai.Tool, len(result.Tools))
	for _, t := range result.Tools {
		r.tools[t.Name] = fromTool(t)
	}
	return nil
}

// Tools returns the cached tool declarations.
func (r *Remote) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	return tools
}

// GetTool retrieves a cached tool declaration by name.
func (r *Remote) GetTool(name string) (ai.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of cached tools.
func (r *Remote) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute calls a tool on the server. Transport failures are folded
// into an error result rather than returned, so a flaky server does not
// abort the conversation.
func (r *Remote) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	result, err := r.client.CallTool(ctx, callRequest(call))
	if err != nil {
		return ai.ToolResult{
			ToolUseID: call.ID,
			Content:   err.Error(),
			IsError:   true,
		}, nil
	}
	return fromResult(call.ID, result), nil
}

// Handler returns a tool.Handler that proxies calls for one remote tool.
func (r *Remote) Handler() tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		result, err := r.Execute(ctx, call)
		if err != nil {
			return "", err
		}
		if result.IsError {
			return "", errors.New(result.Content)
		}
		return result.Content, nil
	}
}

// Bind registers every cached remote tool into the registry with a
// proxy handler. Fails on name collisions with already registered
// tools.
func (r *Remote) Bind(registry *tool.Registry) error {
	for _, t := range r.Tools() {
		if err := registry.Register(t, r.Handler()); err != nil {
			return err
		}
	}
	return nil
}
