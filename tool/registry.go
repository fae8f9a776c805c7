package tool

import (
	"context"
	"encoding/json"
	"sync"

	ai "github.com/calebmweir/parley"
)

// registeredTool pairs a tool definition with its handler.
type registeredTool struct {
	tool    ai.Tool
	handler Handler
}

// Registry manages registered tools and their handlers by exact name.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registeredTool)}
}

// Register adds a tool with its handler to the registry.
// Returns an error if a tool with the same name is already registered.
func (r *Registry) Register(t ai.Tool, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: t.Name}
	}
	r.tools[t.Name] = registeredTool{tool: t, handler: handler}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(t ai.Tool, handler Handler) {
	if err := r.Register(t, handler); err != nil {
		panic(err)
	}
}

// Unregister removes a tool from the registry. It is a no-op if the tool
// is not registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Get retrieves a handler by tool name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return rt.handler, true
}

// GetTool retrieves a tool definition by name.
func (r *Registry) GetTool(name string) (ai.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return ai.Tool{}, false
	}
	return rt.tool, true
}

// Tools returns all registered tool definitions, for passing to the model
// call.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, rt := range r.tools {
		tools = append(tools, rt.tool)
	}
	return tools
}

// Names returns the names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs the handler for a tool call and returns a ToolResult.
// If no tool matches the call's name, it returns ErrToolNotFound.
// A handler error is captured in the result with IsError set and the error
// text as content, so the model can see the failure and recover; it is
// never propagated.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return ai.ToolResult{}, &ErrToolNotFound{Name: call.Name}
	}

	content, err := rt.handler(ctx, call)
	if err != nil {
		return ai.ToolResult{
			ToolUseID: call.ID,
			Content:   err.Error(),
			IsError:   true,
		}, nil
	}

	return ai.ToolResult{
		ToolUseID: call.ID,
		Content:   content,
	}, nil
}

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func creates a Registration whose input schema is derived from T's struct
// tags and whose arguments are unmarshaled into T before the handler runs.
// Panics if schema generation fails.
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	schema := MustSchemaFor[T]()
	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}
		return fn(ctx, args)
	}
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			InputSchema: schema,
		},
		Handler: handler,
	}
}

// WithHandler creates a Registration from a pre-built Handler and schema.
func WithHandler(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			InputSchema: schema,
		},
		Handler: h,
	}
}

// Add registers one or more tools to the registry, panicking on duplicate
// names. Returns the registry for fluent chaining.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Tool, reg.Handler)
	}
	return r
}

// RegisterFunc registers a tool with a typed handler that automatically
// unmarshals the arguments JSON into T.
func RegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) error {
	schema, err := SchemaFor[T]()
	if err != nil {
		return err
	}
	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", err
		}
		return fn(ctx, args)
	}
	return r.Register(ai.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, handler)
}
