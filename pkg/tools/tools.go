// Package tools provides the tool registry: the mapping from tool name to
// (schema, handler) pairs. Registration happens once at startup and enforces
// name uniqueness; after that the registry is read-only, so invocation takes
// no locks on state that can change. Invoke validates raw arguments against
// the tool's schema before the handler ever runs, and converts a handler
// panic into an internal error instead of letting it escape.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/contextworks/mcp-gateway/pkg/errors"
	"github.com/contextworks/mcp-gateway/pkg/eventbus"
	"github.com/contextworks/mcp-gateway/pkg/logging"
	"github.com/contextworks/mcp-gateway/pkg/protocol"
	"github.com/contextworks/mcp-gateway/pkg/result"
	"github.com/contextworks/mcp-gateway/pkg/schema"
	"github.com/contextworks/mcp-gateway/pkg/store"
)

// Context bundles the external collaborators a handler may use during one
// invocation. Handlers borrow it for the duration of the call and must not
// retain it.
type Context struct {
	Workspace    store.WorkspaceRepository
	Instructions store.InstructionsRepository
	Events       *eventbus.Bus
}

// Handler executes one tool call with schema-validated arguments.
type Handler func(ctx context.Context, args map[string]interface{}, tc *Context) result.Result[interface{}]

// Tool describes one registered tool.
type Tool struct {
	Name        string
	Description string
	Schema      schema.Object
	Handler     Handler
}

// Registry maps tool names to tools. At most one tool per name; duplicates
// are a startup-time failure.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]Tool
	logger logging.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger.WithFields(logging.String("component", "tools")),
	}
}

// Register inserts a tool. It fails if the name is empty, the handler is
// nil, or the name is already taken; the registry keeps the first
// registration.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q has no handler", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// List returns every tool's wire descriptor in registration order.
func (r *Registry) List() []protocol.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]protocol.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		raw, err := json.Marshal(t.Schema)
		if err != nil {
			raw = json.RawMessage(`{"type":"object"}`)
		}
		descriptors = append(descriptors, protocol.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: raw,
		})
	}
	return descriptors
}

// Invoke looks up name, validates rawArgs against the tool's schema, and runs
// the handler. An absent tool returns ToolNotFound without touching the
// validator; a validation failure returns ValidationError carrying every
// violated field and never calls the handler; a handler panic is recovered
// and wrapped as InternalError. A handler's own Result is passed through
// unchanged.
func (r *Registry) Invoke(ctx context.Context, name string, rawArgs json.RawMessage, tc *Context) (res result.Result[interface{}]) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return result.Err[interface{}](errors.ToolNotFound(name))
	}

	args, violations := schema.Validate(t.Schema, rawArgs)
	if violations != nil {
		return result.Err[interface{}](errors.ValidationFailed(violations))
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool handler panicked",
				logging.String("tool", name),
				logging.Any("panic", rec),
				logging.String("stack", string(debug.Stack())),
			)
			res = result.Err[interface{}](errors.Internal(
				fmt.Sprintf("tool %s", name),
				fmt.Errorf("handler panic: %v", rec),
			))
		}
	}()

	return t.Handler(ctx, args, tc)
}
