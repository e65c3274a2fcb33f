// Package router provides the mapping from protocol method name to handler.
// The method set is closed: registration rejects names outside
// protocol.Methods() as well as duplicates, both at startup time. Dispatch
// performs no business logic of its own.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/contextworks/mcp-gateway/pkg/errors"
	"github.com/contextworks/mcp-gateway/pkg/protocol"
	"github.com/contextworks/mcp-gateway/pkg/result"
)

// Handler handles one protocol method.
type Handler interface {
	Handle(ctx context.Context, params json.RawMessage) result.Result[interface{}]
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, params json.RawMessage) result.Result[interface{}]

// Handle invokes the function.
func (f HandlerFunc) Handle(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
	return f(ctx, params)
}

// Router maps protocol methods to handlers.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// New creates an empty router.
func New() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register binds a handler to a method. It fails for methods outside the
// closed protocol set, for nil handlers, and for methods that already have a
// handler.
func (r *Router) Register(method string, handler Handler) error {
	if !protocol.KnownMethod(method) {
		return fmt.Errorf("unknown protocol method %q", method)
	}
	if handler == nil {
		return fmt.Errorf("nil handler for method %q", method)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[method]; exists {
		return fmt.Errorf("method %q already registered", method)
	}
	r.handlers[method] = handler
	return nil
}

// Registered reports whether method has a handler.
func (r *Router) Registered(method string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[method]
	return ok
}

// Dispatch invokes the handler bound to method and returns its Result
// unchanged. An unregistered method returns MethodNotFound and invokes
// nothing.
func (r *Router) Dispatch(ctx context.Context, method string, params json.RawMessage) result.Result[interface{}] {
	r.mu.RLock()
	handler, ok := r.handlers[method]
	r.mu.RUnlock()

	if !ok {
		return result.Err[interface{}](errors.MethodNotFound(method))
	}
	return handler.Handle(ctx, params)
}
