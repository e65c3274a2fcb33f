// Package resources provides the registry of named read-only entities
// exposed through resources/list and resources/read. It mirrors the tool
// registry's discipline: unique registration at startup, deterministic
// listing in registration order, and panic containment around readers.
package resources

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/contextworks/mcp-gateway/pkg/errors"
	"github.com/contextworks/mcp-gateway/pkg/logging"
	"github.com/contextworks/mcp-gateway/pkg/protocol"
	"github.com/contextworks/mcp-gateway/pkg/result"
	"github.com/contextworks/mcp-gateway/pkg/store"
)

// Reader produces the current contents of a resource.
type Reader func(ctx context.Context) (string, error)

// Resource describes one registered resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	Reader      Reader
}

// Registry maps resource URIs to resources.
type Registry struct {
	mu        sync.RWMutex
	order     []string
	resources map[string]Resource
	logger    logging.Logger
}

// NewRegistry creates an empty resource registry.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Registry{
		resources: make(map[string]Resource),
		logger:    logger.WithFields(logging.String("component", "resources")),
	}
}

// Register inserts a resource. Duplicate URIs are a startup-time failure; the
// registry keeps the first registration.
func (r *Registry) Register(res Resource) error {
	if res.URI == "" {
		return fmt.Errorf("resource URI must not be empty")
	}
	if res.Reader == nil {
		return fmt.Errorf("resource %q has no reader", res.URI)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resources[res.URI]; exists {
		return fmt.Errorf("resource %q already registered", res.URI)
	}
	r.resources[res.URI] = res
	r.order = append(r.order, res.URI)
	return nil
}

// List returns every resource's wire descriptor in registration order.
func (r *Registry) List() []protocol.ResourceDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]protocol.ResourceDescriptor, 0, len(r.order))
	for _, uri := range r.order {
		res := r.resources[uri]
		descriptors = append(descriptors, protocol.ResourceDescriptor{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MimeType:    res.MimeType,
		})
	}
	return descriptors
}

// Read resolves uri and returns its contents. An unknown URI yields
// ResourceNotFound; a reader that reports store.ErrNotFound is mapped the
// same way; any other reader failure or panic becomes InternalError.
func (r *Registry) Read(ctx context.Context, uri string) (res result.Result[protocol.ResourceContents]) {
	r.mu.RLock()
	resource, ok := r.resources[uri]
	r.mu.RUnlock()

	if !ok {
		return result.Err[protocol.ResourceContents](errors.ResourceNotFound(uri))
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("resource reader panicked",
				logging.String("uri", uri),
				logging.Any("panic", rec),
				logging.String("stack", string(debug.Stack())),
			)
			res = result.Err[protocol.ResourceContents](errors.Internal(
				fmt.Sprintf("resource %s", uri),
				fmt.Errorf("reader panic: %v", rec),
			))
		}
	}()

	text, err := resource.Reader(ctx)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return result.Err[protocol.ResourceContents](errors.ResourceNotFound(uri))
		}
		return result.Err[protocol.ResourceContents](errors.Internal(fmt.Sprintf("resource %s", uri), err))
	}

	return result.Ok(protocol.ResourceContents{
		URI:      resource.URI,
		MimeType: resource.MimeType,
		Text:     text,
	})
}
