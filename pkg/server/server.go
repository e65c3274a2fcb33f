// Package server assembles the gateway: the protocol processor, the method
// controllers, the tool and resource registries, and the transport. The
// Server is the composition root; everything is wired at construction time
// and the registries freeze once Serve starts.
package server

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/contextworks/mcp-gateway/pkg/eventbus"
	"github.com/contextworks/mcp-gateway/pkg/logging"
	"github.com/contextworks/mcp-gateway/pkg/observability"
	"github.com/contextworks/mcp-gateway/pkg/resources"
	"github.com/contextworks/mcp-gateway/pkg/router"
	"github.com/contextworks/mcp-gateway/pkg/store"
	"github.com/contextworks/mcp-gateway/pkg/tools"
	"github.com/contextworks/mcp-gateway/pkg/transport"
)

const (
	defaultName    = "mcp-gateway"
	defaultVersion = "0.1.0"
)

// Server is the assembled gateway.
type Server struct {
	name    string
	version string
	logger  logging.Logger

	workspace    store.WorkspaceRepository
	instructions store.InstructionsRepository

	bus       *eventbus.Bus
	tools     *tools.Registry
	resources *resources.Registry
	router    *router.Router
	processor *Processor
	toolCtx   *tools.Context

	transport       transport.Transport
	transportConfig transport.Config

	metrics   *observability.Metrics
	tracer    trace.Tracer
	limiter   *rate.Limiter
	noBuiltin bool

	mu      sync.Mutex
	started bool
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithName sets the server name reported by initialize.
func WithName(name string) Option {
	return func(s *Server) { s.name = name }
}

// WithVersion sets the server version reported by initialize.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithLogger sets the logger. The default logs text to stderr.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithTransport installs a concrete transport, bypassing the factory.
func WithTransport(t transport.Transport) Option {
	return func(s *Server) { s.transport = t }
}

// WithTransportConfig parameterizes the transport factory.
func WithTransportConfig(config transport.Config) Option {
	return func(s *Server) { s.transportConfig = config }
}

// WithWorkspace sets the workspace repository backing the workspace tools.
func WithWorkspace(workspace store.WorkspaceRepository) Option {
	return func(s *Server) { s.workspace = workspace }
}

// WithInstructions sets the instructions repository.
func WithInstructions(instructions store.InstructionsRepository) Option {
	return func(s *Server) { s.instructions = instructions }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Server) { s.metrics = metrics }
}

// WithRateLimit throttles dispatch to rps sustained requests per second with
// the given burst. A zero rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithTracing wraps each dispatch in a span from tracer.
func WithTracing(tracer trace.Tracer) Option {
	return func(s *Server) { s.tracer = tracer }
}

// WithoutBuiltins skips registration of the builtin tools and resources.
func WithoutBuiltins() Option {
	return func(s *Server) { s.noBuiltin = true }
}

// New assembles a gateway server. Builtin tools and resources are registered
// here; additional ones may be added with RegisterTool and RegisterResource
// until Serve is called.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		name:    defaultName,
		version: defaultVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.New(nil, nil)
	}

	if s.workspace == nil {
		workspace, err := store.NewFileWorkspace("workspace")
		if err != nil {
			return nil, fmt.Errorf("default workspace: %w", err)
		}
		s.workspace = workspace
	}
	if s.instructions == nil {
		instructions, err := store.NewFileInstructions(filepath.Join("workspace", ".instructions"))
		if err != nil {
			return nil, fmt.Errorf("default instructions: %w", err)
		}
		s.instructions = instructions
	}

	s.bus = eventbus.New(s.logger)
	s.tools = tools.NewRegistry(s.logger)
	s.resources = resources.NewRegistry(s.logger)
	s.router = router.New()
	s.toolCtx = &tools.Context{
		Workspace:    s.workspace,
		Instructions: s.instructions,
		Events:       s.bus,
	}

	if !s.noBuiltin {
		for _, t := range builtinTools() {
			if err := s.tools.Register(t); err != nil {
				return nil, fmt.Errorf("register builtin tool: %w", err)
			}
		}
		for _, r := range builtinResources(s.toolCtx) {
			if err := s.resources.Register(r); err != nil {
				return nil, fmt.Errorf("register builtin resource: %w", err)
			}
		}
	}

	capabilities := map[string]bool{"tools": true, "resources": true}
	controllers := []interface {
		Mount(*router.Router) error
	}{
		NewSystemController(s.name, s.version, capabilities),
		NewToolsController(s.tools, s.toolCtx, s.metrics),
		NewResourcesController(s.resources),
	}
	for _, c := range controllers {
		if err := c.Mount(s.router); err != nil {
			return nil, fmt.Errorf("mount controller: %w", err)
		}
	}

	var popts []ProcessorOption
	if s.limiter != nil {
		popts = append(popts, WithRateLimiter(s.limiter))
	}
	if s.metrics != nil {
		popts = append(popts, WithProcessorMetrics(s.metrics))
	}
	if s.tracer != nil {
		popts = append(popts, WithTracer(s.tracer))
	}
	s.processor = NewProcessor(s.router, s.logger, popts...)

	return s, nil
}

// RegisterTool adds a tool. Registration is rejected once Serve has started.
func (s *Server) RegisterTool(t tools.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("cannot register tool %q: server already started", t.Name)
	}
	return s.tools.Register(t)
}

// RegisterResource adds a resource. Registration is rejected once Serve has
// started.
func (s *Server) RegisterResource(r resources.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("cannot register resource %q: server already started", r.URI)
	}
	return s.resources.Register(r)
}

// Subscribe attaches a handler to a bus event. Subscription is rejected once
// Serve has started so the delivery order stays fixed.
func (s *Server) Subscribe(event string, handler eventbus.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("cannot subscribe to %q: server already started", event)
	}
	s.bus.Subscribe(event, handler)
	return nil
}

// Events returns the server's event bus.
func (s *Server) Events() *eventbus.Bus { return s.bus }

// Processor returns the request processor, for embedding the gateway behind
// a custom transport.
func (s *Server) Processor() *Processor { return s.processor }

// Serve selects the transport (unless one was installed explicitly) and
// blocks until ctx is cancelled, Shutdown is called, or the transport fails.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}
	s.started = true

	if s.transport == nil {
		t, err := transport.New(s.transportConfig, s.logger)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("select transport: %w", err)
		}
		s.transport = t
	}
	t := s.transport
	s.mu.Unlock()

	s.logger.Info("server starting",
		logging.String("name", s.name),
		logging.String("version", s.version),
		logging.Int("tools", s.tools.Len()),
	)
	return t.Serve(ctx, s.processor)
}

// Shutdown stops the transport and drains in-flight work.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	t := s.transport
	s.mu.Unlock()
	if t == nil {
		return nil
	}
	return t.Shutdown(ctx)
}
