package server

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/contextworks/mcp-gateway/pkg/errors"
	"github.com/contextworks/mcp-gateway/pkg/logging"
	"github.com/contextworks/mcp-gateway/pkg/observability"
	"github.com/contextworks/mcp-gateway/pkg/protocol"
	"github.com/contextworks/mcp-gateway/pkg/result"
	"github.com/contextworks/mcp-gateway/pkg/router"
)

// Processor is the single funnel every request passes through, independent
// of transport. It decodes the envelope, validates its shape, delegates to
// the method router, and translates the outcome into a response envelope.
// Malformed input is never fatal: every failure produces a well-formed error
// response carrying the original correlation id.
type Processor struct {
	router  *router.Router
	logger  logging.Logger
	limiter *rate.Limiter
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithRateLimiter installs a token bucket in front of dispatch. Exhausted
// budgets yield RateLimited responses.
func WithRateLimiter(limiter *rate.Limiter) ProcessorOption {
	return func(p *Processor) { p.limiter = limiter }
}

// WithProcessorMetrics records request counts and latencies.
func WithProcessorMetrics(metrics *observability.Metrics) ProcessorOption {
	return func(p *Processor) { p.metrics = metrics }
}

// WithTracer wraps each dispatch in a span.
func WithTracer(tracer trace.Tracer) ProcessorOption {
	return func(p *Processor) { p.tracer = tracer }
}

// NewProcessor creates a processor over the given router.
func NewProcessor(r *router.Router, logger logging.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = logging.Discard()
	}
	p := &Processor{
		router: r,
		logger: logger.WithFields(logging.String("component", "processor")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process consumes one raw message and produces its response envelope. A nil
// return means the message was a notification and no response is due.
func (p *Processor) Process(ctx context.Context, raw []byte) *protocol.Response {
	start := time.Now()

	var req protocol.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		p.logger.Debug("undecodable message", logging.Err(err))
		return p.fail(nil, "", errors.ParseError(err), start)
	}

	if reason := envelopeInvalid(&req); reason != "" {
		return p.fail(req.ID, req.Method, errors.InvalidRequest(reason), start)
	}

	if p.limiter != nil && !p.limiter.Allow() {
		err := errors.RateLimited(req.Method)
		// A throttled notification still produces no response.
		if req.IsNotification() {
			p.logger.Debug("notification throttled",
				logging.String("method", req.Method),
			)
			p.observe(req.Method, err.Code(), start)
			return nil
		}
		return p.fail(req.ID, req.Method, err, start)
	}

	res := p.dispatch(ctx, &req)

	if req.IsNotification() {
		code := 0
		if res.IsErr() {
			code = res.Err().Code()
			p.logger.Debug("notification failed",
				logging.String("method", req.Method),
				logging.Err(res.Err()),
			)
		}
		p.observe(req.Method, code, start)
		return nil
	}

	if res.IsErr() {
		return p.fail(req.ID, req.Method, res.Err(), start)
	}

	response, err := protocol.NewResponse(req.ID, res.Value())
	if err != nil {
		return p.fail(req.ID, req.Method, errors.Internal("encode result", err), start)
	}
	p.observe(req.Method, 0, start)
	return response
}

// dispatch runs the router with panic containment. A panicking handler is a
// programming fault; it is logged in full and surfaces on the wire as a
// generic internal error only.
func (p *Processor) dispatch(ctx context.Context, req *protocol.Request) (res result.Result[interface{}]) {
	if p.tracer != nil {
		var span trace.Span
		ctx, span = p.tracer.Start(ctx, "gateway.dispatch",
			trace.WithAttributes(
				attribute.String("rpc.method", req.Method),
				attribute.String("rpc.id", fmt.Sprintf("%v", req.ID)),
			),
		)
		defer func() {
			if res.IsErr() {
				span.SetStatus(codes.Error, res.Err().Kind().String())
			}
			span.End()
		}()
	}

	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("handler panicked",
				logging.String("method", req.Method),
				logging.Any("panic", rec),
				logging.String("stack", string(debug.Stack())),
			)
			res = result.Err[interface{}](errors.Internal(
				req.Method, fmt.Errorf("handler panic: %v", rec),
			))
		}
	}()

	return p.router.Dispatch(ctx, req.Method, req.Params)
}

// fail builds the error response for err, echoing the correlation id. Wire
// messages stay generic for internal faults; detail goes to the logs only.
func (p *Processor) fail(id interface{}, method string, err *errors.Error, start time.Time) *protocol.Response {
	if err.Kind() == errors.KindInternal {
		p.logger.Error("request failed",
			logging.String("method", method),
			logging.Err(err),
		)
	} else {
		p.logger.Debug("request rejected",
			logging.String("method", method),
			logging.Int("code", err.Code()),
			logging.Err(err),
		)
	}
	p.observe(method, err.Code(), start)
	return protocol.NewErrorResponse(id, err.Code(), err.Message(), err.Data())
}

func (p *Processor) observe(method string, code int, start time.Time) {
	if method == "" {
		method = "unknown"
	}
	p.metrics.ObserveRequest(method, code, time.Since(start))
}

// envelopeInvalid checks the request envelope shape. Unknown methods are
// rejected here, before routing; an unregistered but known method is the
// router's MethodNotFound case instead.
func envelopeInvalid(req *protocol.Request) string {
	if req.JSONRPC != protocol.JSONRPCVersion {
		return fmt.Sprintf("jsonrpc must be %q", protocol.JSONRPCVersion)
	}
	if req.Method == "" {
		return "method is required"
	}
	if !protocol.KnownMethod(req.Method) {
		return fmt.Sprintf("unknown method %q", req.Method)
	}
	return ""
}
