// Package transport provides the byte-level channels that carry protocol
// envelopes: a standard-stream transport framing newline-delimited JSON and
// an HTTP transport serving one dispatch per POST. Both hand every decoded
// message to the same processor boundary, so the dispatch pipeline is
// identical regardless of which transport carried the request.
package transport

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/contextworks/mcp-gateway/pkg/logging"
	"github.com/contextworks/mcp-gateway/pkg/protocol"
)

// Handler is the processor boundary. Process consumes one raw message and
// returns the response to write back, or nil when the message was a
// notification and no response is due.
type Handler interface {
	Process(ctx context.Context, raw []byte) *protocol.Response
}

// Transport carries envelopes in and out.
type Transport interface {
	// Serve accepts messages and forwards each to handler, writing back
	// each response. It blocks until ctx is cancelled, Shutdown is called,
	// or the channel fails.
	Serve(ctx context.Context, handler Handler) error

	// Shutdown releases the transport's resources. Safe to call more than
	// once and on every exit path.
	Shutdown(ctx context.Context) error
}

// Type identifies a transport implementation.
type Type string

const (
	TypeStdio Type = "stdio"
	TypeHTTP  Type = "http"
)

// ErrUnsupportedType is returned for transport selections outside the known
// set.
var ErrUnsupportedType = errors.New("unsupported transport type")

// EnvTransport is the environment override consulted when no explicit
// configuration value is set.
const EnvTransport = "MCP_TRANSPORT"

// EnvDevMode is the development-mode signal consulted during auto-detection.
const EnvDevMode = "MCP_DEV_MODE"

// Config selects and parameterizes a transport.
type Config struct {
	// Type is the explicit selection; empty defers to the environment
	// override and auto-detection.
	Type Type

	// HTTP settings.
	HTTPAddr      string
	EnableMetrics bool
	MetricsPath   string

	// DevMode biases auto-detection toward the HTTP transport.
	DevMode bool

	// Stdio overrides, for tests.
	Stdin  io.Reader
	Stdout io.Writer
}

// ResolveType applies the selection priority: explicit configuration, then
// the MCP_TRANSPORT environment override, then auto-detection (a
// non-interactive stdin implies stdio, a development-mode signal implies
// HTTP), then the stdio default.
func ResolveType(explicit Type, devMode, interactiveStdin bool) (Type, error) {
	if explicit != "" {
		return validateType(explicit)
	}
	if env := os.Getenv(EnvTransport); env != "" {
		return validateType(Type(env))
	}
	if !interactiveStdin {
		return TypeStdio, nil
	}
	if devMode || envBool(EnvDevMode) {
		return TypeHTTP, nil
	}
	return TypeStdio, nil
}

func validateType(t Type) (Type, error) {
	switch t {
	case TypeStdio, TypeHTTP:
		return t, nil
	default:
		return "", ErrUnsupportedType
	}
}

func envBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes":
		return true
	}
	return false
}

// New selects and constructs a transport from config.
func New(config Config, logger logging.Logger) (Transport, error) {
	resolved, err := ResolveType(config.Type, config.DevMode, stdinInteractive())
	if err != nil {
		return nil, err
	}

	switch resolved {
	case TypeStdio:
		return NewStdio(config, logger), nil
	case TypeHTTP:
		return NewHTTP(config, logger), nil
	default:
		return nil, ErrUnsupportedType
	}
}

// stdinInteractive reports whether stdin is a terminal rather than a pipe.
func stdinInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
