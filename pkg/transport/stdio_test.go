package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contextworks/mcp-gateway/pkg/protocol"
)

// scriptedHandler echoes the request id with a fixed result, or stays silent
// for notifications.
type scriptedHandler struct {
	calls [][]byte
}

func (h *scriptedHandler) Process(ctx context.Context, raw []byte) *protocol.Response {
	h.calls = append(h.calls, raw)

	var req protocol.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return protocol.NewErrorResponse(nil, -32700, "failed to parse message", nil)
	}
	if req.IsNotification() {
		return nil
	}
	resp, _ := protocol.NewResponse(req.ID, map[string]string{"method": req.Method})
	return resp
}

func TestStdioServeRoundTrip(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`,
		``, // blank lines are skipped
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n"

	var output bytes.Buffer
	transport := NewStdio(Config{Stdin: strings.NewReader(input), Stdout: &output}, nil)
	handler := &scriptedHandler{}

	err := transport.Serve(context.Background(), handler)
	require.NoError(t, err)
	require.Len(t, handler.calls, 2)

	scanner := bufio.NewScanner(&output)
	var responses []protocol.Response
	for scanner.Scan() {
		var resp protocol.Response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}

	// Responses come back in request order.
	require.Len(t, responses, 2)
	assert.Equal(t, float64(1), responses[0].ID)
	assert.Equal(t, float64(2), responses[1].ID)
	assert.JSONEq(t, `{"method":"ping"}`, string(responses[0].Result))
	assert.JSONEq(t, `{"method":"tools/list"}`, string(responses[1].Result))
}

func TestStdioNotificationWritesNothing(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":null,"method":"ping"}` + "\n"

	var output bytes.Buffer
	transport := NewStdio(Config{Stdin: strings.NewReader(input), Stdout: &output}, nil)
	handler := &scriptedHandler{}

	require.NoError(t, transport.Serve(context.Background(), handler))
	assert.Len(t, handler.calls, 1)
	assert.Zero(t, output.Len())
}

func TestStdioServeStopsOnContextCancel(t *testing.T) {
	// A pipe that never delivers data keeps the scanner blocked until the
	// context fires.
	reader, _ := newBlockingPipe()
	var output bytes.Buffer
	transport := NewStdio(Config{Stdin: reader, Stdout: &output}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- transport.Serve(ctx, &scriptedHandler{})
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestStdioShutdownIdempotent(t *testing.T) {
	transport := NewStdio(Config{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}}, nil)
	require.NoError(t, transport.Shutdown(context.Background()))
	require.NoError(t, transport.Shutdown(context.Background()))
}

// blockingPipe blocks reads until closed.
type blockingPipe struct {
	closed chan struct{}
}

func newBlockingPipe() (*blockingPipe, func()) {
	p := &blockingPipe{closed: make(chan struct{})}
	return p, func() { close(p.closed) }
}

func (p *blockingPipe) Read(b []byte) (int, error) {
	<-p.closed
	// A wrapped cancellation, as a net.Conn or pipe would surface it, must
	// still be treated as a clean stop.
	return 0, fmt.Errorf("read interrupted: %w", context.Canceled)
}

func (p *blockingPipe) Close() error {
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
	return nil
}
