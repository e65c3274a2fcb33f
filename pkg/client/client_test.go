package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contextworks/mcp-gateway/pkg/errors"
	"github.com/contextworks/mcp-gateway/pkg/logging"
	"github.com/contextworks/mcp-gateway/pkg/protocol"
	"github.com/contextworks/mcp-gateway/pkg/server"
	"github.com/contextworks/mcp-gateway/pkg/store"
)

// newTestGateway runs a real gateway processor behind an httptest server.
func newTestGateway(t *testing.T) *Client {
	t.Helper()

	dir := t.TempDir()
	workspace, err := store.NewFileWorkspace(filepath.Join(dir, "ws"))
	require.NoError(t, err)
	instructions, err := store.NewFileInstructions(filepath.Join(dir, "ws", ".instructions"))
	require.NoError(t, err)

	srv, err := server.New(
		server.WithName("client-test-gateway"),
		server.WithVersion("1.2.3"),
		server.WithLogger(logging.Discard()),
		server.WithWorkspace(workspace),
		server.WithInstructions(instructions),
	)
	require.NoError(t, err)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		resp := srv.Processor().Process(r.Context(), raw)
		if resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(ts.Close)

	return New(ts.URL, WithClientInfo("test-client", "0.0.1"), WithHTTPClient(ts.Client()))
}

func TestInitialize(t *testing.T) {
	c := newTestGateway(t)

	info, err := c.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "client-test-gateway", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, protocol.ProtocolRevision, info.ProtocolVersion)
}

func TestPing(t *testing.T) {
	c := newTestGateway(t)

	res, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, res.Timestamp)
}

func TestListTools(t *testing.T) {
	c := newTestGateway(t)

	toolList, err := c.ListTools(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, toolList)
	assert.Equal(t, "echo", toolList[0].Name)
}

func TestCallTool(t *testing.T) {
	c := newTestGateway(t)

	var echoed struct {
		Text string `json:"text"`
	}
	err := c.CallTool(context.Background(), "echo", map[string]string{"text": "round trip"}, &echoed)
	require.NoError(t, err)
	assert.Equal(t, "round trip", echoed.Text)
}

func TestWireErrorsMapToKinds(t *testing.T) {
	c := newTestGateway(t)
	ctx := context.Background()

	err := c.CallTool(ctx, "no-such-tool", map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindToolNotFound))

	err = c.CallTool(ctx, "echo", map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))

	_, err = c.ReadResource(ctx, "ghost://nothing")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindResourceNotFound))
}

func TestListAndReadResources(t *testing.T) {
	c := newTestGateway(t)
	ctx := context.Background()

	resourceList, err := c.ListResources(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, resourceList)

	contents, err := c.ReadResource(ctx, "instructions://global")
	require.NoError(t, err)
	assert.Equal(t, "instructions://global", contents.URI)
	assert.Empty(t, contents.Text)
}

func TestRequestIDsIncrement(t *testing.T) {
	var ids []interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var req protocol.Request
		require.NoError(t, json.Unmarshal(raw, &req))
		ids = append(ids, req.ID)

		resp, _ := protocol.NewResponse(req.ID, protocol.PingResult{Timestamp: 1})
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(ts.Close)

	c := New(ts.URL)
	ctx := context.Background()
	_, err := c.Ping(ctx)
	require.NoError(t, err)
	_, err = c.Ping(ctx)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{float64(1), float64(2)}, ids)
}
