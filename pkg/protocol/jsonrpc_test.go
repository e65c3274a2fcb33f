package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(1, MethodPing, PingParams{Timestamp: 123})
	require.NoError(t, err)
	assert.Equal(t, JSONRPCVersion, req.JSONRPC)
	assert.Equal(t, MethodPing, req.Method)
	assert.JSONEq(t, `{"timestamp":123}`, string(req.Params))
	assert.False(t, req.IsNotification())
}

func TestRequestNotification(t *testing.T) {
	req, err := NewRequest(nil, MethodPing, nil)
	require.NoError(t, err)
	assert.True(t, req.IsNotification())
}

func TestRequestIDSurvivesRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"string id", `{"jsonrpc":"2.0","id":"abc-123","method":"ping"}`},
		{"number id", `{"jsonrpc":"2.0","id":42,"method":"ping"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req Request
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &req))
			require.NotNil(t, req.ID)

			resp, err := NewResponse(req.ID, map[string]string{"ok": "yes"})
			require.NoError(t, err)
			assert.Equal(t, req.ID, resp.ID)
		})
	}
}

func TestResponseValid(t *testing.T) {
	success, err := NewResponse(1, "payload")
	require.NoError(t, err)
	assert.True(t, success.Valid())

	failure := NewErrorResponse(1, -32601, "method not found: x", nil)
	assert.True(t, failure.Valid())

	neither := &Response{JSONRPC: JSONRPCVersion, ID: 1}
	assert.False(t, neither.Valid())

	both := &Response{
		JSONRPC: JSONRPCVersion,
		ID:      1,
		Result:  json.RawMessage(`"x"`),
		Error:   &ErrorObject{Code: -32603, Message: "internal error"},
	}
	assert.False(t, both.Valid())
}

func TestNewResponseNilResult(t *testing.T) {
	resp, err := NewResponse(7, nil)
	require.NoError(t, err)
	assert.True(t, resp.Valid())

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"result":null`)
}

func TestKnownMethod(t *testing.T) {
	for _, m := range Methods() {
		assert.True(t, KnownMethod(m), m)
	}
	assert.False(t, KnownMethod("tools/destroy"))
	assert.False(t, KnownMethod(""))
}
