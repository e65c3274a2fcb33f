package router

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contextworks/mcp-gateway/pkg/errors"
	"github.com/contextworks/mcp-gateway/pkg/protocol"
	"github.com/contextworks/mcp-gateway/pkg/result"
)

func okHandler(payload interface{}) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
		return result.Ok(payload)
	}
}

func TestRegisterRejectsUnknownMethod(t *testing.T) {
	r := New()
	err := r.Register("tools/destroy", okHandler(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown protocol method")
}

func TestRegisterRejectsNilHandler(t *testing.T) {
	r := New()
	assert.Error(t, r.Register(protocol.MethodPing, nil))
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(protocol.MethodPing, okHandler("first")))

	err := r.Register(protocol.MethodPing, okHandler("second"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	// The first registration wins.
	res := r.Dispatch(context.Background(), protocol.MethodPing, nil)
	require.True(t, res.IsOk())
	assert.Equal(t, "first", res.Value())
}

func TestDispatchUnregisteredMethod(t *testing.T) {
	r := New()

	res := r.Dispatch(context.Background(), protocol.MethodListTools, nil)
	require.True(t, res.IsErr())
	assert.Equal(t, errors.KindMethodNotFound, res.Err().Kind())
	assert.Equal(t, errors.CodeMethodNotFound, res.Err().Code())
}

func TestDispatchPassesResultThrough(t *testing.T) {
	r := New()
	want := errors.New(errors.KindPermissionDenied, "permission denied for x: nope")
	require.NoError(t, r.Register(protocol.MethodCallTool,
		HandlerFunc(func(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
			return result.Err[interface{}](want)
		})))

	res := r.Dispatch(context.Background(), protocol.MethodCallTool, nil)
	require.True(t, res.IsErr())
	assert.Equal(t, want, res.Err())
}

func TestDispatchDeliversParams(t *testing.T) {
	r := New()
	var seen json.RawMessage
	require.NoError(t, r.Register(protocol.MethodPing,
		HandlerFunc(func(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
			seen = params
			return result.Ok[interface{}](nil)
		})))

	raw := json.RawMessage(`{"timestamp":99}`)
	r.Dispatch(context.Background(), protocol.MethodPing, raw)
	assert.Equal(t, raw, seen)
}

func TestRegistered(t *testing.T) {
	r := New()
	assert.False(t, r.Registered(protocol.MethodPing))
	require.NoError(t, r.Register(protocol.MethodPing, okHandler(nil)))
	assert.True(t, r.Registered(protocol.MethodPing))
}
