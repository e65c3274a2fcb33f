package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contextworks/mcp-gateway/pkg/errors"
)

func TestOk(t *testing.T) {
	r := Ok(42)
	assert.True(t, r.IsOk())
	assert.False(t, r.IsErr())
	assert.Equal(t, 42, r.Value())
	assert.Nil(t, r.Err())

	v, err := r.Get()
	require.Nil(t, err)
	assert.Equal(t, 42, v)
}

func TestErr(t *testing.T) {
	e := errors.New(errors.KindToolNotFound, "tool not found: x")
	r := Err[string](e)
	assert.True(t, r.IsErr())
	assert.False(t, r.IsOk())
	assert.Equal(t, e, r.Err())
	assert.Empty(t, r.Value())

	_, err := r.Get()
	assert.Equal(t, e, err)
}

func TestErrf(t *testing.T) {
	r := Errf[int](errors.KindInvalidParams, "bad value %d", 7)
	require.True(t, r.IsErr())
	assert.Equal(t, errors.KindInvalidParams, r.Err().Kind())
	assert.Equal(t, "bad value 7", r.Err().Message())
}

func TestMap(t *testing.T) {
	doubled := Map(Ok(21), func(v int) int { return v * 2 })
	require.True(t, doubled.IsOk())
	assert.Equal(t, 42, doubled.Value())

	e := errors.New(errors.KindInternal, "internal error")
	mapped := Map(Err[int](e), func(v int) int { return v * 2 })
	require.True(t, mapped.IsErr())
	assert.Equal(t, e, mapped.Err())
}
