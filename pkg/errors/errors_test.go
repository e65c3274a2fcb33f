package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindCodes(t *testing.T) {
	tests := []struct {
		kind Kind
		code int
	}{
		{KindParse, -32700},
		{KindInvalidRequest, -32600},
		{KindMethodNotFound, -32601},
		{KindInvalidParams, -32602},
		{KindInternal, -32603},
		{KindResourceNotFound, -32001},
		{KindToolNotFound, -32002},
		{KindPermissionDenied, -32003},
		{KindRateLimited, -32004},
		{KindValidation, -32005},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.kind.Code())

			kind, ok := KindForCode(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestKindForCodeUnknown(t *testing.T) {
	kind, ok := KindForCode(-1)
	assert.False(t, ok)
	assert.Equal(t, KindInternal, kind)
}

func TestErrorMessageAndDetail(t *testing.T) {
	err := New(KindToolNotFound, "tool not found: frobnicate")
	assert.Equal(t, "tool not found: frobnicate", err.Error())
	assert.Equal(t, "tool not found: frobnicate", err.Message())
	assert.Empty(t, err.Detail())

	detailed := err.WithDetail("requested by conn 7")
	assert.Equal(t, "tool not found: frobnicate: requested by conn 7", detailed.Error())
	// The wire message stays unchanged.
	assert.Equal(t, "tool not found: frobnicate", detailed.Message())
}

func TestWithDetailDoesNotMutateOriginal(t *testing.T) {
	base := New(KindInternal, "internal error")
	_ = base.WithDetail("first")
	_ = base.WithDetailf("second %d", 2)
	assert.Empty(t, base.Detail())

	chained := base.WithDetail("first").WithDetail("second")
	assert.Equal(t, "first; second", chained.Detail())
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, KindInternal, "internal error")
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestAsAndIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(KindRateLimited, "rate limit exceeded for ping"))

	gwErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindRateLimited, gwErr.Kind())

	assert.True(t, IsKind(err, KindRateLimited))
	assert.False(t, IsKind(err, KindParse))
	assert.False(t, IsKind(stderrors.New("plain"), KindParse))
}

func TestValidationFailedCarriesViolations(t *testing.T) {
	violations := []FieldViolation{
		{Field: "text", Message: `field "text" is required`, Code: ViolationRequired},
		{Field: "mode", Message: `field "mode" must be one of [a b]`, Code: ViolationEnum},
	}
	err := ValidationFailed(violations)

	assert.Equal(t, KindValidation, err.Kind())
	assert.Equal(t, CodeValidationError, err.Code())

	data, ok := err.Data().(*ValidationErrorData)
	require.True(t, ok)
	assert.Equal(t, violations, data.Violations)
}

func TestInternalHidesCauseFromWire(t *testing.T) {
	err := Internal("read workspace", fmt.Errorf("permission denied on /etc/shadow"))
	assert.Equal(t, "internal error", err.Message())
	assert.Contains(t, err.Detail(), "read workspace")
	assert.Contains(t, err.Detail(), "/etc/shadow")
}
