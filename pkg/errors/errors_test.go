package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// New / Wrap
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"source down", errors.ErrCodeDataSourceUnavailable, "docket 68123 lookup failed"},
		{"invalid param", errors.CodeInvalidParam, "lookback must be positive"},
		{"issue tracker", errors.ErrCodeIssueTrackerFailed, "create comment failed"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	ae := errors.Newf(errors.ErrCodeWebhookFailed, "status %d", 500)
	assert.Equal(t, "status 500", ae.Message)
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	root := stderrors.New("connection reset")
	ae := errors.Wrap(root, errors.ErrCodeDataSourceUnavailable, "search failed")

	require.NotNil(t, ae)
	assert.True(t, stderrors.Is(ae, root))
	assert.Equal(t, root, ae.Unwrap())
}

func TestWrap_UnknownCodeInheritsInner(t *testing.T) {
	inner := errors.New(errors.ErrCodeArchiveFailed, "put object")
	outer := errors.Wrap(inner, errors.CodeUnknown, "archive step")
	assert.Equal(t, errors.ErrCodeArchiveFailed, outer.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Error()
// ─────────────────────────────────────────────────────────────────────────────

func TestAppError_ErrorFormat(t *testing.T) {
	cause := stderrors.New("eof")
	ae := errors.Wrap(cause, errors.ErrCodeIssueTrackerFailed, "patch issue").WithDetail("issue=42")
	assert.Equal(t, "[PUB_001] patch issue: issue=42: eof", ae.Error())

	bare := errors.New(errors.ErrCodeInvalidConfig, "missing owner")
	assert.Equal(t, "[CFG_001] missing owner", bare.Error())
}

func TestWithDetail_DoesNotMutateReceiver(t *testing.T) {
	ae := errors.New(errors.CodeInternal, "x")
	clone := ae.WithDetail("d")
	assert.Empty(t, ae.Detail)
	assert.Equal(t, "d", clone.Detail)

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithDetail("d"))
}

func TestWithCause(t *testing.T) {
	cause := stderrors.New("boom")
	ae := errors.New(errors.CodeInternal, "x").WithCause(cause)
	assert.True(t, stderrors.Is(ae, cause))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_ThroughFmtWrapping(t *testing.T) {
	ae := errors.New(errors.ErrCodeRunLocked, "locked")
	wrapped := fmt.Errorf("outer: %w", ae)

	assert.True(t, errors.IsCode(wrapped, errors.ErrCodeRunLocked))
	assert.False(t, errors.IsCode(wrapped, errors.CodeInternal))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("docket")))
	assert.False(t, errors.IsNotFound(errors.Internal("x")))
	assert.False(t, errors.IsNotFound(stderrors.New("plain")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(errors.InvalidConfig("x")))
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(errors.InvalidParam("x")))
}

//Personal.AI order the ending
