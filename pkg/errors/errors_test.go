// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"statute not found", errors.CodeStatuteNotFound, "statute water-act-1974 not found"},
		{"invalid param", errors.CodeInvalidParam, "text must not be empty"},
		{"parse failed", errors.CodeParseFailed, "no sections recovered"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

func TestNew_StackIsPopulated(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeInternal, "test")
	require.NotNil(t, ae)
	// Stack may be empty when compiled with -tags nostack; otherwise it should
	// name this test file.
	if ae.Stack != "" {
		assert.Contains(t, ae.Stack, "errors_test.go")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.CodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("bolt handshake refused")
	wrapped := errors.Wrap(root, errors.CodeGraphError, "connection failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeGraphError, wrapped.Code)
	assert.Equal(t, "connection failed", wrapped.Message)
	assert.Equal(t, root, wrapped.Cause)
}

func TestWrap_UnwrapReturnsCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("original")
	ae := errors.Wrap(cause, errors.CodeLedgerError, "ledger read failed")

	unwrapped := stderrors.Unwrap(ae)
	assert.Equal(t, cause, unwrapped)
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeStatuteNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.CodeStatuteNotFound, outer.Code,
		"Wrap with CodeUnknown should inherit the inner AppError's code")
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeStatuteNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

	assert.Equal(t, errors.CodeInternal, outer.Code,
		"explicit non-Unknown code must override the inner code")
}

// ─────────────────────────────────────────────────────────────────────────────
// Error() formatting
// ─────────────────────────────────────────────────────────────────────────────

func TestError_FormatWithoutDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeParseFailed, "failed to parse statute text")
	assert.Equal(t, "[PARSE_001] failed to parse statute text", ae.Error())
}

func TestError_FormatWithDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeParseFailed, "failed to parse statute text").
		WithDetail("source=water_act_1974.pdf")

	got := ae.Error()
	assert.True(t, strings.HasPrefix(got, "[PARSE_001]"), got)
	assert.Contains(t, got, "source=water_act_1974.pdf")
}

func TestError_SatisfiesErrorInterface(t *testing.T) {
	t.Parallel()

	var err error = errors.New(errors.CodeInternal, "boom")
	assert.EqualError(t, err, "[COMMON_001] boom")
}

// ─────────────────────────────────────────────────────────────────────────────
// Fluent builders
// ─────────────────────────────────────────────────────────────────────────────

func TestWithDetail_ReturnsModifiedCopy(t *testing.T) {
	t.Parallel()

	orig := errors.New(errors.CodeNotFound, "missing")
	withDetail := orig.WithDetail("id=abc")

	assert.Empty(t, orig.Detail, "original must not be mutated")
	assert.Equal(t, "id=abc", withDetail.Detail)
	assert.Equal(t, orig.Code, withDetail.Code)
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("ignored"))
}

func TestWithCause_AttachesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("low-level: %w", stderrors.New("io failure"))
	ae := errors.AcquisitionFailed("no text").WithCause(cause)

	assert.Equal(t, cause, ae.Cause)
	assert.True(t, stderrors.Is(ae, cause))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_FindsCodeThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeAcquisitionTimeout, "pdftotext timed out")
	middle := fmt.Errorf("acquire %s: %w", "doc.pdf", inner)
	outer := errors.Wrap(middle, errors.ErrCodeIngestRunFailed, "document skipped")

	assert.True(t, errors.IsCode(outer, errors.ErrCodeAcquisitionTimeout))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeIngestRunFailed))
	assert.False(t, errors.IsCode(outer, errors.CodeGraphError))
}

func TestIsNotFound_CoversDomainVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"generic not found", errors.NotFound("x"), true},
		{"statute not found", errors.New(errors.CodeStatuteNotFound, "x"), true},
		{"wrapped statute not found", fmt.Errorf("ctx: %w", errors.New(errors.CodeStatuteNotFound, "x")), true},
		{"other code", errors.Internal("x"), false},
		{"plain error", stderrors.New("x"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, errors.IsNotFound(tc.err))
		})
	}
}

func TestGetCode_Extraction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))

	ae := errors.ParseFailed("short input")
	assert.Equal(t, errors.CodeParseFailed, errors.GetCode(ae))

	wrapped := fmt.Errorf("outer: %w", ae)
	assert.Equal(t, errors.CodeParseFailed, errors.GetCode(wrapped))
}

func TestIsFatal_AcquisitionAndParseOnly(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsFatal(errors.AcquisitionFailed("no text")))
	assert.True(t, errors.IsFatal(errors.New(errors.ErrCodeParseNoSections, "none")))
	assert.False(t, errors.IsFatal(errors.GraphError("upsert failed")))
	assert.False(t, errors.IsFatal(errors.New(errors.ErrCodeValidationBelowThreshold, "0.5")))
	assert.False(t, errors.IsFatal(nil))
}

// ─────────────────────────────────────────────────────────────────────────────
// Convenience factories
// ─────────────────────────────────────────────────────────────────────────────

func TestConvenienceFactories_AssignExpectedCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  *errors.AppError
		code errors.ErrorCode
	}{
		{"NotFound", errors.NotFound("m"), errors.CodeNotFound},
		{"InvalidParam", errors.InvalidParam("m"), errors.CodeInvalidParam},
		{"Internal", errors.Internal("m"), errors.CodeInternal},
		{"Timeout", errors.Timeout("m"), errors.CodeTimeout},
		{"AcquisitionFailed", errors.AcquisitionFailed("m"), errors.CodeAcquisitionFailed},
		{"ParseFailed", errors.ParseFailed("m"), errors.CodeParseFailed},
		{"GraphError", errors.GraphError("m"), errors.CodeGraphError},
		{"StorageError", errors.StorageError("m"), errors.CodeStorageError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.NotNil(t, tc.err)
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, "m", tc.err.Message)
		})
	}
}
