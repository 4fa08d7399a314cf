package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitReasonKinds(t *testing.T) {
	oog := errors.New("out of gas")

	require.True(t, IsSucceed(SucceedReturned))
	require.False(t, IsGasError(SucceedStopped))
	require.True(t, IsGasError(ExitError{Err: oog}))
	require.False(t, IsGasError(RevertReverted))
	require.False(t, IsGasError(ExitFatal{Err: ErrNotSupported}))

	require.ErrorIs(t, ExitError{Err: oog}.Unwrap(), oog)
	require.ErrorIs(t, ExitFatal{Err: ErrUnknownExitReason}.Unwrap(), ErrUnknownExitReason)
}

func TestExitReasonStrings(t *testing.T) {
	tests := []struct {
		reason ExitReason
		want   string
	}{
		{SucceedStopped, "Stopped"},
		{SucceedReturned, "Returned"},
		{SucceedSuicided, "Suicided"},
		{ExitSucceed(42), "unknown"},
		{RevertReverted, "Reverted"},
		{ExitError{Err: errors.New("stack underflow")}, "stack underflow"},
		{ExitError{}, "Other(unspecified)"},
		{ExitFatal{Err: ErrUnknownExitReason}, "unknown exit reason"},
		{ExitFatal{}, "Other(unspecified)"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.reason.String())
	}
}
