package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	tests := []struct {
		err      error
		category error
	}{
		{ErrDuplicateColumnName, ErrSchema},
		{ErrEmptyColumnName, ErrSchema},
		{ErrUnknownPrimitive, ErrType},
		{ErrUnregisteredLogical, ErrType},
		{ErrDictKeyOverflow, ErrEncoding},
		{ErrUnknownColumnType, ErrDecoding},
		{ErrChecksumMismatch, ErrDecoding},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.category)
			require.ErrorIs(t, fmt.Errorf("%w: context", tt.err), tt.category)
		})
	}
}

func TestValueKindMismatchMatchesTypeAndEncoding(t *testing.T) {
	err := fmt.Errorf("%w: got string", ErrValueKindMismatch)

	require.ErrorIs(t, err, ErrType)
	require.ErrorIs(t, err, ErrEncoding)
	require.NotErrorIs(t, err, ErrDecoding)
}

func TestConversionError(t *testing.T) {
	cause := errors.New("bad date")
	err := NewConversionError("born", 7, cause)

	require.ErrorIs(t, err, ErrConversion)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), `"born"`)
	require.Contains(t, err.Error(), "row 7")

	var convErr *ConversionError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &convErr)
	require.Equal(t, "born", convErr.Column)
	require.Equal(t, 7, convErr.Row)
}
