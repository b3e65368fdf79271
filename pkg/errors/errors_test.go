package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorFormatting(t *testing.T) {
	t.Parallel()

	cause := errors.New("yaml: line 4: mapping values are not allowed")
	err := NewParseError("atrium.yaml", 4, cause)

	require.Equal(t, "parse error: atrium.yaml:4: yaml: line 4: mapping values are not allowed", err.Error())
	require.ErrorIs(t, err, cause)

	noLine := NewParseError("atrium.yaml", 0, cause)
	require.Contains(t, noLine.Error(), "parse error: atrium.yaml: ")
}

func TestValidationErrorFormatting(t *testing.T) {
	t.Parallel()

	err := NewValidationError("mail.host", "is required", nil)
	require.Equal(t, "validation error: mail.host: is required", err.Error())

	bare := NewValidationError("", "config is empty", nil)
	require.Equal(t, "validation error: config is empty", bare.Error())
}
