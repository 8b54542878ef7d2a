package model_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/danfe-zpl/internal/model"
)

func TestReaderError(t *testing.T) {
	err := model.NewReaderError("emit", "element not found", nil)

	require.Contains(t, err.Error(), "emit")
	require.Contains(t, err.Error(), "element not found")
}

func TestReaderError_WithCause(t *testing.T) {
	cause := assert.AnError
	err := model.NewReaderError("xml", "malformed document", cause)

	require.Contains(t, err.Error(), "malformed document")
	require.ErrorIs(t, err, cause)
}

func TestNotFoundError(t *testing.T) {
	err := model.NewNotFoundError("/tmp/missing.xml", os.ErrNotExist)

	require.Contains(t, err.Error(), "/tmp/missing.xml")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidationError(t *testing.T) {
	err := model.NewValidationError("emit.CNPJ", "123", "length", "must have exactly 14 digits")

	require.Contains(t, err.Error(), "emit.CNPJ")
	require.Contains(t, err.Error(), "123")
	require.Contains(t, err.Error(), "14 digits")
}

func TestFormatError(t *testing.T) {
	err := model.NewFormatError("not-a-date", "YYYY-MM-DD", "cannot parse timestamp", assert.AnError)

	require.Contains(t, err.Error(), "not-a-date")
	require.Contains(t, err.Error(), "YYYY-MM-DD")
	require.ErrorIs(t, err, assert.AnError)
}
