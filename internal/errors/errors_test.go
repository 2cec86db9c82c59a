package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "estoquemaster/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		category string
	}{
		{"entrada inválida", apperror.NewInvalidInputError("x"), http.StatusBadRequest, "INVALID_INPUT"},
		{"não encontrado", apperror.NewNotFoundError("x"), http.StatusNotFound, "NOT_FOUND"},
		{"estoque insuficiente", apperror.NewInsufficientStockError("m", 1, 2), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"armazenamento", apperror.NewDBError("x", errors.New("conn refused")), http.StatusInternalServerError, "STORAGE_ERROR"},
		{"proibido", apperror.NewForbiddenError("x"), http.StatusForbidden, "FORBIDDEN"},
		{"não tipado", errors.New("boom"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, category, _ := apperror.MapToHTTPStatus(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.category, category)
		})
	}
}

func TestMapToHTTPStatus_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("camada de serviço: %w", apperror.NewNotFoundError("Material 1"))

	status, category, message := apperror.MapToHTTPStatus(wrapped)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", category)
	assert.Contains(t, message, "Material 1")
	assert.True(t, apperror.IsNotFound(wrapped))
}

func TestStorageError_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk quota exceeded")
	err := apperror.NewStorageError("falha ao gravar arquivo", cause)

	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "quota")
}
