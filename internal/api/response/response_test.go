package response_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoquemaster/internal/api/response"
	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
)

func TestDecode(t *testing.T) {
	bigImage := strings.Repeat("a", response.MaxBodyBytes)

	cases := []struct {
		name     string
		body     string
		wantErr  bool
		contains string
	}{
		{"payload válido", `{"name":"Areia","sku":"ARE-01"}`, false, ""},
		{"json malformado", `{"name":`, true, "JSON inválido"},
		{"corpo acima do limite", `{"name":"Areia","sku":"ARE-01","image":"` + bigImage + `"}`, true, "excede o limite"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/v1/materials", strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			var in domain.MaterialInput
			err := response.Decode(w, r, &in)

			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "Areia", in.Name)
				return
			}
			require.Error(t, err)
			assert.IsType(t, &apperror.InvalidInputError{}, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}
