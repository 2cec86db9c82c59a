package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoquemaster/internal/pkg/token"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := token.NewService("segredo-de-teste", time.Hour)

	tok, err := svc.GenerateToken("user-1", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, err := token.NewService("segredo-a", time.Hour).GenerateToken("user-1", "user")
	require.NoError(t, err)

	_, err = token.NewService("segredo-b", time.Hour).ValidateToken(tok)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	tok, err := token.NewService("segredo", -time.Minute).GenerateToken("user-1", "user")
	require.NoError(t, err)

	_, err = token.NewService("segredo", time.Hour).ValidateToken(tok)
	assert.Error(t, err)
}
