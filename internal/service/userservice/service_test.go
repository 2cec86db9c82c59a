package userservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/repository/filestore"
	"estoquemaster/internal/service/userservice"
)

// MockTokenService é uma implementação mock da interface TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	tokens := new(MockTokenService)
	svc := userservice.NewService(filestore.NewMemory(logger.NewNop()), tokens, logger.NewNop())

	user, err := svc.Register(ctx, domain.UserRegistration{Email: "almoxarife@obra.com", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "segredo123", user.PasswordHash)

	tokens.On("GenerateToken", user.ID, "user").Return("jwt-token", nil)

	tok, err := svc.Login(ctx, domain.UserLogin{Email: "almoxarife@obra.com", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", tok)
	tokens.AssertExpectations(t)
}

func TestRegister_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := userservice.NewService(filestore.NewMemory(logger.NewNop()), new(MockTokenService), logger.NewNop())

	_, err := svc.Register(ctx, domain.UserRegistration{Email: "nao-eh-email", Password: "segredo123"})
	var invalid *apperror.InvalidInputError
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Register(ctx, domain.UserRegistration{Email: "a@obra.com", Password: "curta"})
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Register(ctx, domain.UserRegistration{Email: "a@obra.com", Password: "segredo123"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, domain.UserRegistration{Email: "a@obra.com", Password: "outrasenha"})
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	tokens := new(MockTokenService)
	svc := userservice.NewService(filestore.NewMemory(logger.NewNop()), tokens, logger.NewNop())

	_, err := svc.Register(ctx, domain.UserRegistration{Email: "a@obra.com", Password: "segredo123"})
	require.NoError(t, err)

	var unauthorized *apperror.UnauthorizedError
	_, err = svc.Login(ctx, domain.UserLogin{Email: "a@obra.com", Password: "errada123"})
	assert.ErrorAs(t, err, &unauthorized)

	_, err = svc.Login(ctx, domain.UserLogin{Email: "ninguem@obra.com", Password: "segredo123"})
	assert.ErrorAs(t, err, &unauthorized, "e-mail inexistente não é revelado")

	_, err = svc.Login(ctx, domain.UserLogin{})
	assert.ErrorAs(t, err, &unauthorized)

	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

func TestLogin_TokenFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	tokens := new(MockTokenService)
	svc := userservice.NewService(filestore.NewMemory(logger.NewNop()), tokens, logger.NewNop())

	user, err := svc.Register(ctx, domain.UserRegistration{Email: "a@obra.com", Password: "segredo123"})
	require.NoError(t, err)
	tokens.On("GenerateToken", user.ID, "user").Return("", errors.New("chave vazia"))

	_, err = svc.Login(ctx, domain.UserLogin{Email: "a@obra.com", Password: "segredo123"})

	var internal *apperror.InternalError
	assert.ErrorAs(t, err, &internal)
}
