package userservice

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/pkg/validator"
)

// UserRepository define o contrato de persistência de usuários.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo UserRepository
	TokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo UserRepository, tokenSvc TokenService, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Register registra um novo usuário com papel "user" e senha em bcrypt.
// E-mail já cadastrado resulta em ConflictError (vindo do repositório).
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	registration.Email = strings.TrimSpace(registration.Email)
	if err := validator.Struct(registration); err != nil {
		return domain.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	user, err := s.UserRepo.Save(ctx, domain.User{
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, login domain.UserLogin) (string, error) {
	if login.Email == "" || login.Password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, strings.TrimSpace(login.Email))
	if err != nil {
		// NotFound vira Unauthorized para não revelar quais e-mails existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		s.logger.Info("Tentativa de login com senha incorreta.", map[string]interface{}{"user_id": user.ID})
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		s.logger.Error("Falha ao gerar token de autenticação.", err)
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	return tokenString, nil
}
