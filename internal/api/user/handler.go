package user

import (
	"context"
	"net/http"

	"estoquemaster/internal/api/response"
	"estoquemaster/internal/domain"
	"estoquemaster/internal/pkg/logger"
)

// UserService define o contrato para as operações de registro e login.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, login domain.UserLogin) (string, error)
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterUserHandler lida com a requisição POST /v1/users/register.
// @Summary Registra um novo operador
// @Description Cria um novo usuário com papel "user", hasheia a senha e salva.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Credenciais de registro (email e senha)"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido (JSON malformado ou campos obrigatórios ausentes)"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /users/register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.Decode(w, r, &reg); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	// O hash fica fora do JSON pela tag `json:"-"` de domain.User.
	newUser, err := h.Service.Register(r.Context(), reg)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, newUser)
}

// LoginUserHandler lida com a requisição POST /v1/users/login.
// @Summary Autentica um operador e retorna um JWT
// @Description Recebe email/senha, verifica a validade e emite um JSON Web Token.
// @Tags users
// @Accept json
// @Produce json
// @Param login body domain.UserLogin true "Credenciais do usuário (email e senha)"
// @Success 200 {object} domain.LoginResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /users/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var login domain.UserLogin
	if err := response.Decode(w, r, &login); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	tokenString, err := h.Service.Login(r.Context(), login)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, domain.LoginResponse{Token: tokenString})
}
