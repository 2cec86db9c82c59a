package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do EstoqueMaster.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "INVALID_INPUT", "NOT_FOUND", "STORAGE_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// InvalidInputError representa dados de entrada inválidos: quantidade não positiva,
// campo obrigatório ausente, SKU duplicado.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string    { return fmt.Sprintf("Entrada inválida: %s", e.Msg) }
func (e *InvalidInputError) Category() string { return "INVALID_INPUT" }
func (e *InvalidInputError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *InvalidInputError) Unwrap() error    { return nil }

// NewInvalidInputError cria um novo erro de entrada inválida.
func NewInvalidInputError(msg string) AppError {
	return &InvalidInputError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado (ou um material arquivado
// quando uma referência ativa é exigida).
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// InsufficientStockError indica que uma saída deixaria o saldo negativo.
type InsufficientStockError struct {
	MaterialID string
	Available  int
	Requested  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente para saída: disponível %d, solicitado %d.", e.Available, e.Requested)
}
func (e *InsufficientStockError) Category() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *InsufficientStockError) Unwrap() error    { return nil }

// NewInsufficientStockError cria um erro de estoque insuficiente.
func NewInsufficientStockError(materialID string, available, requested int) AppError {
	return &InsufficientStockError{MaterialID: materialID, Available: available, Requested: requested}
}

// ConflictError representa um conflito na regra de negócio (e.g., e-mail já cadastrado).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa credenciais ausentes ou inválidas.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um usuário autenticado sem a permissão necessária.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um novo erro de autorização.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// StorageError representa falhas da camada de persistência (DB inacessível, rollback,
// falha de escrita do arquivo local).
type StorageError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *StorageError) Error() string    { return fmt.Sprintf("Falha de armazenamento: %s", e.Msg) }
func (e *StorageError) Category() string { return "STORAGE_ERROR" }
func (e *StorageError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *StorageError) Unwrap() error    { return e.Err }

// NewStorageError cria um erro de persistência encapsulando a causa.
func NewStorageError(msg string, err error) AppError {
	return &StorageError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um StorageError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewStorageError(fmt.Sprintf("%s (DB)", msg), err)
}

// InternalError representa falhas inesperadas fora da persistência (token, serialização).
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, categoria e mensagem.
// Erros de 5xx não expõem a causa subjacente ao cliente.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratado como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}

// IsNotFound informa se algum erro da cadeia é um NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
