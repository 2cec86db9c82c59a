package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote
// (chaves de contexto devem ser não-exportadas ou de um tipo único).
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Chain aplica uma lista de middlewares a um handler; o primeiro é o mais externo.
type Chain []func(http.HandlerFunc) http.HandlerFunc

// Then devolve o handler envolvido pela cadeia.
func (c Chain) Then(h http.HandlerFunc) http.HandlerFunc {
	for i := len(c) - 1; i >= 0; i-- {
		h = c[i](h)
	}
	return h
}

// NewAuthMiddleware valida o JWT do header Authorization e anexa as claims ao contexto.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				WriteError(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
				return
			}

			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				WriteError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			userClaims := UserClaims{
				UserID: claims.UserID,
				Role:   domain.UserRole(claims.Role),
			}
			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext extrai as claims anexadas pelo middleware de autenticação.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware exige que o usuário autenticado tenha um dos papéis informados.
func PermissionMiddleware(requiredRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				WriteError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteError(w, apperror.NewForbiddenError("Você não tem a permissão necessária."))
		}
	}
}

// WriteError escreve o corpo de erro padronizado da API.
func WriteError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}
