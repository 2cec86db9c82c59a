// Package response padroniza as respostas JSON dos handlers da API.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
)

// JSON escreve data como JSON com o status informado. data nil gera corpo vazio.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz o erro para status, categoria e mensagem e escreve o corpo padronizado.
// Erros 5xx são registrados; rejeições de negócio só em debug.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= http.StatusInternalServerError {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
			"path":   r.URL.Path,
			"method": r.Method,
		})
	}

	JSON(w, log, status, domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// MaxBodyBytes limita o corpo das requisições JSON.
const MaxBodyBytes = 1 << 20

// Decode lê o corpo JSON em dst, até MaxBodyBytes. JSON malformado ou corpo
// grande demais vira InvalidInputError.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.NewInvalidInputError(fmt.Sprintf("Payload excede o limite de %d bytes.", tooLarge.Limit))
		}
		return apperror.NewInvalidInputError("Payload JSON inválido. Verifique o formato.")
	}
	return nil
}
