package movement

import (
	"context"
	"net/http"

	"estoquemaster/internal/api/response"
	"estoquemaster/internal/domain"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/pkg/validator"
)

// LedgerService define o contrato que o Handler espera do livro de movimentações.
type LedgerService interface {
	RecordMovement(ctx context.Context, req domain.MovementRequest) (domain.Movement, error)
	ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error)
}

// Handler agrupa os métodos de Handler de movimentações.
type Handler struct {
	Service LedgerService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc LedgerService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// RecordMovementHandler lida com a requisição POST /v1/movements.
// @Summary Registra uma movimentação de estoque
// @Description Grava a movimentação no livro e ajusta o saldo do material numa única unidade atômica.
// @Tags movements
// @Accept json
// @Produce json
// @Param movement body domain.MovementRequest true "Movimentação (type: entrada ou saida; date: AAAA-MM-DD, padrão hoje)"
// @Success 201 {object} domain.Movement
// @Failure 400 {object} domain.ErrorResponse "Quantidade, tipo ou data inválidos"
// @Failure 404 {object} domain.ErrorResponse "Material inexistente ou arquivado"
// @Failure 409 {object} domain.ErrorResponse "Estoque insuficiente para a saída"
// @Failure 500 {object} domain.ErrorResponse "Falha de armazenamento; nada foi aplicado"
// @Security BearerAuth
// @Router /movements [post]
func (h *Handler) RecordMovementHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.MovementRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	if err := validator.Struct(req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	mov, err := h.Service.RecordMovement(r.Context(), req)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, mov)
}

// ListMovementsHandler lida com a requisição GET /v1/movements.
// @Summary Lista movimentações
// @Description Ordenadas por data e ID, da mais recente para a mais antiga.
// @Tags movements
// @Produce json
// @Param date query string false "Data exata (AAAA-MM-DD)"
// @Success 200 {array} domain.Movement
// @Failure 400 {object} domain.ErrorResponse "Data inválida"
// @Router /movements [get]
func (h *Handler) ListMovementsHandler(w http.ResponseWriter, r *http.Request) {
	movs, err := h.Service.ListMovements(r.Context(), domain.MovementFilter{Date: r.URL.Query().Get("date")})
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, movs)
}
