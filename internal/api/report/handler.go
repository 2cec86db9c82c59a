package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"estoquemaster/internal/api/response"
	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
)

// ReportService define o contrato que o Handler espera da camada de relatórios.
type ReportService interface {
	Summary(ctx context.Context) (domain.Summary, error)
	TopMoved(ctx context.Context, n int) ([]domain.MovedMaterial, error)
	ExportWorkbook(ctx context.Context, w io.Writer) error
}

// Handler agrupa os métodos de Handler de relatórios.
type Handler struct {
	Service ReportService
	Logger  logger.Logger
	now     func() time.Time
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc ReportService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log, now: time.Now}
}

// SummaryHandler lida com a requisição GET /v1/reports/summary.
// @Summary Indicadores do estoque
// @Description Totais, contagens de estoque baixo, zerado e alto, distribuição por categoria e os mais movimentados.
// @Tags reports
// @Produce json
// @Success 200 {object} domain.Summary
// @Router /reports/summary [get]
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Service.Summary(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, sum)
}

// TopMovedHandler lida com a requisição GET /v1/reports/top-moved.
// @Summary Materiais mais movimentados
// @Description Soma entradas e saídas por material, sem compensar a direção.
// @Tags reports
// @Produce json
// @Param limit query int false "Quantidade de itens (padrão 3)"
// @Success 200 {array} domain.MovedMaterial
// @Failure 400 {object} domain.ErrorResponse "limit inválido"
// @Router /reports/top-moved [get]
func (h *Handler) TopMovedHandler(w http.ResponseWriter, r *http.Request) {
	limit := domain.DefaultTopMovedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(w, r, h.Logger, apperror.NewInvalidInputError("limit deve ser um inteiro positivo."))
			return
		}
		limit = n
	}

	top, err := h.Service.TopMoved(r.Context(), limit)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, top)
}

// ExportHandler lida com a requisição GET /v1/reports/export.xlsx.
// @Summary Exporta o estoque em planilha
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /reports/export.xlsx [get]
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	// A planilha é montada em memória para que um erro ainda possa virar resposta JSON.
	var buf bytes.Buffer
	if err := h.Service.ExportWorkbook(r.Context(), &buf); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	filename := fmt.Sprintf("estoque_%s.xlsx", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("Falha ao enviar planilha.", err)
	}
}
