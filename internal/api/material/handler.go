package material

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"estoquemaster/internal/api/response"
	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
)

// MaterialService define o contrato que o Handler espera da camada de Serviço.
type MaterialService interface {
	CreateMaterial(ctx context.Context, in domain.MaterialInput) (domain.MaterialView, error)
	GetMaterial(ctx context.Context, id string) (domain.MaterialView, error)
	ListMaterials(ctx context.Context, filter domain.MaterialFilter) ([]domain.MaterialView, error)
	UpdateMaterial(ctx context.Context, id string, upd domain.MaterialUpdate) (domain.MaterialView, error)
	ArchiveMaterial(ctx context.Context, id string) (domain.MaterialView, error)
}

// Handler agrupa todos os métodos de Handler de materiais.
type Handler struct {
	Service MaterialService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc MaterialService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListMaterialsHandler lida com a requisição GET /v1/materials.
// @Summary Lista materiais
// @Description Lista materiais com status calculado. Arquivados só aparecem com includeArchived=true ou status=archived.
// @Tags materials
// @Produce json
// @Param search query string false "Trecho do nome ou SKU"
// @Param sku query string false "SKU exato"
// @Param category query string false "Nome da categoria"
// @Param status query string false "out, critical, resupply, ok, attention ou archived"
// @Param includeArchived query bool false "Inclui materiais arquivados"
// @Success 200 {array} domain.MaterialView
// @Failure 400 {object} domain.ErrorResponse "Filtro inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /materials [get]
func (h *Handler) ListMaterialsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status, ok := domain.ParseStatusFilter(q.Get("status"))
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewInvalidInputError(fmt.Sprintf("Filtro de status %q desconhecido.", q.Get("status"))))
		return
	}

	filter := domain.MaterialFilter{
		Search:   q.Get("search"),
		SKU:      q.Get("sku"),
		Category: q.Get("category"),
		Status:   status,
	}
	if raw := q.Get("includeArchived"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(w, r, h.Logger, apperror.NewInvalidInputError("includeArchived deve ser true ou false."))
			return
		}
		filter.IncludeArchived = include
	}

	views, err := h.Service.ListMaterials(r.Context(), filter)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, views)
}

// CreateMaterialHandler lida com a requisição POST /v1/materials.
// @Summary Cadastra um material
// @Description Cria um material; a categoria informada por nome é criada se ainda não existir.
// @Tags materials
// @Accept json
// @Produce json
// @Param material body domain.MaterialInput true "Dados do material"
// @Success 201 {object} domain.MaterialView
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou SKU duplicado"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /materials [post]
func (h *Handler) CreateMaterialHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.MaterialInput
	if err := response.Decode(w, r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	view, err := h.Service.CreateMaterial(r.Context(), in)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, view)
}

// GetMaterialHandler lida com a requisição GET /v1/materials/{id}.
// @Summary Obtém um material por ID
// @Tags materials
// @Produce json
// @Param id path string true "ID do material"
// @Success 200 {object} domain.MaterialView
// @Failure 404 {object} domain.ErrorResponse "Material não encontrado"
// @Router /materials/{id} [get]
func (h *Handler) GetMaterialHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.GetMaterial(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, view)
}

// UpdateMaterialHandler lida com a requisição PUT /v1/materials/{id}.
// @Summary Atualiza um material
// @Description Altera os campos editáveis. A quantidade só muda por movimentações.
// @Tags materials
// @Accept json
// @Produce json
// @Param id path string true "ID do material"
// @Param material body domain.MaterialUpdate true "Campos editáveis"
// @Success 200 {object} domain.MaterialView
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou SKU duplicado"
// @Failure 404 {object} domain.ErrorResponse "Material não encontrado"
// @Security BearerAuth
// @Router /materials/{id} [put]
func (h *Handler) UpdateMaterialHandler(w http.ResponseWriter, r *http.Request) {
	var upd domain.MaterialUpdate
	if err := response.Decode(w, r, &upd); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	view, err := h.Service.UpdateMaterial(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, view)
}

// ArchiveMaterialHandler lida com a requisição DELETE /v1/materials/{id}.
// @Summary Arquiva um material
// @Description Exclusão lógica: o material some das listagens, mas o histórico é mantido.
// @Tags materials
// @Produce json
// @Param id path string true "ID do material"
// @Success 200 {object} domain.MaterialView
// @Failure 404 {object} domain.ErrorResponse "Material não encontrado"
// @Security BearerAuth
// @Router /materials/{id} [delete]
func (h *Handler) ArchiveMaterialHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.ArchiveMaterial(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, view)
}
