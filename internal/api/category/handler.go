package category

import (
	"context"
	"net/http"

	"estoquemaster/internal/api/response"
	"estoquemaster/internal/domain"
	"estoquemaster/internal/pkg/logger"
)

// CategoryService define o contrato que o Handler espera da camada de Serviço.
type CategoryService interface {
	CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Handler agrupa os métodos de Handler de categorias.
type Handler struct {
	Service CategoryService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc CategoryService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateCategoryHandler lida com a requisição POST /v1/categories.
// @Summary Cria uma categoria
// @Tags categories
// @Accept json
// @Produce json
// @Param category body domain.CategoryInput true "Nome da categoria"
// @Success 201 {object} domain.Category
// @Failure 400 {object} domain.ErrorResponse "Nome inválido ou duplicado"
// @Security BearerAuth
// @Router /categories [post]
func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := response.Decode(w, r, &in); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	c, err := h.Service.CreateCategory(r.Context(), in)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, c)
}

// ListCategoriesHandler lida com a requisição GET /v1/categories.
// @Summary Lista as categorias
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListCategories(r.Context())
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, list)
}

// DeleteCategoryHandler lida com a requisição DELETE /v1/categories/{id}.
// @Summary Remove uma categoria
// @Description Materiais da categoria passam a "Sem Categoria". Exige papel admin.
// @Tags categories
// @Param id path string true "ID da categoria"
// @Success 204
// @Failure 403 {object} domain.ErrorResponse "Papel sem permissão"
// @Failure 404 {object} domain.ErrorResponse "Categoria não encontrada"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
