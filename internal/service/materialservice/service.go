package materialservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/pkg/validator"
)

// MaterialRepository define o contrato que o Serviço de Materiais espera da camada de Persistência.
type MaterialRepository interface {
	Create(ctx context.Context, m domain.Material) (domain.Material, error)
	FindByID(ctx context.Context, id string) (domain.Material, error)
	FindActiveBySKU(ctx context.Context, sku string) (domain.Material, error)
	FindAll(ctx context.Context, filter domain.MaterialFilter) ([]domain.Material, error)
	Update(ctx context.Context, m domain.Material) (domain.Material, error)
	SetArchived(ctx context.Context, id string, archived bool) (domain.Material, error)
}

// CategoryRepository é a parte do repositório de categorias usada para resolver
// a categoria informada por nome.
type CategoryRepository interface {
	FindCategoryByName(ctx context.Context, name string) (domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
}

// Service é o cadastro de materiais.
type Service struct {
	repo       MaterialRepository
	categories CategoryRepository
	logger     logger.Logger
	now        func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Materiais.
func NewService(repo MaterialRepository, categories CategoryRepository, logger logger.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateMaterial valida e cadastra um material. A categoria é criada quando ainda não existe.
func (s *Service) CreateMaterial(ctx context.Context, in domain.MaterialInput) (domain.MaterialView, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Category = strings.TrimSpace(in.Category)
	if err := validator.Struct(in); err != nil {
		return domain.MaterialView{}, err
	}

	if err := s.ensureSKUAvailable(ctx, in.SKU, ""); err != nil {
		return domain.MaterialView{}, err
	}

	categoryID, err := s.resolveCategory(ctx, in.Category)
	if err != nil {
		return domain.MaterialView{}, err
	}

	alert := domain.DefaultAlertPercentage
	if in.AlertPercentage != nil {
		alert = *in.AlertPercentage
	}

	now := s.now().UTC()
	m := domain.Material{
		ID:               uuid.NewString(),
		Name:             in.Name,
		SKU:              in.SKU,
		ContractCode:     strings.TrimSpace(in.ContractCode),
		CategoryID:       categoryID,
		Quantity:         in.Quantity,
		MinQuantity:      in.MinQuantity,
		ResupplyQuantity: in.ResupplyQuantity,
		AlertPercentage:  alert,
		Description:      in.Description,
		Image:            in.Image,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		s.logger.Error("Falha ao cadastrar material no repositório.", err)
		return domain.MaterialView{}, err
	}

	s.logger.Info("Material cadastrado.", map[string]interface{}{
		"material_id": created.ID,
		"sku":         created.SKU,
		"quantity":    created.Quantity,
	})
	return domain.NewMaterialView(created), nil
}

// GetMaterial devolve o material com status e nível de alerta calculados.
func (s *Service) GetMaterial(ctx context.Context, id string) (domain.MaterialView, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.MaterialView{}, err
	}
	return domain.NewMaterialView(m), nil
}

// ListMaterials lista materiais. O filtro de status é aplicado sobre a classificação
// calculada, depois dos filtros do repositório.
func (s *Service) ListMaterials(ctx context.Context, filter domain.MaterialFilter) ([]domain.MaterialView, error) {
	if filter.Status == domain.FilterArchived {
		filter.IncludeArchived = true
	}

	materials, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar materiais no repositório.", err)
		return nil, err
	}

	views := make([]domain.MaterialView, 0, len(materials))
	for _, m := range materials {
		v := domain.NewMaterialView(m)
		if filter.Status.Matches(v.Status) {
			views = append(views, v)
		}
	}
	return views, nil
}

// UpdateMaterial altera os campos editáveis. A quantidade só muda por movimentações.
func (s *Service) UpdateMaterial(ctx context.Context, id string, upd domain.MaterialUpdate) (domain.MaterialView, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	upd.SKU = strings.TrimSpace(upd.SKU)
	upd.Category = strings.TrimSpace(upd.Category)
	if err := validator.Struct(upd); err != nil {
		return domain.MaterialView{}, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.MaterialView{}, err
	}

	archived := current.IsArchived
	if upd.IsArchived != nil {
		archived = *upd.IsArchived
	}
	if !archived {
		if err := s.ensureSKUAvailable(ctx, upd.SKU, current.ID); err != nil {
			return domain.MaterialView{}, err
		}
	}

	categoryID, err := s.resolveCategory(ctx, upd.Category)
	if err != nil {
		return domain.MaterialView{}, err
	}

	current.Name = upd.Name
	current.SKU = upd.SKU
	current.ContractCode = strings.TrimSpace(upd.ContractCode)
	current.CategoryID = categoryID
	current.MinQuantity = upd.MinQuantity
	current.ResupplyQuantity = upd.ResupplyQuantity
	if upd.AlertPercentage != nil {
		current.AlertPercentage = *upd.AlertPercentage
	}
	current.Description = upd.Description
	if upd.Image != "" {
		current.Image = upd.Image
	}
	current.IsArchived = archived
	current.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		s.logger.Error("Falha ao atualizar material no repositório.", err)
		return domain.MaterialView{}, err
	}

	s.logger.Info("Material atualizado.", map[string]interface{}{"material_id": updated.ID, "archived": updated.IsArchived})
	return domain.NewMaterialView(updated), nil
}

// ArchiveMaterial faz a exclusão lógica do material. Movimentações antigas continuam no livro.
func (s *Service) ArchiveMaterial(ctx context.Context, id string) (domain.MaterialView, error) {
	m, err := s.repo.SetArchived(ctx, id, true)
	if err != nil {
		return domain.MaterialView{}, err
	}
	s.logger.Info("Material arquivado.", map[string]interface{}{"material_id": id})
	return domain.NewMaterialView(m), nil
}

// ensureSKUAvailable rejeita SKU já usado por outro material ativo.
func (s *Service) ensureSKUAvailable(ctx context.Context, sku, selfID string) error {
	existing, err := s.repo.FindActiveBySKU(ctx, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperror.NewInvalidInputError(fmt.Sprintf("Já existe um material ativo com o SKU %q.", sku))
}

// resolveCategory devolve o ID da categoria pelo nome, criando-a se preciso.
// Nome vazio significa "Sem Categoria".
func (s *Service) resolveCategory(ctx context.Context, name string) (string, error) {
	if name == "" || strings.EqualFold(name, domain.UncategorizedLabel) {
		return "", nil
	}

	c, err := s.categories.FindCategoryByName(ctx, name)
	if err == nil {
		return c.ID, nil
	}
	if !apperror.IsNotFound(err) {
		return "", err
	}

	c, err = s.categories.CreateCategory(ctx, domain.Category{ID: uuid.NewString(), Name: name})
	if err != nil {
		// Outra requisição pode ter criado a mesma categoria entre a busca e o insert.
		var invalid *apperror.InvalidInputError
		if errors.As(err, &invalid) {
			if again, findErr := s.categories.FindCategoryByName(ctx, name); findErr == nil {
				return again.ID, nil
			}
		}
		return "", err
	}

	s.logger.Info("Categoria criada a partir do cadastro de material.", map[string]interface{}{"category_id": c.ID, "name": c.Name})
	return c.ID, nil
}
