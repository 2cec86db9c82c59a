package categoryservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"estoquemaster/internal/domain"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/pkg/validator"
)

// CategoryRepository define o contrato de persistência de categorias.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	FindAllCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Service gerencia as categorias de materiais.
type Service struct {
	repo   CategoryRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Categorias.
func NewService(repo CategoryRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateCategory cria uma categoria; nome duplicado resulta em InvalidInputError.
func (s *Service) CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validator.Struct(in); err != nil {
		return domain.Category{}, err
	}

	c, err := s.repo.CreateCategory(ctx, domain.Category{ID: uuid.NewString(), Name: in.Name})
	if err != nil {
		return domain.Category{}, err
	}
	s.logger.Info("Categoria criada.", map[string]interface{}{"category_id": c.ID, "name": c.Name})
	return c, nil
}

// ListCategories lista as categorias por nome.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.FindAllCategories(ctx)
}

// DeleteCategory remove a categoria sem afetar os materiais, que passam a "Sem Categoria".
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Categoria removida.", map[string]interface{}{"category_id": id})
	return nil
}
