package filestore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
)

// CreateCategory insere uma categoria; nomes são únicos sem diferenciar maiúsculas.
func (s *Store) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	err := s.mutate(ctx, func(st *snapshot) error {
		for _, existing := range st.categories {
			if strings.EqualFold(existing.Name, c.Name) {
				return apperror.NewInvalidInputError(fmt.Sprintf("A categoria %q já existe.", c.Name))
			}
		}
		st.categories[c.ID] = c
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

// FindCategoryByName busca uma categoria pelo nome, sem diferenciar maiúsculas.
func (s *Store) FindCategoryByName(ctx context.Context, name string) (domain.Category, error) {
	var (
		found domain.Category
		ok    bool
	)
	s.read(func(st *snapshot) {
		for _, c := range st.categories {
			if strings.EqualFold(c.Name, name) {
				found, ok = c, true
				return
			}
		}
	})
	if !ok {
		return domain.Category{}, apperror.NewNotFoundError(fmt.Sprintf("Categoria %q não encontrada.", name))
	}
	return found, nil
}

// FindAllCategories lista as categorias por nome.
func (s *Store) FindAllCategories(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0)
	s.read(func(st *snapshot) {
		for _, c := range st.categories {
			out = append(out, c)
		}
	})
	sortCategories(out)
	return out, nil
}

// DeleteCategory remove a categoria. Materiais que a referenciam passam a exibir
// "Sem Categoria"; a referência pendente é mantida.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st *snapshot) error {
		if _, ok := st.categories[id]; !ok {
			return apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não encontrada.", id))
		}
		delete(st.categories, id)
		return nil
	})
}

func sortCategories(cs []domain.Category) {
	slices.SortFunc(cs, func(a, b domain.Category) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
