package filestore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
)

// withCategory preenche o nome da categoria a partir da referência.
func (st *snapshot) withCategory(m domain.Material) domain.Material {
	m.Category = domain.UncategorizedLabel
	if c, ok := st.categories[m.CategoryID]; ok && m.CategoryID != "" {
		m.Category = c.Name
	}
	return m
}

// activeSKUTaken informa se outro material ativo já usa o SKU.
func (st *snapshot) activeSKUTaken(sku, exceptID string) bool {
	for _, m := range st.materials {
		if m.ID != exceptID && !m.IsArchived && strings.EqualFold(m.SKU, sku) {
			return true
		}
	}
	return false
}

func duplicateSKU(sku string) error {
	return apperror.NewInvalidInputError(fmt.Sprintf("Já existe um material ativo com o SKU %q.", sku))
}

func materialNotFound(id string) error {
	return apperror.NewNotFoundError(fmt.Sprintf("Material com ID %s não encontrado.", id))
}

// Create insere um novo material.
func (s *Store) Create(ctx context.Context, m domain.Material) (domain.Material, error) {
	err := s.mutate(ctx, func(st *snapshot) error {
		if _, exists := st.materials[m.ID]; exists {
			return apperror.NewConflictError(fmt.Sprintf("Material com ID %s já existe.", m.ID))
		}
		if st.activeSKUTaken(m.SKU, "") {
			return duplicateSKU(m.SKU)
		}
		st.materials[m.ID] = m
		m = st.withCategory(m)
		return nil
	})
	if err != nil {
		return domain.Material{}, err
	}

	s.logger.Info("Material criado no store local.", map[string]interface{}{"material_id": m.ID, "sku": m.SKU})
	return m, nil
}

// FindByID busca um material (ativo ou arquivado) pelo ID.
func (s *Store) FindByID(ctx context.Context, id string) (domain.Material, error) {
	var (
		m  domain.Material
		ok bool
	)
	s.read(func(st *snapshot) {
		m, ok = st.materials[id]
		if ok {
			m = st.withCategory(m)
		}
	})
	if !ok {
		return domain.Material{}, materialNotFound(id)
	}
	return m, nil
}

// FindActiveBySKU busca o material ativo com o SKU informado.
func (s *Store) FindActiveBySKU(ctx context.Context, sku string) (domain.Material, error) {
	var (
		found domain.Material
		ok    bool
	)
	s.read(func(st *snapshot) {
		for _, m := range st.materials {
			if !m.IsArchived && strings.EqualFold(m.SKU, sku) {
				found, ok = st.withCategory(m), true
				return
			}
		}
	})
	if !ok {
		return domain.Material{}, apperror.NewNotFoundError(fmt.Sprintf("Nenhum material ativo com SKU %q.", sku))
	}
	return found, nil
}

// FindAll lista materiais aplicando os filtros de texto, SKU, categoria e arquivamento,
// ordenados por nome.
func (s *Store) FindAll(ctx context.Context, filter domain.MaterialFilter) ([]domain.Material, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	sku := strings.TrimSpace(filter.SKU)
	category := strings.TrimSpace(filter.Category)

	out := make([]domain.Material, 0)
	s.read(func(st *snapshot) {
		for _, m := range st.materials {
			if m.IsArchived && !filter.IncludeArchived {
				continue
			}
			m = st.withCategory(m)
			if search != "" &&
				!strings.Contains(strings.ToLower(m.Name), search) &&
				!strings.Contains(strings.ToLower(m.SKU), search) {
				continue
			}
			if sku != "" && !strings.EqualFold(m.SKU, sku) {
				continue
			}
			if category != "" && !strings.EqualFold(m.Category, category) {
				continue
			}
			out = append(out, m)
		}
	})
	sortMaterials(out)
	return out, nil
}

// Update regrava os campos editáveis. A quantidade armazenada nunca é alterada aqui.
func (s *Store) Update(ctx context.Context, m domain.Material) (domain.Material, error) {
	var updated domain.Material
	err := s.mutate(ctx, func(st *snapshot) error {
		current, ok := st.materials[m.ID]
		if !ok {
			return materialNotFound(m.ID)
		}
		if !m.IsArchived && st.activeSKUTaken(m.SKU, m.ID) {
			return duplicateSKU(m.SKU)
		}
		m.Quantity = current.Quantity
		m.CreatedAt = current.CreatedAt
		st.materials[m.ID] = m
		updated = st.withCategory(m)
		return nil
	})
	if err != nil {
		return domain.Material{}, err
	}
	return updated, nil
}

// SetArchived arquiva ou reativa um material.
func (s *Store) SetArchived(ctx context.Context, id string, archived bool) (domain.Material, error) {
	var updated domain.Material
	err := s.mutate(ctx, func(st *snapshot) error {
		m, ok := st.materials[id]
		if !ok {
			return materialNotFound(id)
		}
		if !archived && st.activeSKUTaken(m.SKU, id) {
			return duplicateSKU(m.SKU)
		}
		m.IsArchived = archived
		m.UpdatedAt = s.now().UTC()
		st.materials[id] = m
		updated = st.withCategory(m)
		return nil
	})
	if err != nil {
		return domain.Material{}, err
	}

	s.logger.Info("Arquivamento de material atualizado.", map[string]interface{}{"material_id": id, "archived": archived})
	return updated, nil
}

func sortMaterials(ms []domain.Material) {
	slices.SortFunc(ms, func(a, b domain.Material) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
