package filestore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
)

// WithinTx executa fn com o lock de escrita tomado sobre uma cópia do estado.
// Se fn falhar, ou a gravação falhar, nada do que fn fez fica visível.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	return s.mutate(ctx, func(st *snapshot) error {
		return fn(&ledgerTx{st: st, store: s})
	})
}

// ListMovements devolve as movimentações por date DESC, id DESC.
func (s *Store) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	out := make([]domain.Movement, 0)
	s.read(func(st *snapshot) {
		for _, m := range st.movements {
			if filter.Date != "" && m.Date != filter.Date {
				continue
			}
			out = append(out, m)
		}
	})
	slices.SortFunc(out, func(a, b domain.Movement) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return out, nil
}

// ledgerTx opera sobre o estado em preparação de uma mutação.
type ledgerTx struct {
	st    *snapshot
	store *Store
}

func (tx *ledgerTx) MaterialForUpdate(ctx context.Context, id string) (domain.Material, error) {
	m, ok := tx.st.materials[id]
	if !ok {
		return domain.Material{}, materialNotFound(id)
	}
	return tx.st.withCategory(m), nil
}

func (tx *ledgerTx) InsertMovement(ctx context.Context, mov domain.Movement) error {
	tx.st.movements = append(tx.st.movements, mov)
	return nil
}

func (tx *ledgerTx) AdjustQuantity(ctx context.Context, materialID string, delta int) (int, error) {
	m, ok := tx.st.materials[materialID]
	if !ok {
		return 0, materialNotFound(materialID)
	}
	if delta > 0 && m.Quantity > domain.MaxQuantity-delta {
		return 0, apperror.NewInvalidInputError(fmt.Sprintf("Saldo do material %s excederia o máximo de %d.", materialID, domain.MaxQuantity))
	}
	if m.Quantity+delta < 0 {
		return 0, apperror.NewInsufficientStockError(materialID, m.Quantity, -delta)
	}
	m.Quantity += delta
	m.UpdatedAt = tx.store.now().UTC()
	tx.st.materials[materialID] = m
	return m.Quantity, nil
}
