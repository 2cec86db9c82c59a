package filestore_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/repository/filestore"
)

func newMaterial(id, name, sku string, qty int) domain.Material {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return domain.Material{
		ID:              id,
		Name:            name,
		SKU:             sku,
		Quantity:        qty,
		MinQuantity:     5,
		AlertPercentage: domain.DefaultAlertPercentage,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestStore_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "estoque.json")

	s, err := filestore.Open(path, logger.NewNop())
	require.NoError(t, err)

	cat, err := s.CreateCategory(ctx, domain.Category{ID: "c1", Name: "Hidráulica"})
	require.NoError(t, err)

	m := newMaterial("m1", "Cano PVC 25mm", "HID-001", 10)
	m.CategoryID = cat.ID
	_, err = s.Create(ctx, m)
	require.NoError(t, err)

	err = s.WithinTx(ctx, func(tx domain.LedgerTx) error {
		require.NoError(t, tx.InsertMovement(ctx, domain.Movement{
			ID: "mov1", MaterialID: "m1", MaterialName: m.Name,
			Type: domain.MovementEntrada, Quantity: 4, Date: "2024-05-01",
		}))
		_, err := tx.AdjustQuantity(ctx, "m1", 4)
		return err
	})
	require.NoError(t, err)

	reopened, err := filestore.Open(path, logger.NewNop())
	require.NoError(t, err)

	got, err := reopened.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 14, got.Quantity)
	assert.Equal(t, "Hidráulica", got.Category)

	movs, err := reopened.ListMovements(ctx, domain.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "mov1", movs[0].ID)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "estoquemaster.materials")
	assert.Contains(t, string(raw), "estoquemaster.movements")
}

func TestStore_WithinTx_DiscardsStagedStateOnError(t *testing.T) {
	ctx := context.Background()
	s := filestore.NewMemory(logger.NewNop())
	_, err := s.Create(ctx, newMaterial("m1", "Cimento CP-II", "CIM-001", 10))
	require.NoError(t, err)

	boom := errors.New("falha injetada")
	err = s.WithinTx(ctx, func(tx domain.LedgerTx) error {
		require.NoError(t, tx.InsertMovement(ctx, domain.Movement{ID: "mov1", MaterialID: "m1", Type: domain.MovementSaida, Quantity: 3, Date: "2024-05-01"}))
		_, err := tx.AdjustQuantity(ctx, "m1", -3)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)

	movs, err := s.ListMovements(ctx, domain.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestStore_WriteFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "estoque.json")

	s, err := filestore.Open(path, logger.NewNop())
	require.NoError(t, err)
	_, err = s.Create(ctx, newMaterial("m1", "Areia fina", "ARE-001", 8))
	require.NoError(t, err)

	// Sem o diretório o arquivo temporário não pode ser criado.
	require.NoError(t, os.RemoveAll(dir))

	err = s.WithinTx(ctx, func(tx domain.LedgerTx) error {
		_, err := tx.AdjustQuantity(ctx, "m1", 5)
		return err
	})
	var storageErr *apperror.StorageError
	require.ErrorAs(t, err, &storageErr)

	got, err := s.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity)
}

func TestStore_AdjustQuantityNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	s := filestore.NewMemory(logger.NewNop())
	_, err := s.Create(ctx, newMaterial("m1", "Tijolo", "TIJ-001", 2))
	require.NoError(t, err)

	err = s.WithinTx(ctx, func(tx domain.LedgerTx) error {
		_, err := tx.AdjustQuantity(ctx, "m1", -3)
		return err
	})
	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
}

func TestStore_AdjustQuantityRejectsOverflow(t *testing.T) {
	ctx := context.Background()
	s := filestore.NewMemory(logger.NewNop())
	_, err := s.Create(ctx, newMaterial("m1", "Tijolo", "TIJ-001", 10))
	require.NoError(t, err)

	err = s.WithinTx(ctx, func(tx domain.LedgerTx) error {
		_, err := tx.AdjustQuantity(ctx, "m1", math.MaxInt)
		return err
	})
	var invalidErr *apperror.InvalidInputError
	require.ErrorAs(t, err, &invalidErr)

	m, err := s.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 10, m.Quantity)
}

func TestStore_ListMovements_OrderAndFilter(t *testing.T) {
	ctx := context.Background()
	s := filestore.NewMemory(logger.NewNop())
	_, err := s.Create(ctx, newMaterial("m1", "Brita", "BRI-001", 0))
	require.NoError(t, err)

	movs := []domain.Movement{
		{ID: "0001", MaterialID: "m1", Type: domain.MovementEntrada, Quantity: 1, Date: "2024-05-01"},
		{ID: "0003", MaterialID: "m1", Type: domain.MovementEntrada, Quantity: 1, Date: "2024-05-02"},
		{ID: "0002", MaterialID: "m1", Type: domain.MovementEntrada, Quantity: 1, Date: "2024-05-02"},
	}
	err = s.WithinTx(ctx, func(tx domain.LedgerTx) error {
		for _, m := range movs {
			if err := tx.InsertMovement(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	all, err := s.ListMovements(ctx, domain.MovementFilter{})
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, m := range all {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"0003", "0002", "0001"}, ids)

	onlyFirst, err := s.ListMovements(ctx, domain.MovementFilter{Date: "2024-05-01"})
	require.NoError(t, err)
	require.Len(t, onlyFirst, 1)
	assert.Equal(t, "0001", onlyFirst[0].ID)
}

func TestStore_MaterialsSKUAndCategoryRules(t *testing.T) {
	ctx := context.Background()
	s := filestore.NewMemory(logger.NewNop())

	_, err := s.CreateCategory(ctx, domain.Category{ID: "c1", Name: "Elétrica"})
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, domain.Category{ID: "c2", Name: "elétrica"})
	var invalid *apperror.InvalidInputError
	require.ErrorAs(t, err, &invalid)

	m := newMaterial("m1", "Fio 2,5mm", "ELE-001", 3)
	m.CategoryID = "c1"
	_, err = s.Create(ctx, m)
	require.NoError(t, err)

	_, err = s.Create(ctx, newMaterial("m2", "Fio 4mm", "ele-001", 3))
	require.ErrorAs(t, err, &invalid, "SKU duplicado entre ativos")

	_, err = s.SetArchived(ctx, "m1", true)
	require.NoError(t, err)
	_, err = s.Create(ctx, newMaterial("m2", "Fio 4mm", "ELE-001", 3))
	require.NoError(t, err, "SKU de material arquivado pode ser reutilizado")

	_, err = s.SetArchived(ctx, "m1", false)
	require.ErrorAs(t, err, &invalid, "reativar geraria SKU duplicado")

	require.NoError(t, s.DeleteCategory(ctx, "c1"))
	got, err := s.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.UncategorizedLabel, got.Category)

	active, err := s.FindAll(ctx, domain.MaterialFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "m2", active[0].ID)

	withArchived, err := s.FindAll(ctx, domain.MaterialFilter{IncludeArchived: true, Search: "fio"})
	require.NoError(t, err)
	assert.Len(t, withArchived, 2)
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := filestore.NewMemory(logger.NewNop())

	u, err := s.Save(ctx, domain.User{Email: "ana@obra.com", PasswordHash: "hash", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = s.Save(ctx, domain.User{Email: "ANA@obra.com", PasswordHash: "x", Role: domain.RoleUser})
	var conflict *apperror.ConflictError
	require.ErrorAs(t, err, &conflict)

	found, err := s.FindByEmail(ctx, "ana@obra.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", found.PasswordHash)

	_, err = s.FindByEmail(ctx, "outro@obra.com")
	assert.True(t, apperror.IsNotFound(err))
}
