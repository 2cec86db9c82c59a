package categoryservice_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/repository/filestore"
	"estoquemaster/internal/service/categoryservice"
)

func TestCategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	store := filestore.NewMemory(logger.NewNop())
	svc := categoryservice.NewService(store, logger.NewNop())

	elet, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: " Elétrica "})
	require.NoError(t, err)
	assert.Equal(t, "Elétrica", elet.Name)

	_, err = svc.CreateCategory(ctx, domain.CategoryInput{Name: "Acabamento"})
	require.NoError(t, err)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acabamento", list[0].Name)

	require.NoError(t, svc.DeleteCategory(ctx, elet.ID))
	err = svc.DeleteCategory(ctx, elet.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateCategory_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := categoryservice.NewService(filestore.NewMemory(logger.NewNop()), logger.NewNop())

	_, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: "Pintura"})
	require.NoError(t, err)

	for name, in := range map[string]string{
		"duplicada":    "PINTURA",
		"curta demais": "A",
		"vazia":        "   ",
		"longa demais": strings.Repeat("x", 101),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateCategory(ctx, domain.CategoryInput{Name: in})
			var invalid *apperror.InvalidInputError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}
