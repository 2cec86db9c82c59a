package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"estoquemaster/internal/pkg/database"
)

func TestPQErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "ux_materials_active_sku"})
	check := &pq.Error{Code: "23514", Constraint: "ck_materials_quantity_non_negative"}

	assert.True(t, database.IsUniqueViolation(unique))
	assert.False(t, database.IsCheckViolation(unique))
	assert.Equal(t, "ux_materials_active_sku", database.ConstraintName(unique))

	assert.True(t, database.IsCheckViolation(check))
	assert.False(t, database.IsUniqueViolation(errors.New("conn reset")))
	assert.Equal(t, "", database.ConstraintName(errors.New("conn reset")))

	outOfRange := &pq.Error{Code: "22003", Message: "integer out of range"}
	assert.True(t, database.IsNumericOutOfRange(outOfRange))
	assert.False(t, database.IsNumericOutOfRange(check))
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := database.Migrations.ReadDir(database.MigrationsDir)

	assert.NoError(t, err)
	assert.Len(t, entries, 4)
}
