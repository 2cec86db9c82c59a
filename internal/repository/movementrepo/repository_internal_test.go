package movementrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
)

func TestLedgerTx_AdjustErr(t *testing.T) {
	tx := &ledgerTx{logger: logger.NewNop(), locked: map[string]int{"m-1": 4}}

	cases := []struct {
		name   string
		err    error
		delta  int
		target interface{}
	}{
		{"material sumiu", sql.ErrNoRows, -1, new(*apperror.NotFoundError)},
		{"check de saldo não negativo", &pq.Error{Code: "23514", Constraint: "ck_materials_quantity_non_negative"}, -9, new(*apperror.InsufficientStockError)},
		{"estouro do INTEGER", fmt.Errorf("update: %w", &pq.Error{Code: "22003"}), 10, new(*apperror.InvalidInputError)},
		{"falha de conexão", errors.New("connection reset by peer"), -1, new(*apperror.StorageError)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tx.adjustErr(tc.err, "m-1", tc.delta)
			require.Error(t, err)
			assert.ErrorAs(t, err, tc.target)
		})
	}
}

func TestLedgerTx_AdjustErr_ReportsLockedBalance(t *testing.T) {
	tx := &ledgerTx{logger: logger.NewNop(), locked: map[string]int{"m-1": 4}}

	err := tx.adjustErr(&pq.Error{Code: "23514"}, "m-1", -9)

	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Available)
	assert.Equal(t, 9, stockErr.Requested)
}

func TestLedgerTx_MaterialForUpdate_InvalidIDSkipsQuery(t *testing.T) {
	// tx nil: qualquer acesso ao banco entraria em pânico
	tx := &ledgerTx{logger: logger.NewNop(), locked: map[string]int{}}

	_, err := tx.MaterialForUpdate(context.Background(), "nao-e-uuid")

	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, tx.locked)
}
