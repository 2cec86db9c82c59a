package ledgerservice_test

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/repository/filestore"
	"estoquemaster/internal/service/ledgerservice"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

// seedMaterial cadastra um material direto no store local.
func seedMaterial(t *testing.T, store *filestore.Store, m domain.Material) domain.Material {
	t.Helper()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Name == "" {
		m.Name = "Cimento CP-II 50kg"
	}
	if m.SKU == "" {
		m.SKU = "SKU-" + m.ID[:8]
	}
	created, err := store.Create(context.Background(), m)
	require.NoError(t, err)
	return created
}

func newLedger(store ledgerservice.Store) *ledgerservice.Service {
	return ledgerservice.NewService(store, logger.NewNop(), ledgerservice.WithClock(fixedClock))
}

func TestRecordMovement_StatusWalkthrough(t *testing.T) {
	ctx := context.Background()
	store := filestore.NewMemory(logger.NewNop())
	svc := newLedger(store)
	m := seedMaterial(t, store, domain.Material{Quantity: 10, MinQuantity: 5, ResupplyQuantity: 10, AlertPercentage: 40})

	status := func() (int, domain.StockStatus) {
		cur, err := store.FindByID(ctx, m.ID)
		require.NoError(t, err)
		return cur.Quantity, domain.Classify(cur)
	}

	q, st := status()
	assert.Equal(t, 10, q)
	assert.Equal(t, domain.StatusInStock, st)

	steps := []struct {
		qty      int
		expected domain.StockStatus
		left     int
	}{
		{2, domain.StatusNeedsResupply, 8},
		{4, domain.StatusCritical, 4},
		{4, domain.StatusOutOfStock, 0},
	}
	for _, step := range steps {
		_, err := svc.RecordMovement(ctx, domain.MovementRequest{MaterialID: m.ID, Type: domain.MovementSaida, Quantity: step.qty})
		require.NoError(t, err)
		q, st = status()
		assert.Equal(t, step.left, q)
		assert.Equal(t, step.expected, st)
	}

	_, err := svc.RecordMovement(ctx, domain.MovementRequest{MaterialID: m.ID, Type: domain.MovementSaida, Quantity: 1})
	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 1, stockErr.Requested)

	q, _ = status()
	assert.Equal(t, 0, q)

	movs, err := svc.ListMovements(ctx, domain.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movs, 3, "a saída rejeitada não entra no livro")
}

func TestRecordMovement_EntradaRecordsExactFields(t *testing.T) {
	ctx := context.Background()
	store := filestore.NewMemory(logger.NewNop())
	svc := newLedger(store)
	m := seedMaterial(t, store, domain.Material{Name: "Areia média", Quantity: 100})

	mov, err := svc.RecordMovement(ctx, domain.MovementRequest{
		MaterialID: m.ID,
		Type:       domain.MovementEntrada,
		Quantity:   50,
		Date:       "2024-03-01",
		Reason:     "restock",
	})
	require.NoError(t, err)

	cur, err := store.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, cur.Quantity)

	movs, err := svc.ListMovements(ctx, domain.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, mov, movs[0])
	assert.Equal(t, m.ID, movs[0].MaterialID)
	assert.Equal(t, "Areia média", movs[0].MaterialName)
	assert.Equal(t, domain.MovementEntrada, movs[0].Type)
	assert.Equal(t, 50, movs[0].Quantity)
	assert.Equal(t, "2024-03-01", movs[0].Date)
	assert.Equal(t, "restock", movs[0].Reason)

	parsed, err := uuid.Parse(mov.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRecordMovement_Rejections(t *testing.T) {
	ctx := context.Background()
	store := filestore.NewMemory(logger.NewNop())
	svc := newLedger(store)
	active := seedMaterial(t, store, domain.Material{Quantity: 3})
	nearMax := seedMaterial(t, store, domain.Material{Quantity: domain.MaxQuantity - 5})
	archived := seedMaterial(t, store, domain.Material{Quantity: 30, IsArchived: true})

	cases := []struct {
		name   string
		req    domain.MovementRequest
		target interface{}
	}{
		{"material inexistente", domain.MovementRequest{MaterialID: uuid.NewString(), Type: domain.MovementEntrada, Quantity: 1}, new(*apperror.NotFoundError)},
		{"material arquivado", domain.MovementRequest{MaterialID: archived.ID, Type: domain.MovementSaida, Quantity: 1}, new(*apperror.NotFoundError)},
		{"sem material", domain.MovementRequest{Type: domain.MovementEntrada, Quantity: 1}, new(*apperror.InvalidInputError)},
		{"tipo desconhecido", domain.MovementRequest{MaterialID: active.ID, Type: "ajuste", Quantity: 1}, new(*apperror.InvalidInputError)},
		{"quantidade zero", domain.MovementRequest{MaterialID: active.ID, Type: domain.MovementEntrada, Quantity: 0}, new(*apperror.InvalidInputError)},
		{"quantidade negativa", domain.MovementRequest{MaterialID: active.ID, Type: domain.MovementSaida, Quantity: -2}, new(*apperror.InvalidInputError)},
		{"saída maior que o saldo vence a validação de quantidade", domain.MovementRequest{MaterialID: active.ID, Type: domain.MovementSaida, Quantity: 4}, new(*apperror.InsufficientStockError)},
		{"entrada acima do limite", domain.MovementRequest{MaterialID: active.ID, Type: domain.MovementEntrada, Quantity: math.MaxInt}, new(*apperror.InvalidInputError)},
		{"saída acima do limite esbarra no saldo", domain.MovementRequest{MaterialID: active.ID, Type: domain.MovementSaida, Quantity: math.MaxInt}, new(*apperror.InsufficientStockError)},
		{"entrada estouraria o saldo máximo", domain.MovementRequest{MaterialID: nearMax.ID, Type: domain.MovementEntrada, Quantity: 6}, new(*apperror.InvalidInputError)},
		{"data malformada", domain.MovementRequest{MaterialID: active.ID, Type: domain.MovementEntrada, Quantity: 1, Date: "01/03/2024"}, new(*apperror.InvalidInputError)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordMovement(ctx, tc.req)
			require.Error(t, err)
			assert.ErrorAs(t, err, tc.target)
		})
	}

	cur, err := store.FindByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, cur.Quantity)
	cur, err = store.FindByID(ctx, nearMax.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuantity-5, cur.Quantity)
	movs, err := svc.ListMovements(ctx, domain.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRecordMovement_DefaultsDateToLocalToday(t *testing.T) {
	store := filestore.NewMemory(logger.NewNop())
	svc := newLedger(store)
	m := seedMaterial(t, store, domain.Material{})

	mov, err := svc.RecordMovement(context.Background(), domain.MovementRequest{MaterialID: m.ID, Type: domain.MovementEntrada, Quantity: 2})

	require.NoError(t, err)
	assert.Equal(t, fixedNow.Format(domain.DateLayout), mov.Date)
}

// failingStore repassa a unidade de trabalho ao store real, mas faz o ajuste de saldo falhar.
type failingStore struct {
	*filestore.Store
	err error
}

func (s *failingStore) WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	return s.Store.WithinTx(ctx, func(tx domain.LedgerTx) error {
		return fn(&failingTx{LedgerTx: tx, err: s.err})
	})
}

type failingTx struct {
	domain.LedgerTx
	err error
}

func (tx *failingTx) AdjustQuantity(ctx context.Context, materialID string, delta int) (int, error) {
	return 0, tx.err
}

func TestRecordMovement_BalanceFailureLeavesNoLedgerEntry(t *testing.T) {
	ctx := context.Background()
	store := filestore.NewMemory(logger.NewNop())
	m := seedMaterial(t, store, domain.Material{Quantity: 10})

	storageErr := apperror.NewStorageError("disco cheio", errors.New("ENOSPC"))
	svc := newLedger(&failingStore{Store: store, err: storageErr})

	_, err := svc.RecordMovement(ctx, domain.MovementRequest{MaterialID: m.ID, Type: domain.MovementSaida, Quantity: 4})
	require.ErrorIs(t, err, storageErr)

	cur, err := store.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, cur.Quantity)

	movs, err := store.ListMovements(ctx, domain.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRecordMovement_RandomSequencesKeepLedgerConsistent(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(42, 2024))

	for run := 0; run < 20; run++ {
		store := filestore.NewMemory(logger.NewNop())
		svc := newLedger(store)
		initial := rng.IntN(20)
		m := seedMaterial(t, store, domain.Material{Quantity: initial})

		expected := initial
		for i := 0; i < 60; i++ {
			typ := domain.MovementEntrada
			if rng.IntN(2) == 0 {
				typ = domain.MovementSaida
			}
			qty := rng.IntN(15) - 2 // inclui zero e negativos

			before := expected
			_, err := svc.RecordMovement(ctx, domain.MovementRequest{MaterialID: m.ID, Type: typ, Quantity: qty})
			if err == nil {
				require.Positive(t, qty)
				if typ == domain.MovementSaida {
					require.LessOrEqual(t, qty, before, "saída aceita acima do saldo")
				}
				expected += typ.Delta(qty)
			}
			require.GreaterOrEqual(t, expected, 0)
		}

		cur, err := store.FindByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, expected, cur.Quantity)

		movs, err := svc.ListMovements(ctx, domain.MovementFilter{})
		require.NoError(t, err)
		total := initial
		for _, mv := range movs {
			total += mv.Type.Delta(mv.Quantity)
		}
		assert.Equal(t, cur.Quantity, total, "saldo = inicial + Σ entradas − Σ saídas")
	}
}

// MockStore é uma implementação mock da interface Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *MockStore) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]domain.Movement), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRecordMovement_PropagatesStorageError(t *testing.T) {
	mockStore := new(MockStore)
	svc := newLedger(mockStore)

	dbErr := apperror.NewDBError("Falha ao iniciar transação", errors.New("connection refused"))
	mockStore.On("WithinTx", mock.Anything, mock.Anything).Return(dbErr)

	_, err := svc.RecordMovement(context.Background(), domain.MovementRequest{MaterialID: uuid.NewString(), Type: domain.MovementEntrada, Quantity: 1})

	var storageErr *apperror.StorageError
	assert.ErrorAs(t, err, &storageErr)
	mockStore.AssertExpectations(t)
}

func TestMovements_IsLazyAndRestartable(t *testing.T) {
	mockStore := new(MockStore)
	svc := newLedger(mockStore)

	movs := []domain.Movement{
		{ID: "b", Date: "2024-03-02"},
		{ID: "a", Date: "2024-03-01"},
	}
	mockStore.On("ListMovements", mock.Anything, domain.MovementFilter{}).Return(movs, nil)

	seq := svc.Movements(context.Background(), domain.MovementFilter{})
	mockStore.AssertNotCalled(t, "ListMovements", mock.Anything, mock.Anything)

	for range 2 {
		var ids []string
		for m, err := range seq {
			require.NoError(t, err)
			ids = append(ids, m.ID)
		}
		assert.Equal(t, []string{"b", "a"}, ids)
	}
	mockStore.AssertNumberOfCalls(t, "ListMovements", 2)

	// Parar no primeiro elemento não pode causar pânico.
	for range seq {
		break
	}
}

func TestMovements_RejectsMalformedDateFilter(t *testing.T) {
	mockStore := new(MockStore)
	svc := newLedger(mockStore)

	_, err := svc.ListMovements(context.Background(), domain.MovementFilter{Date: "2024-13-40"})

	var invalid *apperror.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
	mockStore.AssertNotCalled(t, "ListMovements", mock.Anything, mock.Anything)
}
