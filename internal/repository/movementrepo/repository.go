package movementrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/cache"
	"estoquemaster/internal/pkg/database"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/repository/materialrepo"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type movementRow struct {
	ID           string    `db:"id"`
	MaterialID   string    `db:"material_id"`
	MaterialName string    `db:"material_name"`
	Type         string    `db:"type"`
	Quantity     int       `db:"quantity"`
	Date         string    `db:"date"`
	Reason       string    `db:"reason"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r movementRow) toDomain() domain.Movement {
	return domain.Movement{
		ID:           r.ID,
		MaterialID:   r.MaterialID,
		MaterialName: r.MaterialName,
		Type:         domain.MovementType(r.Type),
		Quantity:     r.Quantity,
		Date:         r.Date,
		Reason:       r.Reason,
		CreatedAt:    r.CreatedAt,
	}
}

// MovementRepository é o Store do livro sobre o PostgreSQL.
type MovementRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewMovementRepository cria e retorna uma nova instância do Repositório de Movimentações.
func NewMovementRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *MovementRepository {
	return &MovementRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// WithinTx abre uma transação, executa fn e faz commit. Qualquer erro de fn
// (ou do commit) desfaz a transação inteira. Depois do commit, as chaves de cache
// dos materiais tocados são invalidadas.
func (r *MovementRepository) WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação do livro.", err)
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback() // sem efeito depois do Commit

	ltx := &ledgerTx{tx: tx, logger: r.logger, locked: make(map[string]int)}
	if err := fn(ltx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação do livro.", err)
		return apperror.NewDBError("Falha ao confirmar movimentação", err)
	}

	keys := make([]string, 0, len(ltx.locked))
	for id := range ltx.locked {
		keys = append(keys, cache.MaterialKey(id))
	}
	if err := r.Cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("Falha ao invalidar cache após movimentação.", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
	return nil
}

// ListMovements devolve as movimentações por date DESC, id DESC.
func (r *MovementRepository) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	q := psql.Select("id", "material_id", "material_name", "type", "quantity", "date::text AS date", "reason", "created_at").
		From("movements").
		OrderBy("date DESC", "id DESC")
	if filter.Date != "" {
		q = q.Where(sq.Eq{"date": filter.Date})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao montar listagem de movimentações.", err)
	}

	var rows []movementRow
	if err := sqlscan.Select(ctxTimeout, r.DB, &rows, query, args...); err != nil {
		r.logger.Error("Falha ao listar movimentações no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar movimentações", err)
	}

	out := make([]domain.Movement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ledgerTx implementa domain.LedgerTx sobre uma *sql.Tx.
type ledgerTx struct {
	tx     *sql.Tx
	logger logger.Logger
	locked map[string]int // saldo lido de cada material bloqueado
}

// MaterialForUpdate bloqueia a linha do material (FOR UPDATE OF m) até o fim da transação.
func (t *ledgerTx) MaterialForUpdate(ctx context.Context, id string) (domain.Material, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Material{}, apperror.NewNotFoundError(fmt.Sprintf("Material com ID %s não encontrado.", id))
	}

	query, args, err := materialrepo.SelectBase().
		Where(sq.Eq{"m.id": id}).
		Suffix("FOR UPDATE OF m").
		ToSql()
	if err != nil {
		return domain.Material{}, apperror.NewInternalError("Falha ao montar SELECT FOR UPDATE.", err)
	}

	var row materialrepo.Row
	if err := sqlscan.Get(ctx, t.tx, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return domain.Material{}, apperror.NewNotFoundError(fmt.Sprintf("Material com ID %s não encontrado.", id))
		}
		t.logger.Error("Falha ao bloquear material na transação.", err)
		return domain.Material{}, apperror.NewDBError("Falha ao ler material", err)
	}

	t.locked[row.ID] = row.Quantity
	return row.ToDomain(), nil
}

func (t *ledgerTx) InsertMovement(ctx context.Context, mov domain.Movement) error {
	query, args, err := psql.Insert("movements").
		Columns("id", "material_id", "material_name", "type", "quantity", "date", "reason", "created_at").
		Values(mov.ID, mov.MaterialID, mov.MaterialName, string(mov.Type), mov.Quantity, mov.Date, mov.Reason, mov.CreatedAt).
		ToSql()
	if err != nil {
		return apperror.NewInternalError("Falha ao montar INSERT de movimentação.", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		if database.IsCheckViolation(err) || database.IsNumericOutOfRange(err) {
			return apperror.NewInvalidInputError(fmt.Sprintf("Movimentação rejeitada pelo banco (%s).", database.ConstraintName(err)))
		}
		t.logger.Error("Falha ao inserir movimentação no DB.", err)
		return apperror.NewDBError("Falha ao inserir movimentação", err)
	}
	return nil
}

// AdjustQuantity aplica delta ao saldo. A constraint ck_materials_quantity_non_negative
// é a última barreira contra saldo negativo.
func (t *ledgerTx) AdjustQuantity(ctx context.Context, materialID string, delta int) (int, error) {
	query, args, err := psql.Update("materials").
		Set("quantity", sq.Expr("quantity + ?", delta)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": materialID}).
		Suffix("RETURNING quantity").
		ToSql()
	if err != nil {
		return 0, apperror.NewInternalError("Falha ao montar UPDATE de saldo.", err)
	}

	var newQty int
	if err := t.tx.QueryRowContext(ctx, query, args...).Scan(&newQty); err != nil {
		return 0, t.adjustErr(err, materialID, delta)
	}
	return newQty, nil
}

// adjustErr traduz a falha do UPDATE de saldo para o erro de domínio.
func (t *ledgerTx) adjustErr(err error, materialID string, delta int) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperror.NewNotFoundError(fmt.Sprintf("Material com ID %s não encontrado.", materialID))
	case database.IsCheckViolation(err):
		return apperror.NewInsufficientStockError(materialID, t.locked[materialID], -delta)
	case database.IsNumericOutOfRange(err):
		return apperror.NewInvalidInputError(fmt.Sprintf("Saldo do material %s excederia o máximo de %d.", materialID, domain.MaxQuantity))
	}
	t.logger.Error("Falha ao ajustar saldo no DB.", err)
	return apperror.NewDBError("Falha ao ajustar saldo", err)
}
