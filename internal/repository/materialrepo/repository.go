package materialrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/cache"
	"estoquemaster/internal/pkg/database"
	"estoquemaster/internal/pkg/logger"
)

// Columns é a projeção de materiais com o nome da categoria (LEFT JOIN).
// Exportada para o movementrepo, que lê o material dentro da transação do livro.
var Columns = []string{
	"m.id", "m.name", "m.sku", "m.contract_code",
	"m.category_id", "c.name AS category_name",
	"m.quantity", "m.min_quantity", "m.resupply_quantity", "m.alert_percentage",
	"m.description", "m.image", "m.is_archived", "m.created_at", "m.updated_at",
}

// psql é o builder do squirrel com placeholders do PostgreSQL ($1, $2...).
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Row espelha uma linha de materials + categories.
type Row struct {
	ID               string         `db:"id"`
	Name             string         `db:"name"`
	SKU              string         `db:"sku"`
	ContractCode     string         `db:"contract_code"`
	CategoryID       sql.NullString `db:"category_id"`
	CategoryName     sql.NullString `db:"category_name"`
	Quantity         int            `db:"quantity"`
	MinQuantity      int            `db:"min_quantity"`
	ResupplyQuantity int            `db:"resupply_quantity"`
	AlertPercentage  int            `db:"alert_percentage"`
	Description      string         `db:"description"`
	Image            string         `db:"image"`
	IsArchived       bool           `db:"is_archived"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

// ToDomain converte a linha; categoria ausente vira "Sem Categoria".
func (r Row) ToDomain() domain.Material {
	m := domain.Material{
		ID:               r.ID,
		Name:             r.Name,
		SKU:              r.SKU,
		ContractCode:     r.ContractCode,
		Category:         domain.UncategorizedLabel,
		Quantity:         r.Quantity,
		MinQuantity:      r.MinQuantity,
		ResupplyQuantity: r.ResupplyQuantity,
		AlertPercentage:  r.AlertPercentage,
		Description:      r.Description,
		Image:            r.Image,
		IsArchived:       r.IsArchived,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.CategoryID.Valid {
		m.CategoryID = r.CategoryID.String
	}
	if r.CategoryName.Valid {
		m.Category = r.CategoryName.String
	}
	return m
}

// SelectBase devolve o SELECT de materiais com o join de categorias.
func SelectBase() sq.SelectBuilder {
	return psql.Select(Columns...).
		From("materials m").
		LeftJoin("categories c ON c.id = m.category_id")
}

// MaterialRepository implementa o repositório de materiais sobre o PostgreSQL,
// com cache-aside no Redis para a busca por ID.
type MaterialRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewMaterialRepository cria e retorna uma nova instância do Repositório.
func NewMaterialRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *MaterialRepository {
	return &MaterialRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

func nullable(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

// translateWriteErr converte violações de constraint em erros de domínio.
func translateWriteErr(err error, sku, op string) error {
	if database.IsUniqueViolation(err) {
		if sku == "" {
			return apperror.NewInvalidInputError("Já existe um material ativo com o mesmo SKU.")
		}
		return apperror.NewInvalidInputError(fmt.Sprintf("Já existe um material ativo com o SKU %q.", sku))
	}
	if database.IsCheckViolation(err) {
		return apperror.NewInvalidInputError(fmt.Sprintf("Valores inválidos para o material (%s).", database.ConstraintName(err)))
	}
	return apperror.NewDBError(op, err)
}

// Create insere um novo material.
func (r *MaterialRepository) Create(ctx context.Context, m domain.Material) (domain.Material, error) {
	r.logger.Debug("Iniciando Create de material no repositório.", map[string]interface{}{"material_id": m.ID, "sku": m.SKU})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := psql.Insert("materials").
		Columns("id", "name", "sku", "contract_code", "category_id", "quantity", "min_quantity",
			"resupply_quantity", "alert_percentage", "description", "image", "is_archived", "created_at", "updated_at").
		Values(m.ID, m.Name, m.SKU, m.ContractCode, nullable(m.CategoryID), m.Quantity, m.MinQuantity,
			m.ResupplyQuantity, m.AlertPercentage, m.Description, m.Image, m.IsArchived, m.CreatedAt, m.UpdatedAt).
		ToSql()
	if err != nil {
		return domain.Material{}, apperror.NewInternalError("Falha ao montar INSERT de material.", err)
	}

	if _, err := r.DB.ExecContext(ctxTimeout, query, args...); err != nil {
		r.logger.Error("Falha ao inserir material no DB.", err)
		return domain.Material{}, translateWriteErr(err, m.SKU, "Falha ao inserir material")
	}

	r.logger.Info("Material salvo com sucesso no repositório.", map[string]interface{}{"material_id": m.ID, "sku": m.SKU})
	return r.findInDB(ctx, m.ID)
}

// FindByID busca um material pelo ID, utilizando a estratégia Cache-Aside.
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (domain.Material, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Material{}, apperror.NewNotFoundError(fmt.Sprintf("Material com ID %s não encontrado.", id))
	}

	key := cache.MaterialKey(id)
	cached, err := r.Cache.Get(ctx, key)
	if err == nil {
		var m domain.Material
		if json.Unmarshal([]byte(cached), &m) == nil {
			r.logger.Debug("Material servido pelo cache.", map[string]interface{}{"material_id": id})
			return m, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn("Falha ao ler material do cache; seguindo para o DB.", map[string]interface{}{"material_id": id, "error": err.Error()})
	}

	m, err := r.findInDB(ctx, id)
	if err != nil {
		return domain.Material{}, err
	}

	if payload, marshalErr := json.Marshal(m); marshalErr == nil {
		if setErr := r.Cache.Set(ctx, key, payload, r.CacheTTL); setErr != nil {
			r.logger.Warn("Falha ao gravar material no cache.", map[string]interface{}{"material_id": id, "error": setErr.Error()})
		}
	}
	return m, nil
}

func (r *MaterialRepository) findInDB(ctx context.Context, id string) (domain.Material, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := SelectBase().Where(sq.Eq{"m.id": id}).ToSql()
	if err != nil {
		return domain.Material{}, apperror.NewInternalError("Falha ao montar SELECT de material.", err)
	}

	var row Row
	if err := sqlscan.Get(ctxTimeout, r.DB, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return domain.Material{}, apperror.NewNotFoundError(fmt.Sprintf("Material com ID %s não encontrado.", id))
		}
		r.logger.Error("Falha ao buscar material no DB.", err)
		return domain.Material{}, apperror.NewDBError("Falha ao buscar material", err)
	}
	return row.ToDomain(), nil
}

// FindActiveBySKU busca o material ativo com o SKU informado.
func (r *MaterialRepository) FindActiveBySKU(ctx context.Context, sku string) (domain.Material, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := SelectBase().
		Where(sq.Eq{"m.sku": sku, "m.is_archived": false}).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Material{}, apperror.NewInternalError("Falha ao montar SELECT por SKU.", err)
	}

	var row Row
	if err := sqlscan.Get(ctxTimeout, r.DB, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return domain.Material{}, apperror.NewNotFoundError(fmt.Sprintf("Nenhum material ativo com SKU %q.", sku))
		}
		return domain.Material{}, apperror.NewDBError("Falha ao buscar material por SKU", err)
	}
	return row.ToDomain(), nil
}

// FindAll lista materiais filtrando por texto, SKU, categoria e arquivamento.
func (r *MaterialRepository) FindAll(ctx context.Context, filter domain.MaterialFilter) ([]domain.Material, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	q := SelectBase().OrderBy("lower(m.name)", "m.id")
	if !filter.IncludeArchived {
		q = q.Where(sq.Eq{"m.is_archived": false})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(sq.Or{sq.ILike{"m.name": pattern}, sq.ILike{"m.sku": pattern}})
	}
	if sku := strings.TrimSpace(filter.SKU); sku != "" {
		q = q.Where(sq.Eq{"m.sku": sku})
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		if strings.EqualFold(category, domain.UncategorizedLabel) {
			q = q.Where(sq.Eq{"c.id": nil})
		} else {
			q = q.Where(sq.Expr("lower(c.name) = lower(?)", category))
		}
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao montar listagem de materiais.", err)
	}

	var rows []Row
	if err := sqlscan.Select(ctxTimeout, r.DB, &rows, query, args...); err != nil {
		r.logger.Error("Falha ao listar materiais no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar materiais", err)
	}

	out := make([]domain.Material, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}
	return out, nil
}

// Update regrava os campos editáveis. A coluna quantity não é tocada.
func (r *MaterialRepository) Update(ctx context.Context, m domain.Material) (domain.Material, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := psql.Update("materials").
		Set("name", m.Name).
		Set("sku", m.SKU).
		Set("contract_code", m.ContractCode).
		Set("category_id", nullable(m.CategoryID)).
		Set("min_quantity", m.MinQuantity).
		Set("resupply_quantity", m.ResupplyQuantity).
		Set("alert_percentage", m.AlertPercentage).
		Set("description", m.Description).
		Set("image", m.Image).
		Set("is_archived", m.IsArchived).
		Set("updated_at", m.UpdatedAt).
		Where(sq.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return domain.Material{}, apperror.NewInternalError("Falha ao montar UPDATE de material.", err)
	}

	res, err := r.DB.ExecContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao atualizar material no DB.", err)
		return domain.Material{}, translateWriteErr(err, m.SKU, "Falha ao atualizar material")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Material{}, apperror.NewNotFoundError(fmt.Sprintf("Material com ID %s não encontrado.", m.ID))
	}

	r.invalidate(ctx, m.ID)
	return r.findInDB(ctx, m.ID)
}

// SetArchived arquiva ou reativa um material.
func (r *MaterialRepository) SetArchived(ctx context.Context, id string, archived bool) (domain.Material, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Material{}, apperror.NewNotFoundError(fmt.Sprintf("Material com ID %s não encontrado.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := psql.Update("materials").
		Set("is_archived", archived).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING sku").
		ToSql()
	if err != nil {
		return domain.Material{}, apperror.NewInternalError("Falha ao montar UPDATE de arquivamento.", err)
	}

	var sku string
	if err := r.DB.QueryRowContext(ctxTimeout, query, args...).Scan(&sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Material{}, apperror.NewNotFoundError(fmt.Sprintf("Material com ID %s não encontrado.", id))
		}
		return domain.Material{}, translateWriteErr(err, sku, "Falha ao arquivar material")
	}

	r.logger.Info("Arquivamento de material atualizado.", map[string]interface{}{"material_id": id, "archived": archived})
	r.invalidate(ctx, id)
	return r.findInDB(ctx, id)
}

// invalidate remove o material do cache; falhas só são registradas.
func (r *MaterialRepository) invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cache.MaterialKey(id))
	}
	if err := r.Cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("Falha ao invalidar cache de material.", map[string]interface{}{"ids": ids, "error": err.Error()})
	}
}
