package categoryrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/database"
	"estoquemaster/internal/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type categoryRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

// CategoryRepository implementa o repositório de categorias sobre o PostgreSQL.
type CategoryRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCategoryRepository cria e retorna uma nova instância do Repositório de Categorias.
func NewCategoryRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CategoryRepository {
	return &CategoryRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// CreateCategory insere uma categoria. O índice único em lower(name) rejeita duplicatas.
func (r *CategoryRepository) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := psql.Insert("categories").Columns("id", "name").Values(c.ID, c.Name).ToSql()
	if err != nil {
		return domain.Category{}, apperror.NewInternalError("Falha ao montar INSERT de categoria.", err)
	}

	if _, err := r.DB.ExecContext(ctxTimeout, query, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Category{}, apperror.NewInvalidInputError(fmt.Sprintf("A categoria %q já existe.", c.Name))
		}
		r.logger.Error("Falha ao inserir categoria no DB.", err)
		return domain.Category{}, apperror.NewDBError("Falha ao inserir categoria", err)
	}

	r.logger.Info("Categoria criada.", map[string]interface{}{"category_id": c.ID, "name": c.Name})
	return c, nil
}

// FindCategoryByName busca uma categoria pelo nome, sem diferenciar maiúsculas.
func (r *CategoryRepository) FindCategoryByName(ctx context.Context, name string) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := psql.Select("id", "name").
		From("categories").
		Where(sq.Expr("lower(name) = lower(?)", name)).
		ToSql()
	if err != nil {
		return domain.Category{}, apperror.NewInternalError("Falha ao montar SELECT de categoria.", err)
	}

	var row categoryRow
	if err := sqlscan.Get(ctxTimeout, r.DB, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return domain.Category{}, apperror.NewNotFoundError(fmt.Sprintf("Categoria %q não encontrada.", name))
		}
		return domain.Category{}, apperror.NewDBError("Falha ao buscar categoria", err)
	}
	return domain.Category{ID: row.ID, Name: row.Name}, nil
}

// FindAllCategories lista as categorias por nome.
func (r *CategoryRepository) FindAllCategories(ctx context.Context) ([]domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := psql.Select("id", "name").From("categories").OrderBy("lower(name)", "id").ToSql()
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao montar listagem de categorias.", err)
	}

	var rows []categoryRow
	if err := sqlscan.Select(ctxTimeout, r.DB, &rows, query, args...); err != nil {
		r.logger.Error("Falha ao listar categorias no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar categorias", err)
	}

	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Category{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

// DeleteCategory remove a categoria; materials.category_id vira NULL (ON DELETE SET NULL).
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não encontrada.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args, err := psql.Delete("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return apperror.NewInternalError("Falha ao montar DELETE de categoria.", err)
	}

	res, err := r.DB.ExecContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao remover categoria no DB.", err)
		return apperror.NewDBError("Falha ao remover categoria", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não encontrada.", id))
	}

	r.logger.Info("Categoria removida.", map[string]interface{}{"category_id": id})
	return nil
}
