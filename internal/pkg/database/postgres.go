package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	// Driver PostgreSQL registrado como "postgres".
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Migrations contém os arquivos SQL do goose, embutidos no binário.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir é o diretório dos arquivos dentro de Migrations.
const MigrationsDir = "migrations"

// NewPostgresDB inicializa e configura o pool de conexões com o PostgreSQL.
func NewPostgresDB(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir a conexão com o DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("falha ao realizar o ping inicial no DB: %w", err)
	}

	// Pool de conexões
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return db, nil
}

// Migrate executa um comando do goose ("up", "down", "status", ...) usando as migrações embutidas.
func Migrate(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: dialeto inválido: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, MigrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
