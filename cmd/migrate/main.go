package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"estoquemaster/config"
	"estoquemaster/internal/pkg/database"
)

// Uso: migrate [up|down|status|version|redo|reset] [args...]
// As migrações vêm embutidas no binário (internal/pkg/database/migrations).
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema: %v", err)
	}

	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("goose: configuração inválida: %v", err)
	}
	if cfg.StorageBackend != config.BackendPostgres {
		log.Fatalf("goose: STORAGE_BACKEND=%q não usa banco de dados", cfg.StorageBackend)
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao DB: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("goose: falha ao fechar o DB: %v", err)
		}
	}()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command := arguments[0]

	if err := database.Migrate(ctx, db, command, arguments[1:]...); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("goose %s success\n", command)
}
