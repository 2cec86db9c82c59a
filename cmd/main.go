package main

import (
	"context"
	"database/sql"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Infraestrutura e utilitários
	"estoquemaster/config"
	"estoquemaster/internal/pkg/cache"
	"estoquemaster/internal/pkg/database"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"estoquemaster/internal/api/category"
	"estoquemaster/internal/api/material"
	"estoquemaster/internal/api/movement"
	"estoquemaster/internal/api/report"
	"estoquemaster/internal/api/router"
	"estoquemaster/internal/api/user"
	"estoquemaster/internal/repository/categoryrepo"
	"estoquemaster/internal/repository/filestore"
	"estoquemaster/internal/repository/materialrepo"
	"estoquemaster/internal/repository/movementrepo"
	"estoquemaster/internal/repository/userrepo"
	"estoquemaster/internal/service/categoryservice"
	"estoquemaster/internal/service/ledgerservice"
	"estoquemaster/internal/service/materialservice"
	"estoquemaster/internal/service/reportservice"
	"estoquemaster/internal/service/userservice"
)

// @title EstoqueMaster API
// @version 1.0
// @description Controle de estoque de materiais de construção: cadastro, movimentações e relatórios.
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	stdlog.Println("⚡ Inicializando serviço EstoqueMaster...")
	// O .env é opcional: em contêiner as variáveis vêm do ambiente do sistema.
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Falha ao carregar configurações: %v", err)
	}
	log := logger.NewLogger(cfg.LogLevel)
	if s, ok := log.(interface{ Sync() error }); ok {
		defer s.Sync()
	}
	log.Info("Configurações carregadas.", map[string]interface{}{"backend": cfg.StorageBackend, "env": cfg.Environment})

	ctx := context.Background()

	// 1. Cache (Redis). Sem endereço, o cache vira no-op e o rate limiting é desligado.
	var cacheClient cache.Client = cache.NewNopClient()
	var rateLimitCache cache.Client
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal("Falha ao conectar ao Redis.", err)
		}
		defer redisClient.Close()
		cacheClient = redisClient
		rateLimitCache = redisClient
		log.Info("Conexão Redis estabelecida.", nil)
	}

	// 2. Repositórios (Camada de Acesso a Dados)
	repos, closeRepos, err := openRepositories(ctx, cfg, cacheClient, log)
	if err != nil {
		log.Fatal("Falha ao inicializar o armazenamento.", err)
	}
	defer closeRepos()

	// 3. Serviços (Camada de Lógica de Negócio)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	materialSvc := materialservice.NewService(repos.materials, repos.materialCategories, log)
	categorySvc := categoryservice.NewService(repos.categories, log)
	ledgerSvc := ledgerservice.NewService(repos.ledger, log)
	reportSvc := reportservice.NewService(repos.materials, repos.ledger, log)
	userSvc := userservice.NewService(repos.users, tokenSvc, log)
	log.Debug("Serviços inicializados.", nil)

	// 4. Handlers (Camada de Apresentação) e Roteador
	handlers := router.Handlers{
		Material: material.NewHandler(materialSvc, log),
		Category: category.NewHandler(categorySvc, log),
		Movement: movement.NewHandler(ledgerSvc, log),
		Report:   report.NewHandler(reportSvc, log),
		User:     user.NewHandler(userSvc, log),
	}
	r := router.NewRouter(handlers, router.Options{
		AuthRequired:    cfg.AuthRequired,
		TokenSvc:        tokenSvc,
		RateLimitCache:  rateLimitCache,
		RateLimitMax:    cfg.RateLimitMaxRequests,
		RateLimitPeriod: cfg.RateLimitPeriod,
		Logger:          log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor EstoqueMaster ouvindo na porta", map[string]interface{}{"port": cfg.Port, "authRequired": cfg.AuthRequired})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}

// repositories agrupa as implementações do backend escolhido.
type repositories struct {
	materials          materialservice.MaterialRepository
	materialCategories materialservice.CategoryRepository
	categories         categoryservice.CategoryRepository
	ledger             ledgerservice.Store
	users              userservice.UserRepository
}

// openRepositories monta o backend configurado. A função devolvida libera os recursos.
func openRepositories(ctx context.Context, cfg *config.Config, cacheClient cache.Client, log logger.Logger) (repositories, func(), error) {
	if cfg.StorageBackend == config.BackendFile {
		store, err := filestore.Open(cfg.DataFile, log)
		if err != nil {
			return repositories{}, nil, err
		}
		log.Info("Armazenamento local em arquivo carregado.", map[string]interface{}{"path": cfg.DataFile})
		return repositories{
			materials:          store,
			materialCategories: store,
			categories:         store,
			ledger:             store,
			users:              store,
		}, func() {}, nil
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return repositories{}, nil, err
	}
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	if err := database.Migrate(ctx, db, "up"); err != nil {
		db.Close()
		return repositories{}, nil, err
	}
	log.Info("Migrações aplicadas.", nil)

	categories := categoryrepo.NewCategoryRepository(db, cfg.DBTimeout, log)
	return repositories{
		materials:          materialrepo.NewMaterialRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log),
		materialCategories: categories,
		categories:         categories,
		ledger:             movementrepo.NewMovementRepository(db, cacheClient, cfg.DBTimeout, log),
		users:              userrepo.NewUserRepository(db, cfg.DBTimeout, log),
	}, closeDB(db, log), nil
}

func closeDB(db *sql.DB, log logger.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Error("Falha ao fechar a conexão com o DB.", err)
		}
	}
}
