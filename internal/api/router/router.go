package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"estoquemaster/internal/api/category"
	"estoquemaster/internal/api/material"
	"estoquemaster/internal/api/movement"
	"estoquemaster/internal/api/report"
	"estoquemaster/internal/api/user"
	"estoquemaster/internal/domain"
	"estoquemaster/internal/pkg/cache"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/pkg/metrics"
	"estoquemaster/internal/pkg/middleware"

	// Registra o documento swagger gerado.
	_ "estoquemaster/docs"
)

// Handlers reúne os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	Material *material.Handler
	Category *category.Handler
	Movement *movement.Handler
	Report   *report.Handler
	User     *user.Handler
}

// Options controla os middlewares aplicados pelo roteador.
type Options struct {
	// AuthRequired exige JWT nas rotas de escrita.
	AuthRequired bool
	TokenSvc     middleware.TokenService

	// RateLimitCache nil desativa o rate limiting.
	RateLimitCache  cache.Client
	RateLimitMax    int
	RateLimitPeriod time.Duration

	Logger logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()

	// Escritas exigem token quando a autenticação está ligada; remover categoria exige admin.
	var write, admin middleware.Chain
	if opts.AuthRequired {
		auth := middleware.NewAuthMiddleware(opts.TokenSvc)
		write = middleware.Chain{auth}
		admin = middleware.Chain{auth, middleware.PermissionMiddleware(domain.RoleAdmin)}
	}

	// --- Infraestrutura ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// --- Materiais ---
	mux.HandleFunc("GET /v1/materials", h.Material.ListMaterialsHandler)
	mux.HandleFunc("POST /v1/materials", write.Then(h.Material.CreateMaterialHandler))
	mux.HandleFunc("GET /v1/materials/{id}", h.Material.GetMaterialHandler)
	mux.HandleFunc("PUT /v1/materials/{id}", write.Then(h.Material.UpdateMaterialHandler))
	mux.HandleFunc("DELETE /v1/materials/{id}", write.Then(h.Material.ArchiveMaterialHandler))

	// --- Categorias ---
	mux.HandleFunc("GET /v1/categories", h.Category.ListCategoriesHandler)
	mux.HandleFunc("POST /v1/categories", write.Then(h.Category.CreateCategoryHandler))
	mux.HandleFunc("DELETE /v1/categories/{id}", admin.Then(h.Category.DeleteCategoryHandler))

	// --- Movimentações ---
	mux.HandleFunc("GET /v1/movements", h.Movement.ListMovementsHandler)
	mux.HandleFunc("POST /v1/movements", write.Then(h.Movement.RecordMovementHandler))

	// --- Relatórios ---
	mux.HandleFunc("GET /v1/reports/summary", h.Report.SummaryHandler)
	mux.HandleFunc("GET /v1/reports/top-moved", h.Report.TopMovedHandler)
	mux.HandleFunc("GET /v1/reports/export.xlsx", h.Report.ExportHandler)

	// --- Usuários ---
	mux.HandleFunc("POST /v1/users/register", h.User.RegisterUserHandler)
	mux.HandleFunc("POST /v1/users/login", h.User.LoginUserHandler)

	var handler http.Handler = mux
	if opts.RateLimitCache != nil {
		handler = middleware.RateLimiter(opts.RateLimitCache, opts.RateLimitMax, opts.RateLimitPeriod, opts.Logger)(handler)
	}
	return metrics.Middleware(handler)
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
