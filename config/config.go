package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backends de armazenamento suportados.
const (
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

// Config armazena todas as configurações do EstoqueMaster.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Armazenamento
	StorageBackend string // "postgres" ou "file"
	DataFile       string // caminho do arquivo JSON no modo local

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis); vazio desativa cache e rate limiting
	RedisAddr string
	CacheTTL  time.Duration

	// Segurança (JWT)
	AuthRequired bool
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// O .env (se houver) deve ser carregado antes pelo godotenv no main.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_BACKEND", BackendPostgres)
	v.SetDefault("DATA_FILE", "estoquemaster.json")
	v.SetDefault("DB_TIMEOUT_SEC", 5)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_TTL_SEC", 300)
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("JWT_EXPIRY_MIN", 60)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_PERIOD_MIN", 1)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		StorageBackend: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND"))),
		DataFile:       v.GetString("DATA_FILE"),

		DatabaseURL: v.GetString("DATABASE_URL"),
		DBTimeout:   time.Duration(v.GetInt("DB_TIMEOUT_SEC")) * time.Second,

		RedisAddr: v.GetString("REDIS_ADDR"),
		CacheTTL:  time.Duration(v.GetInt("CACHE_TTL_SEC")) * time.Second,

		AuthRequired: v.GetBool("AUTH_REQUIRED"),
		JWTSecretKey: v.GetString("JWT_SECRET_KEY"),
		TokenExpiry:  time.Duration(v.GetInt("JWT_EXPIRY_MIN")) * time.Minute,

		RateLimitMaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		RateLimitPeriod:      time.Duration(v.GetInt("RATE_LIMIT_PERIOD_MIN")) * time.Minute,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate garante que a aplicação não inicie sem as credenciais obrigatórias.
func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("erro de configuração: DATABASE_URL deve ser definida para o backend %q", BackendPostgres)
		}
	case BackendFile:
	default:
		return fmt.Errorf("erro de configuração: STORAGE_BACKEND %q desconhecido (use %q ou %q)", c.StorageBackend, BackendPostgres, BackendFile)
	}

	if c.AuthRequired && c.JWTSecretKey == "" {
		return fmt.Errorf("erro de configuração: JWT_SECRET_KEY deve ser definida quando AUTH_REQUIRED=true")
	}
	if c.DBTimeout <= 0 {
		return fmt.Errorf("erro de configuração: DB_TIMEOUT_SEC deve ser positivo")
	}
	return nil
}
