package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client define o contrato de interface para qualquer serviço de cache que o Repositório possa usar.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GetInt(ctx context.Context, key string) (int, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// ErrCacheMiss é retornado quando a chave não é encontrada no cache.
var ErrCacheMiss = redis.Nil

// MaterialKey é a chave de cache de um material pelo ID.
func MaterialKey(id string) string {
	return fmt.Sprintf("material:%s", id)
}

// RedisClient é a implementação concreta da interface Client, usando Redis.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient cria o cliente Redis e testa a conexão com PING.
func NewRedisClient(ctx context.Context, addr string) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr, // Endereço do Redis (e.g., "localhost:6379")
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("falha ao conectar ao Redis em %s: %w", addr, err)
	}

	return &RedisClient{rdb: rdb}, nil
}

// Get recupera o valor associado a uma chave.
func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set define um valor para uma chave com um tempo de expiração.
func (c *RedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Delete remove as chaves do cache (chaves inexistentes são ignoradas).
func (c *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// GetInt lê um contador inteiro.
func (c *RedisClient) GetInt(ctx context.Context, key string) (int, error) {
	n, err := c.rdb.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, ErrCacheMiss
	}
	return n, err
}

// Incr incrementa um contador e devolve o novo valor.
func (c *RedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

// Close encerra o pool de conexões.
func (c *RedisClient) Close() error {
	return c.rdb.Close()
}

// NopClient é usado quando nenhum Redis está configurado: toda leitura é miss
// e toda escrita é descartada.
type NopClient struct{}

// NewNopClient cria um cache desativado.
func NewNopClient() NopClient { return NopClient{} }

func (NopClient) Get(context.Context, string) (string, error) { return "", ErrCacheMiss }
func (NopClient) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (NopClient) Delete(context.Context, ...string) error     { return nil }
func (NopClient) GetInt(context.Context, string) (int, error) { return 0, ErrCacheMiss }
func (NopClient) Incr(context.Context, string) (int64, error) { return 0, nil }
