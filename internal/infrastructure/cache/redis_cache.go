package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/pkg/config"
)

// RedisNamesCache guarda CatalogNames como JSON en Redis.
type RedisNamesCache struct {
	client *redis.Client
}

// NewRedisNamesCache abre el cliente con la configuración dada.
func NewRedisNamesCache(cfg config.RedisConfig) *RedisNamesCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisNamesCache{client: client}
}

func (c *RedisNamesCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisNamesCache) Close() error {
	return c.client.Close()
}

func (c *RedisNamesCache) Get(ctx context.Context, key string) (*entity.CatalogNames, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var names entity.CatalogNames
	if err := json.Unmarshal(val, &names); err != nil {
		return nil, false, err
	}
	return &names, true, nil
}

func (c *RedisNamesCache) Set(ctx context.Context, key string, value *entity.CatalogNames, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
