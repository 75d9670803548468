// Package cache caché de lectura para catálogos (nombres de productos, locales, lugares, estados).
package cache

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// NamesCache almacén de los nombres de catálogo.
type NamesCache interface {
	Get(ctx context.Context, key string) (*entity.CatalogNames, bool, error)
	Set(ctx context.Context, key string, value *entity.CatalogNames, ttl time.Duration) error
}

// NoopNamesCache nunca encuentra nada; se usa cuando no hay Redis configurado.
type NoopNamesCache struct{}

func (NoopNamesCache) Get(_ context.Context, _ string) (*entity.CatalogNames, bool, error) {
	return nil, false, nil
}

func (NoopNamesCache) Set(_ context.Context, _ string, _ *entity.CatalogNames, _ time.Duration) error {
	return nil
}
