package cache

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// NamesKey clave bajo la que se guardan los nombres de catálogo.
const NamesKey = "stock:catalog:names"

var _ repository.CatalogRepository = (*CachedCatalog)(nil)

// CachedCatalog decorador read-through sobre un CatalogRepository. Solo cachea Names;
// ProductosByID siempre va al repositorio porque el precio de las etiquetas debe ser el vigente.
// Un fallo del caché nunca falla la lectura: se registra y se consulta el repositorio.
type CachedCatalog struct {
	inner repository.CatalogRepository
	cache NamesCache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedCatalog envuelve inner. ttl <= 0 desactiva el guardado.
func NewCachedCatalog(inner repository.CatalogRepository, cache NamesCache, ttl time.Duration, log *logger.Logger) *CachedCatalog {
	return &CachedCatalog{inner: inner, cache: cache, ttl: ttl, log: log.Named("catalog_cache")}
}

func (c *CachedCatalog) Names(ctx context.Context) (*entity.CatalogNames, error) {
	names, ok, err := c.cache.Get(ctx, NamesKey)
	if err != nil {
		c.log.Warn().Err(err).Msg("leer caché de catálogos")
	}
	if ok {
		return names, nil
	}

	names, err = c.inner.Names(ctx)
	if err != nil {
		return nil, err
	}
	if c.ttl > 0 {
		if err := c.cache.Set(ctx, NamesKey, names, c.ttl); err != nil {
			c.log.Warn().Err(err).Msg("guardar caché de catálogos")
		}
	}
	return names, nil
}

func (c *CachedCatalog) ProductosByID(ctx context.Context, ids []int64) (map[int64]entity.Producto, error) {
	return c.inner.ProductosByID(ctx, ids)
}
