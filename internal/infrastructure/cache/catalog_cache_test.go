package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

type countingCatalog struct {
	names     int
	productos int
}

func (c *countingCatalog) Names(context.Context) (*entity.CatalogNames, error) {
	c.names++
	return &entity.CatalogNames{Locales: map[int64]string{1: "Centro"}}, nil
}

func (c *countingCatalog) ProductosByID(context.Context, []int64) (map[int64]entity.Producto, error) {
	c.productos++
	return map[int64]entity.Producto{}, nil
}

type memoryCache struct {
	data   map[string]*entity.CatalogNames
	ttl    time.Duration
	getErr error
}

func (m *memoryCache) Get(_ context.Context, key string) (*entity.CatalogNames, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, v *entity.CatalogNames, ttl time.Duration) error {
	m.data[key] = v
	m.ttl = ttl
	return nil
}

func TestCachedCatalog_SegundaLecturaSaleDelCache(t *testing.T) {
	inner := &countingCatalog{}
	store := &memoryCache{data: map[string]*entity.CatalogNames{}}
	c := cache.NewCachedCatalog(inner, store, time.Minute, logger.Nop())

	for i := 0; i < 3; i++ {
		names, err := c.Names(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Centro", names.Locales[1])
	}
	assert.Equal(t, 1, inner.names)
	assert.Equal(t, time.Minute, store.ttl)
}

func TestCachedCatalog_FalloDeCacheNoFallaLaLectura(t *testing.T) {
	inner := &countingCatalog{}
	store := &memoryCache{data: map[string]*entity.CatalogNames{}, getErr: errors.New("redis caído")}
	c := cache.NewCachedCatalog(inner, store, time.Minute, logger.Nop())

	names, err := c.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Centro", names.Locales[1])
}

func TestCachedCatalog_ProductosNoSeCachean(t *testing.T) {
	inner := &countingCatalog{}
	c := cache.NewCachedCatalog(inner, cache.NoopNamesCache{}, time.Minute, logger.Nop())

	_, _ = c.ProductosByID(context.Background(), []int64{1})
	_, _ = c.ProductosByID(context.Background(), []int64{1})
	assert.Equal(t, 2, inner.productos)
}

func TestCachedCatalog_SinCacheConsultaSiempre(t *testing.T) {
	inner := &countingCatalog{}
	c := cache.NewCachedCatalog(inner, cache.NoopNamesCache{}, time.Minute, logger.Nop())

	_, _ = c.Names(context.Background())
	_, _ = c.Names(context.Background())
	assert.Equal(t, 2, inner.names)
}
