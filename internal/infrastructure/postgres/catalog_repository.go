package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo nombres de productos, locales, lugares y estados.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// Names carga los cuatro catálogos completos.
func (r *CatalogRepo) Names(ctx context.Context) (*entity.CatalogNames, error) {
	names := &entity.CatalogNames{}
	var err error
	if names.Productos, err = r.idNames(ctx, `SELECT id, nombre FROM productos`); err != nil {
		return nil, fmt.Errorf("catalogo productos: %w", err)
	}
	if names.Locales, err = r.idNames(ctx, `SELECT id, nombre FROM locales`); err != nil {
		return nil, fmt.Errorf("catalogo locales: %w", err)
	}
	if names.Lugares, err = r.idNames(ctx, `SELECT id, nombre FROM lugares`); err != nil {
		return nil, fmt.Errorf("catalogo lugares: %w", err)
	}
	if names.Estados, err = r.idNames(ctx, `SELECT id, nombre FROM estados`); err != nil {
		return nil, fmt.Errorf("catalogo estados: %w", err)
	}
	return names, nil
}

// ProductosByID devuelve los productos pedidos; los ids inexistentes simplemente no aparecen.
func (r *CatalogRepo) ProductosByID(ctx context.Context, ids []int64) (map[int64]entity.Producto, error) {
	out := make(map[int64]entity.Producto, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id, nombre, sku, precio FROM productos WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Producto
		if err := rows.Scan(&p.ID, &p.Nombre, &p.SKU, &p.Precio); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *CatalogRepo) idNames(ctx context.Context, query string) (map[int64]string, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]string)
	for rows.Next() {
		var (
			id     int64
			nombre string
		)
		if err := rows.Scan(&id, &nombre); err != nil {
			return nil, err
		}
		out[id] = nombre
	}
	return out, rows.Err()
}
