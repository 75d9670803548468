package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
)

// Orden admitido por la fuente de filas de stock.
const (
	SortUpdatedDesc  = "updated_desc"
	SortUpdatedAsc   = "updated_asc"
	SortCantidadAsc  = "cantidad_asc"
	SortCantidadDesc = "cantidad_desc"
	SortProducto     = "producto"
)

// StockFilter filtros de la consulta de filas crudas.
// Limit > 0 pide paginación en servidor (sobre filas crudas); Limit == 0 devuelve todo el corte.
type StockFilter struct {
	ProductoID *int64
	LocalID    *int64
	LugarID    *int64
	EstadoID   *int64
	Query      string
	Sort       string
	// LowStockThreshold, si no es nil, restringe a filas de combinaciones cuyo total <= umbral.
	LowStockThreshold *int
	Page              int
	Limit             int
}

// StockPage resultado de la fuente: filas y, solo si paginó, sus metadatos.
type StockPage struct {
	Records []entity.StockRecord
	Meta    *inventory.PageMeta
}

// StockRecordRepository puerto de lectura de filas de stock (la fuente de registros).
type StockRecordRepository interface {
	List(ctx context.Context, f StockFilter) (StockPage, error)
}

// DuplicationResult lo que creó la capa de mutación.
type DuplicationResult struct {
	NewProductoID  int64
	NewSKU         string
	CreatedRecords int
}

// DuplicationRepository puerto de mutación: ejecuta un payload de duplicación ya validado.
type DuplicationRepository interface {
	ApplyDuplication(ctx context.Context, payload inventory.DuplicationPayload) (*DuplicationResult, error)
}

// CatalogRepository nombres de catálogos para exportación y etiquetas.
type CatalogRepository interface {
	Names(ctx context.Context) (*entity.CatalogNames, error)
	ProductosByID(ctx context.Context, ids []int64) (map[int64]entity.Producto, error)
}
