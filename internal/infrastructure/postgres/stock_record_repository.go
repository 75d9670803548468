package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo fuente de filas de stock sobre PostgreSQL (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockColumns = `
	s.id, s.producto_id, s.local_id, s.lugar_id, s.estado_id, s.en_exhibicion, s.cantidad,
	COALESCE(s.codigo_sku, ''), COALESCE(s.observaciones, ''), s.created_at, s.updated_at`

var stockOrderBy = map[string]string{
	repository.SortUpdatedDesc:  "s.updated_at DESC NULLS LAST, s.id DESC",
	repository.SortUpdatedAsc:   "s.updated_at ASC NULLS LAST, s.id ASC",
	repository.SortCantidadAsc:  "s.cantidad ASC, s.id ASC",
	repository.SortCantidadDesc: "s.cantidad DESC, s.id ASC",
	repository.SortProducto:     "p.nombre ASC NULLS LAST, s.id ASC",
}

// List devuelve las filas que cumplen el filtro. Con Limit > 0 pagina filas crudas y devuelve Meta;
// con Limit == 0 devuelve el corte completo sin metadatos.
func (r *StockRecordRepo) List(ctx context.Context, f repository.StockFilter) (repository.StockPage, error) {
	where, args := buildStockWhere(f)

	order, ok := stockOrderBy[f.Sort]
	if !ok {
		order = stockOrderBy[repository.SortUpdatedDesc]
	}
	from := `FROM stock_items s LEFT JOIN productos p ON p.id = s.producto_id`
	query := "SELECT " + stockColumns + " " + from + where + " ORDER BY " + order

	var meta *inventory.PageMeta
	if f.Limit > 0 {
		var total int
		if err := r.q.QueryRow(ctx, "SELECT COUNT(*) "+from+where, args...).Scan(&total); err != nil {
			return repository.StockPage{}, fmt.Errorf("count stock items: %w", err)
		}
		m := pageMeta(total, f.Page, f.Limit)
		meta = &m
		query += " LIMIT " + args.add(f.Limit) + " OFFSET " + args.add((m.Page-1)*f.Limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return repository.StockPage{}, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()

	records := make([]entity.StockRecord, 0)
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ID, &s.ProductoID, &s.LocalID, &s.LugarID, &s.EstadoID, &s.EnExhibicion,
			&s.Cantidad, &s.CodigoSKU, &s.Observaciones, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return repository.StockPage{}, fmt.Errorf("scan stock item: %w", err)
		}
		records = append(records, s)
	}
	if err := rows.Err(); err != nil {
		return repository.StockPage{}, fmt.Errorf("list stock items: %w", err)
	}
	return repository.StockPage{Records: records, Meta: meta}, nil
}

// pageMeta calcula la paginación de filas crudas. La página pedida se acota a [1, totalPages]
// para que OFFSET y metadatos describan la misma página.
func pageMeta(total, page, limit int) inventory.PageMeta {
	totalPages := (total + limit - 1) / limit
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return inventory.PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// buildStockWhere arma el WHERE compartido por el conteo y la consulta de filas.
func buildStockWhere(f repository.StockFilter) (string, queryArgs) {
	var (
		conds []string
		args  queryArgs
	)
	if f.ProductoID != nil {
		conds = append(conds, "s.producto_id = "+args.add(*f.ProductoID))
	}
	if f.LocalID != nil {
		conds = append(conds, "s.local_id = "+args.add(*f.LocalID))
	}
	if f.LugarID != nil {
		conds = append(conds, "s.lugar_id = "+args.add(*f.LugarID))
	}
	if f.EstadoID != nil {
		conds = append(conds, "s.estado_id = "+args.add(*f.EstadoID))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := args.add("%" + q + "%")
		conds = append(conds, fmt.Sprintf("(s.codigo_sku ILIKE %s OR s.observaciones ILIKE %s OR p.nombre ILIKE %s)", p, p, p))
	}
	if f.LowStockThreshold != nil {
		// el total se calcula sobre todas las filas de la combinación, no solo las filtradas
		conds = append(conds, `EXISTS (
			SELECT 1 FROM stock_items g
			WHERE g.producto_id IS NOT DISTINCT FROM s.producto_id
			  AND g.local_id IS NOT DISTINCT FROM s.local_id
			  AND g.lugar_id IS NOT DISTINCT FROM s.lugar_id
			  AND g.estado_id IS NOT DISTINCT FROM s.estado_id
			  AND g.en_exhibicion IS NOT DISTINCT FROM s.en_exhibicion
			HAVING SUM(g.cantidad) <= `+args.add(*f.LowStockThreshold)+`)`)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
