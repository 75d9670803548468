package inventory

import (
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// ExportColumns orden fijo de columnas de la exportación, independiente de la forma de origen.
var ExportColumns = []string{
	"id",
	"producto_id",
	"local_id",
	"lugar_id",
	"estado_id",
	"en_exhibicion",
	"cantidad",
	"codigo_sku",
	"observaciones",
	"created_at",
	"updated_at",
}

// TabularRow una fila de exportación (una por registro crudo, no por grupo).
// Numéricos como *float64 y fechas como *time.Time; nil significa celda vacía.
type TabularRow struct {
	ID            *float64
	ProductoID    *float64
	LocalID       *float64
	LugarID       *float64
	EstadoID      *float64
	EnExhibicion  *float64
	Cantidad      *float64
	CodigoSKU     string
	Observaciones string
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
}

// Values devuelve las celdas en el orden de ExportColumns (nil para vacías).
func (r TabularRow) Values() []any {
	return []any{
		numOrNil(r.ID),
		numOrNil(r.ProductoID),
		numOrNil(r.LocalID),
		numOrNil(r.LugarID),
		numOrNil(r.EstadoID),
		numOrNil(r.EnExhibicion),
		numOrNil(r.Cantidad),
		r.CodigoSKU,
		r.Observaciones,
		timeOrNil(r.CreatedAt),
		timeOrNil(r.UpdatedAt),
	}
}

// Project aplana los registros sin agregar nada.
func Project(records []entity.StockRecord) []TabularRow {
	rows := make([]TabularRow, len(records))
	for i, r := range records {
		id := float64(r.ID)
		qty := float64(r.Cantidad)
		rows[i] = TabularRow{
			ID:            &id,
			ProductoID:    idToNum(r.ProductoID),
			LocalID:       idToNum(r.LocalID),
			LugarID:       idToNum(r.LugarID),
			EstadoID:      idToNum(r.EstadoID),
			EnExhibicion:  boolToNum(r.EnExhibicion),
			Cantidad:      &qty,
			CodigoSKU:     r.CodigoSKU,
			Observaciones: r.Observaciones,
			CreatedAt:     dateOrNil(r.CreatedAt),
			UpdatedAt:     dateOrNil(r.UpdatedAt),
		}
	}
	return rows
}

// ProjectGroups exporta las filas de los grupos en el orden en que se muestran.
func ProjectGroups(groups []entity.InventoryGroup) []TabularRow {
	var records []entity.StockRecord
	for _, g := range groups {
		records = append(records, g.Items...)
	}
	return Project(records)
}

func idToNum(p *int64) *float64 {
	if p == nil {
		return nil
	}
	v := float64(*p)
	return &v
}

func boolToNum(p *bool) *float64 {
	if p == nil {
		return nil
	}
	v := 0.0
	if *p {
		v = 1
	}
	return &v
}

func dateOrNil(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := *t
	return &v
}

func numOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func timeOrNil(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}
