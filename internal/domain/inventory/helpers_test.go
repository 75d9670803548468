package inventory_test

import (
	"fmt"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

func i64(v int64) *int64 { return &v }
func bptr(v bool) *bool  { return &v }

// rec arma una fila con todos los componentes de la clave presentes.
func rec(id, prod, local, lugar, estado int64, exhib bool, qty int) entity.StockRecord {
	return entity.StockRecord{
		ID:            id,
		ProductoID:    i64(prod),
		LocalID:       i64(local),
		LugarID:       i64(lugar),
		EstadoID:      i64(estado),
		EnExhibicion:  bptr(exhib),
		Cantidad:      qty,
		CodigoSKU:     fmt.Sprintf("SKU-%d", id),
		Observaciones: fmt.Sprintf("fila %d", id),
	}
}

// nGroups construye n grupos distintos de una fila cada uno.
func nGroups(n int) []entity.InventoryGroup {
	records := make([]entity.StockRecord, n)
	for i := range records {
		records[i] = rec(int64(i+1), int64(i+1), 1, 1, 1, false, i)
	}
	return groupOf(records)
}
