package entity

import "time"

// StockRecord representa una fila física de inventario: un producto en un local,
// lugar (estante/ubicación), estado y condición de exhibición.
// Las referencias pueden venir nulas desde la fuente; nulo es un valor válido de agrupación.
type StockRecord struct {
	ID            int64
	ProductoID    *int64
	LocalID       *int64
	LugarID       *int64
	EstadoID      *int64
	EnExhibicion  *bool
	Cantidad      int // siempre >= 0
	CodigoSKU     string
	Observaciones string
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
}

// InventoryGroup es la unidad lógica que ve el usuario: todas las filas que comparten
// (producto, local, lugar, estado, exhibición). El total nunca se guarda; se recalcula de Items.
type InventoryGroup struct {
	Key          string
	ProductoID   *int64
	LocalID      *int64
	LugarID      *int64
	EstadoID     *int64
	EnExhibicion *bool
	Items        []StockRecord
}

// CantidadTotal suma la cantidad de todas las filas del grupo.
func (g InventoryGroup) CantidadTotal() int {
	total := 0
	for _, it := range g.Items {
		total += it.Cantidad
	}
	return total
}
