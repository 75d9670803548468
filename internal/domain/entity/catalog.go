package entity

import "github.com/shopspring/decimal"

// Producto entrada del catálogo de productos (solo lo que necesitan exportación y etiquetas).
type Producto struct {
	ID     int64
	Nombre string
	SKU    string
	Precio decimal.Decimal
}

// Local sucursal o tienda.
type Local struct {
	ID     int64
	Nombre string
}

// Lugar ubicación física dentro de un local (estante, bodega trasera, vitrina...).
type Lugar struct {
	ID      int64
	LocalID int64
	Nombre  string
}

// Estado condición del producto (nuevo, usado, dañado...).
type Estado struct {
	ID     int64
	Nombre string
}

// CatalogNames nombres resueltos por id; se usa para exportación y etiquetas.
type CatalogNames struct {
	Productos map[int64]string
	Locales   map[int64]string
	Lugares   map[int64]string
	Estados   map[int64]string
}
