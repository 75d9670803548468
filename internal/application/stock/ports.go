package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
)

// SpreadsheetWriter genera el archivo de exportación a partir de filas ya proyectadas.
type SpreadsheetWriter interface {
	WriteStockSheet(rows []inventory.TabularRow, names *entity.CatalogNames) ([]byte, error)
}

// Ticket datos de una etiqueta con código de barras (una por grupo visible).
type Ticket struct {
	SKU      string
	Producto string
	Precio   decimal.Decimal
	Local    string
	Lugar    string
	Estado   string
	Cantidad int
	Severity inventory.Severity
}

// TicketRenderer servicio de etiquetas PDF.
type TicketRenderer interface {
	RenderTickets(ctx context.Context, tickets []Ticket) ([]byte, error)
}
