// Package pdf genera las etiquetas de inventario con código de barras.
//
// Layout de la página A4: dos etiquetas por fila.
//
//	┌──────────────────────────────┬──────────────────────────────┐
//	│ PRODUCTO            $25.000  │ PRODUCTO            $25.000  │
//	│ ║║│║║│║│║║│║ (Code128 SKU)   │ ║║│║║│║│║║│║                 │
//	│ SKU                          │ SKU                          │
//	│ Local · Lugar · Estado       │ Local · Lugar · Estado       │
//	│ Cantidad: 5   LOW            │ Cantidad: 0   CRITICAL       │
//	└──────────────────────────────┴──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 190, Green: 30, Blue: 45}
	colorLow      = &props.Color{Red: 200, Green: 120, Blue: 0}
)

const ticketsPerRow = 2

// ── Generator ─────────────────────────────────────────────────────────────────

var _ stock.TicketRenderer = (*MarotoTicketGenerator)(nil)

// MarotoTicketGenerator implementa stock.TicketRenderer usando Maroto v2.
type MarotoTicketGenerator struct{}

// NewMarotoTicketGenerator construye el generador.
func NewMarotoTicketGenerator() *MarotoTicketGenerator { return &MarotoTicketGenerator{} }

// RenderTickets genera el PDF con una etiqueta por ticket y devuelve sus bytes.
func (g *MarotoTicketGenerator) RenderTickets(_ context.Context, tickets []stock.Ticket) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiquetas de inventario", true).
		Build()

	m := maroto.New(cfg)
	for i := 0; i < len(tickets); i += ticketsPerRow {
		end := min(i+ticketsPerRow, len(tickets))
		m.AddRows(ticketRow(tickets[i:end]))
		m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2, Style: linestyle.Dashed}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiquetas: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// ticketRow: hasta ticketsPerRow etiquetas lado a lado; el hueco final queda vacío.
func ticketRow(tickets []stock.Ticket) core.Row {
	cols := make([]core.Col, 0, ticketsPerRow)
	for _, t := range tickets {
		cols = append(cols, ticketCol(t))
	}
	for len(cols) < ticketsPerRow {
		cols = append(cols, col.New(12/ticketsPerRow))
	}
	return row.New(48).Add(cols...)
}

func ticketCol(t stock.Ticket) core.Col {
	c := col.New(12 / ticketsPerRow)
	c.Add(
		text.New(nonEmpty(t.Producto, "Producto sin nombre"), props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1, Left: 2,
		}),
		text.New("$"+formatMoney(t.Precio.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1, Right: 2,
		}),
	)
	if t.SKU != "" {
		c.Add(code.NewBar(t.SKU, props.Barcode{
			Top:        8,
			Left:       2,
			Percent:    60,
			Proportion: props.Proportion{Width: 20, Height: 4},
		}))
	}
	c.Add(
		text.New(nonEmpty(t.SKU, "sin SKU"), props.Text{Size: 7, Top: 27, Left: 2, Color: colorGray}),
		text.New(location(t), props.Text{Size: 7, Top: 32, Left: 2}),
		text.New(fmt.Sprintf("Cantidad: %d", t.Cantidad), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 38, Left: 2,
		}),
		text.New(string(t.Severity), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 38, Align: align.Right, Right: 2,
			Color: severityColor(t.Severity),
		}),
	)
	return c
}

// ── helpers ───────────────────────────────────────────────────────────────────

func location(t stock.Ticket) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Local, t.Lugar, t.Estado} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " · ")
}

func severityColor(s inventory.Severity) *props.Color {
	switch s {
	case inventory.SeverityCritical:
		return colorCritical
	case inventory.SeverityLow:
		return colorLow
	default:
		return colorGray
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
