// Package excel genera la exportación de stock en formato xlsx.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
)

// SheetName nombre de la hoja exportada.
const SheetName = "Stock"

// NameColumns columnas descriptivas que se agregan después de ExportColumns.
var NameColumns = []string{"producto", "local", "lugar", "estado"}

var _ stock.SpreadsheetWriter = (*StockSheetWriter)(nil)

// StockSheetWriter implementación de SpreadsheetWriter con excelize.
type StockSheetWriter struct{}

// NewStockSheetWriter construye el writer.
func NewStockSheetWriter() *StockSheetWriter {
	return &StockSheetWriter{}
}

// WriteStockSheet una fila de encabezado y una fila por registro. Las celdas nulas quedan vacías.
func (w *StockSheetWriter) WriteStockSheet(rows []inventory.TabularRow, names *entity.CatalogNames) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}

	header := make([]any, 0, len(inventory.ExportColumns)+len(NameColumns))
	for _, c := range inventory.ExportColumns {
		header = append(header, c)
	}
	for _, c := range NameColumns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("estilo encabezado: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("estilo encabezado: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22}) // m/d/yy h:mm
	if err != nil {
		return nil, fmt.Errorf("estilo fecha: %w", err)
	}
	createdCol, _ := excelize.ColumnNumberToName(indexOf("created_at") + 1)
	updatedCol, _ := excelize.ColumnNumberToName(indexOf("updated_at") + 1)

	for i, r := range rows {
		line := i + 2
		values := append(r.Values(),
			lookup(names, func(n *entity.CatalogNames) map[int64]string { return n.Productos }, r.ProductoID),
			lookup(names, func(n *entity.CatalogNames) map[int64]string { return n.Locales }, r.LocalID),
			lookup(names, func(n *entity.CatalogNames) map[int64]string { return n.Lugares }, r.LugarID),
			lookup(names, func(n *entity.CatalogNames) map[int64]string { return n.Estados }, r.EstadoID),
		)
		cell, _ := excelize.CoordinatesToCellName(1, line)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		if r.CreatedAt != nil {
			_ = f.SetCellStyle(SheetName, fmt.Sprintf("%s%d", createdCol, line), fmt.Sprintf("%s%d", createdCol, line), dateStyle)
		}
		if r.UpdatedAt != nil {
			_ = f.SetCellStyle(SheetName, fmt.Sprintf("%s%d", updatedCol, line), fmt.Sprintf("%s%d", updatedCol, line), dateStyle)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func indexOf(col string) int {
	for i, c := range inventory.ExportColumns {
		if c == col {
			return i
		}
	}
	return -1
}

func lookup(names *entity.CatalogNames, pick func(*entity.CatalogNames) map[int64]string, id *float64) string {
	if names == nil || id == nil {
		return ""
	}
	return pick(names)[int64(*id)]
}
