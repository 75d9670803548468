package stock_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
	"github.com/jhoicas/inventario-stock/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeSource struct {
	records []entity.StockRecord
	meta    *inventory.PageMeta
	err     error
	calls   []repository.StockFilter
}

func (f *fakeSource) List(_ context.Context, filter repository.StockFilter) (repository.StockPage, error) {
	f.calls = append(f.calls, filter)
	if f.err != nil {
		return repository.StockPage{}, f.err
	}
	var out []entity.StockRecord
	for _, r := range f.records {
		if filter.ProductoID != nil && (r.ProductoID == nil || *r.ProductoID != *filter.ProductoID) {
			continue
		}
		if filter.LocalID != nil && (r.LocalID == nil || *r.LocalID != *filter.LocalID) {
			continue
		}
		out = append(out, r)
	}
	return repository.StockPage{Records: out, Meta: f.meta}, nil
}

type fakeSink struct {
	payloads []inventory.DuplicationPayload
	err      error
}

func (f *fakeSink) ApplyDuplication(_ context.Context, p inventory.DuplicationPayload) (*repository.DuplicationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.payloads = append(f.payloads, p)
	return &repository.DuplicationResult{NewProductoID: 99, NewSKU: p.BaseSKU + "-abcd1234", CreatedRecords: len(p.Lines)}, nil
}

type fakeCatalog struct{}

func (fakeCatalog) Names(context.Context) (*entity.CatalogNames, error) {
	return &entity.CatalogNames{
		Productos: map[int64]string{1: "Camisa", 2: "Pantalón"},
		Locales:   map[int64]string{10: "Centro", 20: "Norte"},
		Lugares:   map[int64]string{100: "Vitrina"},
		Estados:   map[int64]string{1: "Nuevo"},
	}, nil
}

func (fakeCatalog) ProductosByID(_ context.Context, ids []int64) (map[int64]entity.Producto, error) {
	out := map[int64]entity.Producto{}
	for _, id := range ids {
		out[id] = entity.Producto{ID: id, Nombre: "Producto", SKU: "CAT", Precio: decimal.NewFromInt(25000)}
	}
	return out, nil
}

type fakeSheets struct{ rows []inventory.TabularRow }

func (f *fakeSheets) WriteStockSheet(rows []inventory.TabularRow, _ *entity.CatalogNames) ([]byte, error) {
	f.rows = rows
	return []byte("xlsx"), nil
}

type fakeTickets struct{ tickets []stock.Ticket }

func (f *fakeTickets) RenderTickets(_ context.Context, t []stock.Ticket) ([]byte, error) {
	f.tickets = t
	return []byte("%PDF"), nil
}

type fixture struct {
	uc      *stock.StockUseCase
	source  *fakeSource
	sink    *fakeSink
	sheets  *fakeSheets
	tickets *fakeTickets
	metrics *metrics.Metrics
}

func newFixture(records []entity.StockRecord) *fixture {
	f := &fixture{
		source:  &fakeSource{records: records},
		sink:    &fakeSink{},
		sheets:  &fakeSheets{},
		tickets: &fakeTickets{},
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	f.uc = stock.NewStockUseCase(f.source, f.sink, fakeCatalog{}, f.sheets, f.tickets, stock.Settings{
		DefaultThreshold: 5,
		AlertThreshold:   2,
		PageSize:         2,
		MaxPageSize:      50,
		VerifyAggregates: true,
	}, logger.Nop(), f.metrics)
	return f
}

func i64(v int64) *int64 { return &v }
func iptr(v int) *int     { return &v }
func bptr(v bool) *bool   { return &v }

func rec(id, prod, local int64, qty int) entity.StockRecord {
	return entity.StockRecord{
		ID: id, ProductoID: i64(prod), LocalID: i64(local), LugarID: i64(100), EstadoID: i64(1),
		EnExhibicion: bptr(true), Cantidad: qty, CodigoSKU: "SKU-" + string(rune('A'+id-1)),
	}
}

// prod1@10: 3+2, prod1@20: 0, prod2@10: 10
func escenario() []entity.StockRecord {
	return []entity.StockRecord{rec(1, 1, 10, 3), rec(2, 1, 10, 2), rec(3, 1, 20, 0), rec(4, 2, 10, 10)}
}

// ──────────────────────────────────────────────────────────────────────────────
// ListGroups
// ──────────────────────────────────────────────────────────────────────────────

func TestListGroups_PaginacionCliente(t *testing.T) {
	f := newFixture(escenario())
	res, err := f.uc.ListGroups(context.Background(), stock.ListInput{})
	require.NoError(t, err)

	assert.Equal(t, inventory.ModeClient, res.View.Mode)
	assert.Equal(t, 2, res.View.TotalPages)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, 5, res.Groups[0].Group.CantidadTotal())
	assert.Equal(t, inventory.SeverityLow, res.Groups[0].Severity)
	assert.Equal(t, inventory.SeverityCritical, res.Groups[1].Severity)
	assert.Equal(t, 0, f.source.calls[0].Limit, "sin server_paginate la fuente no pagina")

	page2, err := f.uc.ListGroups(context.Background(), stock.ListInput{Page: 9})
	require.NoError(t, err)
	assert.Equal(t, 2, page2.View.CurrentPage)
	require.Len(t, page2.Groups, 1)
	assert.Equal(t, inventory.SeverityOK, page2.Groups[0].Severity)
}

func TestListGroups_FiltroStockBajoLocal(t *testing.T) {
	f := newFixture(escenario())
	res, err := f.uc.ListGroups(context.Background(), stock.ListInput{LowStock: true, PageSize: iptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 2, res.View.TotalUnits)
	for _, g := range res.Groups {
		assert.NotEqual(t, inventory.SeverityOK, g.Severity)
	}
}

func TestListGroups_PaginacionServidor(t *testing.T) {
	f := newFixture(escenario())
	f.source.meta = &inventory.PageMeta{Total: 40, Page: 3, Limit: 4, TotalPages: 10, HasNext: true, HasPrev: true}

	res, err := f.uc.ListGroups(context.Background(), stock.ListInput{
		ServerPaginate: true, Page: 3, PageSize: iptr(4), LowStock: true,
	})
	require.NoError(t, err)

	call := f.source.calls[0]
	assert.Equal(t, 4, call.Limit)
	assert.Equal(t, 3, call.Page)
	require.NotNil(t, call.LowStockThreshold, "el filtro viaja a la fuente")
	assert.Equal(t, 5, *call.LowStockThreshold)

	assert.Equal(t, inventory.ModeServer, res.View.Mode)
	assert.Equal(t, 3, res.View.CurrentPage)
	assert.Equal(t, 10, res.View.TotalPages)
	assert.Len(t, res.Groups, 3, "sin recorte local ni filtro local en modo servidor")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Pagination.WithLabelValues("server")))
}

func TestListGroups_PageSizeInvalido(t *testing.T) {
	f := newFixture(escenario())
	_, err := f.uc.ListGroups(context.Background(), stock.ListInput{PageSize: iptr(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Empty(t, f.source.calls, "no se consulta la fuente con argumentos inválidos")
}

func TestListGroups_PageSizeSeAcotaAlMaximo(t *testing.T) {
	f := newFixture(escenario())
	res, err := f.uc.ListGroups(context.Background(), stock.ListInput{PageSize: iptr(500)})
	require.NoError(t, err)
	assert.Len(t, res.Groups, 3)
	assert.Equal(t, 1, res.View.TotalPages)
}

func TestListGroups_ErrorDeFuente(t *testing.T) {
	f := newFixture(nil)
	f.source.err = errors.New("db caída")
	_, err := f.uc.ListGroups(context.Background(), stock.ListInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db caída")
}

func TestListGroups_SnapshotConFilaRepetidaEsInconsistente(t *testing.T) {
	records := append(escenario(), rec(1, 1, 10, 3))
	f := newFixture(records)

	_, err := f.uc.ListGroups(context.Background(), stock.ListInput{})
	assert.ErrorIs(t, err, domain.ErrInconsistentState)
}

func TestListGroups_SinVerificacionNoComprueba(t *testing.T) {
	records := append(escenario(), rec(1, 1, 10, 3))
	source := &fakeSource{records: records}
	uc := stock.NewStockUseCase(source, &fakeSink{}, fakeCatalog{}, &fakeSheets{}, &fakeTickets{}, stock.Settings{
		DefaultThreshold: 5, AlertThreshold: 2, PageSize: 2, MaxPageSize: 50,
	}, logger.Nop(), metrics.New(prometheus.NewRegistry()))

	res, err := uc.ListGroups(context.Background(), stock.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Groups[0].Group.CantidadTotal())
}

// ──────────────────────────────────────────────────────────────────────────────
// Alerts
// ──────────────────────────────────────────────────────────────────────────────

func TestAlerts_UsaUmbralPropioYCriticosPrimero(t *testing.T) {
	records := append(escenario(), rec(5, 3, 10, 1))
	f := newFixture(records)

	groups, threshold, err := f.uc.Alerts(context.Background(), stock.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, threshold)
	require.Len(t, groups, 2, "con umbral 2 el grupo de 5 unidades no es alerta")
	assert.Equal(t, inventory.SeverityCritical, groups[0].Severity)
	assert.Equal(t, inventory.SeverityLow, groups[1].Severity)
	assert.Equal(t, 1, groups[1].Group.CantidadTotal())
}

// ──────────────────────────────────────────────────────────────────────────────
// Duplicate
// ──────────────────────────────────────────────────────────────────────────────

func keyProd1Local10() inventory.GroupKey {
	return inventory.GroupKey{ProductoID: i64(1), LocalID: i64(10), LugarID: i64(100), EstadoID: i64(1), EnExhibicion: bptr(true)}
}

func TestDuplicate_Aplica(t *testing.T) {
	f := newFixture(escenario())
	out, err := f.uc.Duplicate(context.Background(), stock.DuplicateInput{
		Key: keyProd1Local10(), NewName: "Camisa azul", CopyQuantities: true, UserID: "u-7",
	})
	require.NoError(t, err)
	require.Len(t, f.sink.payloads, 1)

	p := f.sink.payloads[0]
	assert.Equal(t, inventory.ScopeSourceCombination, p.Scope)
	assert.Equal(t, "u-7", p.RequestedBy)
	require.Len(t, p.Lines, 2)
	assert.Equal(t, 3, p.Lines[0].Cantidad)
	assert.Equal(t, 2, p.Lines[1].Cantidad)
	assert.Equal(t, int64(99), out.Result.NewProductoID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DuplicationPlans.WithLabelValues(metrics.ResultApplied)))
}

func TestDuplicate_NombreInvalidoNoLlegaALaCapaDeMutacion(t *testing.T) {
	f := newFixture(escenario())
	for _, name := range []string{"", strings.Repeat("x", 101)} {
		_, err := f.uc.Duplicate(context.Background(), stock.DuplicateInput{Key: keyProd1Local10(), NewName: name})
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Empty(t, f.sink.payloads)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.DuplicationPlans.WithLabelValues(metrics.ResultRejected)))
}

func TestDuplicate_GrupoInexistenteEsGrupoVacio(t *testing.T) {
	f := newFixture(escenario())
	key := keyProd1Local10()
	key.LugarID = nil
	_, err := f.uc.Duplicate(context.Background(), stock.DuplicateInput{Key: key, NewName: "Copia"})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.CodeEmptyGroup, ve.Code)
	assert.Empty(t, f.sink.payloads)
}

func TestDuplicate_ErrorDeMutacion(t *testing.T) {
	f := newFixture(escenario())
	f.sink.err = errors.New("tx abortada")
	_, err := f.uc.Duplicate(context.Background(), stock.DuplicateInput{Key: keyProd1Local10(), NewName: "Copia"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DuplicationPlans.WithLabelValues(metrics.ResultFailed)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Export / Tickets
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_UnaFilaPorRegistroEnOrdenDeGrupos(t *testing.T) {
	records := []entity.StockRecord{rec(1, 1, 10, 3), rec(2, 2, 10, 10), rec(3, 1, 10, 2)}
	f := newFixture(records)

	data, filename, err := f.uc.Export(context.Background(), stock.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	require.Len(t, f.sheets.rows, 3)
	assert.Equal(t, 1.0, *f.sheets.rows[0].ID)
	assert.Equal(t, 3.0, *f.sheets.rows[1].ID, "las filas del mismo grupo salen juntas")
	assert.Equal(t, 2.0, *f.sheets.rows[2].ID)
}

func TestTickets_UnaEtiquetaPorGrupoVisible(t *testing.T) {
	f := newFixture(escenario())
	pdf, err := f.uc.Tickets(context.Background(), stock.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)

	require.Len(t, f.tickets.tickets, 2)
	first := f.tickets.tickets[0]
	assert.Equal(t, "SKU-A", first.SKU)
	assert.Equal(t, "Centro", first.Local)
	assert.Equal(t, "Vitrina", first.Lugar)
	assert.Equal(t, 5, first.Cantidad)
	assert.True(t, decimal.NewFromInt(25000).Equal(first.Precio))
}

func TestTickets_PaginaVacia(t *testing.T) {
	f := newFixture(nil)
	_, err := f.uc.Tickets(context.Background(), stock.ListInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
