package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/logger"
	"github.com/jhoicas/inventario-stock/pkg/metrics"
)

// Settings umbrales y tamaños de página (vienen de config.StockConfig).
type Settings struct {
	DefaultThreshold int
	AlertThreshold   int
	PageSize         int
	MaxPageSize      int
	// VerifyAggregates activa la comprobación de totales contra filas (solo en development).
	VerifyAggregates bool
}

// StockUseCase orquesta la pantalla de inventario: trae un snapshot de la fuente, lo agrupa,
// clasifica y pagina. Cada llamada reconstruye todo desde el snapshot recién leído.
type StockUseCase struct {
	records repository.StockRecordRepository
	sink    repository.DuplicationRepository
	catalog repository.CatalogRepository
	sheets  SpreadsheetWriter
	tickets TicketRenderer
	cfg     Settings
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	records repository.StockRecordRepository,
	sink repository.DuplicationRepository,
	catalog repository.CatalogRepository,
	sheets SpreadsheetWriter,
	tickets TicketRenderer,
	cfg Settings,
	log *logger.Logger,
	m *metrics.Metrics,
) *StockUseCase {
	return &StockUseCase{
		records: records,
		sink:    sink,
		catalog: catalog,
		sheets:  sheets,
		tickets: tickets,
		cfg:     cfg,
		log:     log.Named("stock"),
		metrics: m,
	}
}

// ListInput parámetros de la grilla. Page/PageSize/Threshold nil = valores por defecto.
type ListInput struct {
	ProductoID     *int64
	LocalID        *int64
	LugarID        *int64
	EstadoID       *int64
	Query          string
	Sort           string
	Page           int
	PageSize       *int
	Threshold      *int
	LowStock       bool
	ServerPaginate bool
}

// GroupsResult vista paginada con la severidad de cada grupo visible.
type GroupsResult struct {
	View      inventory.PaginationView
	Groups    []inventory.ClassifiedGroup
	Threshold int
}

// ListGroups ejecuta el ciclo completo fuente → agrupación → (filtro) → paginación → clasificación.
//
// Con ServerPaginate la fuente pagina filas crudas y el filtro de stock bajo viaja en la consulta;
// sin él, se trae el corte completo y el filtro se aplica localmente antes de paginar.
func (uc *StockUseCase) ListGroups(ctx context.Context, in ListInput) (*GroupsResult, error) {
	threshold := uc.threshold(in.Threshold, uc.cfg.DefaultThreshold)
	pageSize := uc.pageSize(in.PageSize)
	page := in.Page
	if page == 0 {
		page = 1
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page_size debe ser mayor que 0", domain.ErrInvalidArgument)
	}

	filter := in.filter()
	if in.ServerPaginate {
		filter.Page = page
		filter.Limit = pageSize
		if in.LowStock {
			filter.LowStockThreshold = &threshold
		}
	}

	snap, err := uc.records.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar stock: %w", err)
	}

	groups := uc.group(snap.Records)
	if err := uc.verify(snap.Records, groups); err != nil {
		return nil, err
	}

	var source inventory.PageSource = inventory.Unpaginated{}
	if snap.Meta != nil {
		source = inventory.Paginated{Meta: *snap.Meta}
	} else if in.LowStock {
		groups = inventory.FilterLowStock(groups, threshold)
	}

	view, err := inventory.Reconcile(groups, source, page, pageSize)
	if err != nil {
		return nil, err
	}
	uc.metrics.Pagination.WithLabelValues(string(view.Mode)).Inc()

	classified := inventory.ClassifyAll(view.VisibleGroups, threshold)

	uc.log.Debug().
		Int("records", len(snap.Records)).
		Int("groups", len(groups)).
		Int("page", view.CurrentPage).
		Int("total_pages", view.TotalPages).
		Str("mode", string(view.Mode)).
		Msg("ciclo de stock")

	return &GroupsResult{View: view, Groups: classified, Threshold: threshold}, nil
}

// Alerts devuelve los grupos LOW y CRITICAL según el umbral del panel de alertas
// (distinto al de la grilla). Los críticos van primero; dentro de cada nivel se respeta el orden de la fuente.
func (uc *StockUseCase) Alerts(ctx context.Context, in ListInput) ([]inventory.ClassifiedGroup, int, error) {
	threshold := uc.threshold(in.Threshold, uc.cfg.AlertThreshold)

	snap, err := uc.records.List(ctx, in.filter())
	if err != nil {
		return nil, 0, fmt.Errorf("listar stock: %w", err)
	}
	low := inventory.FilterLowStock(uc.group(snap.Records), threshold)
	classified := inventory.ClassifyAll(low, threshold)
	sort.SliceStable(classified, func(i, j int) bool {
		return classified[i].Severity == inventory.SeverityCritical &&
			classified[j].Severity != inventory.SeverityCritical
	})
	return classified, threshold, nil
}

// DuplicateInput identifica el grupo origen y la solicitud.
type DuplicateInput struct {
	Key             inventory.GroupKey
	NewName         string
	CopyQuantities  bool
	TargetLocations []int64
	UserID          string
}

// DuplicateOutput payload planificado y lo que creó la capa de mutación.
type DuplicateOutput struct {
	Payload inventory.DuplicationPayload
	Result  *repository.DuplicationResult
}

// Duplicate reconstruye el grupo origen desde un snapshot fresco, planifica y, solo si el plan
// es válido, lo entrega a la capa de mutación.
func (uc *StockUseCase) Duplicate(ctx context.Context, in DuplicateInput) (*DuplicateOutput, error) {
	snap, err := uc.records.List(ctx, repository.StockFilter{
		ProductoID: in.Key.ProductoID,
		LocalID:    in.Key.LocalID,
		LugarID:    in.Key.LugarID,
		EstadoID:   in.Key.EstadoID,
	})
	if err != nil {
		return nil, fmt.Errorf("listar stock: %w", err)
	}

	source, ok := inventory.FindGroup(inventory.Group(snap.Records), in.Key.String())
	if !ok {
		// grupo sin filas: el planificador lo rechaza (después de validar el nombre)
		source = entity.InventoryGroup{
			Key:          in.Key.String(),
			ProductoID:   in.Key.ProductoID,
			LocalID:      in.Key.LocalID,
			LugarID:      in.Key.LugarID,
			EstadoID:     in.Key.EstadoID,
			EnExhibicion: in.Key.EnExhibicion,
		}
	}

	payload, err := inventory.Plan(inventory.DuplicationRequest{
		SourceGroup:     source,
		NewName:         in.NewName,
		CopyQuantities:  in.CopyQuantities,
		TargetLocations: in.TargetLocations,
	})
	if err != nil {
		uc.metrics.DuplicationPlans.WithLabelValues(metrics.ResultRejected).Inc()
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			uc.log.Info().Str("group", source.Key).Str("code", ve.Code).Msg("duplicación rechazada")
		}
		return nil, err
	}

	payload.RequestedBy = in.UserID
	result, err := uc.sink.ApplyDuplication(ctx, payload)
	if err != nil {
		uc.metrics.DuplicationPlans.WithLabelValues(metrics.ResultFailed).Inc()
		uc.log.Error().Err(err).Str("group", source.Key).Msg("duplicación fallida")
		return nil, fmt.Errorf("aplicar duplicación: %w", err)
	}
	uc.metrics.DuplicationPlans.WithLabelValues(metrics.ResultApplied).Inc()
	uc.log.Info().
		Str("group", source.Key).
		Str("user_id", in.UserID).
		Str("scope", string(payload.Scope)).
		Int64("new_producto_id", result.NewProductoID).
		Str("new_sku", result.NewSKU).
		Int("records", result.CreatedRecords).
		Msg("duplicación aplicada")

	return &DuplicateOutput{Payload: payload, Result: result}, nil
}

// Export genera la hoja de cálculo de la vista filtrada: una fila por registro crudo,
// en el orden en que se muestran los grupos.
func (uc *StockUseCase) Export(ctx context.Context, in ListInput) ([]byte, string, error) {
	threshold := uc.threshold(in.Threshold, uc.cfg.DefaultThreshold)

	snap, err := uc.records.List(ctx, in.filter())
	if err != nil {
		return nil, "", fmt.Errorf("listar stock: %w", err)
	}
	groups := uc.group(snap.Records)
	if in.LowStock {
		groups = inventory.FilterLowStock(groups, threshold)
	}

	names, err := uc.catalog.Names(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("catálogos: %w", err)
	}
	data, err := uc.sheets.WriteStockSheet(inventory.ProjectGroups(groups), names)
	if err != nil {
		return nil, "", fmt.Errorf("generar hoja: %w", err)
	}
	filename := fmt.Sprintf("stock_%s.xlsx", time.Now().Format("20060102_150405"))
	return data, filename, nil
}

// Tickets genera las etiquetas con código de barras de los grupos de la página pedida.
func (uc *StockUseCase) Tickets(ctx context.Context, in ListInput) ([]byte, error) {
	res, err := uc.ListGroups(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(res.Groups) == 0 {
		return nil, fmt.Errorf("%w: no hay grupos en la página solicitada", domain.ErrNotFound)
	}

	ids := make([]int64, 0, len(res.Groups))
	for _, cg := range res.Groups {
		if cg.Group.ProductoID != nil {
			ids = append(ids, *cg.Group.ProductoID)
		}
	}
	productos, err := uc.catalog.ProductosByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("productos: %w", err)
	}
	names, err := uc.catalog.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("catálogos: %w", err)
	}

	tickets := make([]Ticket, 0, len(res.Groups))
	for _, cg := range res.Groups {
		tickets = append(tickets, buildTicket(cg, productos, names))
	}
	return uc.tickets.RenderTickets(ctx, tickets)
}

func buildTicket(cg inventory.ClassifiedGroup, productos map[int64]entity.Producto, names *entity.CatalogNames) Ticket {
	g := cg.Group
	t := Ticket{
		Cantidad: g.CantidadTotal(),
		Severity: cg.Severity,
		Local:    lookup(names.Locales, g.LocalID),
		Lugar:    lookup(names.Lugares, g.LugarID),
		Estado:   lookup(names.Estados, g.EstadoID),
	}
	if g.ProductoID != nil {
		if p, ok := productos[*g.ProductoID]; ok {
			t.Producto = p.Nombre
			t.SKU = p.SKU
			t.Precio = p.Precio
		}
	}
	// el SKU de la fila manda sobre el del catálogo
	for _, it := range g.Items {
		if it.CodigoSKU != "" {
			t.SKU = it.CodigoSKU
			break
		}
	}
	return t
}

func lookup(m map[int64]string, id *int64) string {
	if id == nil || m == nil {
		return ""
	}
	return m[*id]
}

func (uc *StockUseCase) group(records []entity.StockRecord) []entity.InventoryGroup {
	groups := inventory.Group(records)
	uc.metrics.GroupingRecords.Observe(float64(len(records)))
	uc.metrics.GroupsBuilt.Add(float64(len(groups)))
	return groups
}

// verify contrasta los grupos con las filas del snapshot (solo con VerifyAggregates).
func (uc *StockUseCase) verify(records []entity.StockRecord, groups []entity.InventoryGroup) error {
	if !uc.cfg.VerifyAggregates {
		return nil
	}
	if err := inventory.VerifyPartition(records, groups); err != nil {
		uc.log.Error().Err(err).Msg("agregado inconsistente")
		return err
	}
	return nil
}

func (uc *StockUseCase) threshold(override *int, def int) int {
	if override != nil {
		return *override
	}
	return def
}

func (uc *StockUseCase) pageSize(override *int) int {
	if override == nil {
		return uc.cfg.PageSize
	}
	if *override > uc.cfg.MaxPageSize {
		return uc.cfg.MaxPageSize
	}
	return *override
}

func (in ListInput) filter() repository.StockFilter {
	return repository.StockFilter{
		ProductoID: in.ProductoID,
		LocalID:    in.LocalID,
		LugarID:    in.LugarID,
		EstadoID:   in.EstadoID,
		Query:      in.Query,
		Sort:       in.Sort,
	}
}
