package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/stock"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// StockHandler pantalla de inventario: grilla agrupada, alertas, duplicación, exportación y etiquetas.
type StockHandler struct {
	uc  *stock.StockUseCase
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.StockUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log.Named("stock_handler")}
}

// ListGroups godoc
// @Summary      Grupos de inventario paginados
// @Description  Agrupa las filas por (producto, local, lugar, estado, exhibición), clasifica y pagina.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        producto_id      query  int     false  "Producto"
// @Param        local_id         query  int     false  "Local"
// @Param        lugar_id         query  int     false  "Lugar"
// @Param        estado_id        query  int     false  "Estado"
// @Param        q                query  string  false  "Búsqueda en SKU, observaciones y nombre"
// @Param        sort             query  string  false  "updated_desc | updated_asc | cantidad_asc | cantidad_desc | producto"
// @Param        page             query  int     false  "Página (1..n)"  default(1)
// @Param        page_size        query  int     false  "Grupos por página"
// @Param        threshold        query  int     false  "Umbral de stock bajo"
// @Param        low_stock        query  bool    false  "Solo grupos LOW o CRITICAL"
// @Param        server_paginate  query  bool    false  "Paginar en la base de datos"
// @Success      200  {object}  dto.StockGroupsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/groups [get]
func (h *StockHandler) ListGroups(c *fiber.Ctx) error {
	in, resp := h.listInput(c)
	if resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	res, err := h.uc.ListGroups(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.StockGroupsResponse{
		Groups:     toGroupResponses(res.Groups),
		Pagination: toPaginationResponse(res.View),
		Threshold:  res.Threshold,
	})
}

// Alerts godoc
// @Summary      Grupos en alerta
// @Description  Grupos LOW y CRITICAL según el umbral de alertas; los críticos primero.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        local_id   query  int  false  "Local"
// @Param        threshold  query  int  false  "Umbral (por defecto STOCK_ALERT_THRESHOLD)"
// @Success      200  {object}  dto.StockAlertsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/alerts [get]
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	in, resp := h.listInput(c)
	if resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	groups, threshold, err := h.uc.Alerts(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.StockAlertsResponse{
		Total:     len(groups),
		Threshold: threshold,
		Groups:    toGroupResponses(groups),
	})
}

// Duplicate godoc
// @Summary      Duplicar grupo de inventario
// @Description  Crea un producto nuevo (SKU nuevo) con las filas del grupo origen, en su combinación o en los locales destino.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DuplicateGroupRequest  true  "Grupo origen y opciones"
// @Success      201   {object}  dto.DuplicateGroupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/groups/duplicate [post]
func (h *StockHandler) Duplicate(c *fiber.Ctx) error {
	var in dto.DuplicateGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validateStruct(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
	}

	out, err := h.uc.Duplicate(c.Context(), stock.DuplicateInput{
		Key: inventory.GroupKey{
			ProductoID:   in.ProductoID,
			LocalID:      in.LocalID,
			LugarID:      in.LugarID,
			EstadoID:     in.EstadoID,
			EnExhibicion: in.EnExhibicion,
		},
		NewName:         in.NewName,
		CopyQuantities:  in.CopyQuantities,
		TargetLocations: in.TargetLocations,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DuplicateGroupResponse{
		NewProductoID:   out.Result.NewProductoID,
		NewSKU:          out.Result.NewSKU,
		CreatedRecords:  out.Result.CreatedRecords,
		Scope:           string(out.Payload.Scope),
		TargetLocations: out.Payload.TargetLocations,
	})
}

// Export godoc
// @Summary      Exportar stock a Excel
// @Description  Una fila por registro de stock de la vista filtrada, en el orden de los grupos.
// @Tags         stock
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        local_id   query  int   false  "Local"
// @Param        low_stock  query  bool  false  "Solo grupos LOW o CRITICAL"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/export [get]
func (h *StockHandler) Export(c *fiber.Ctx) error {
	in, resp := h.listInput(c)
	if resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	data, filename, err := h.uc.Export(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Tickets godoc
// @Summary      Etiquetas con código de barras
// @Description  PDF con una etiqueta (SKU en Code128) por cada grupo de la página pedida.
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        page       query  int  false  "Página"  default(1)
// @Param        page_size  query  int  false  "Grupos por página"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/groups/tickets [get]
func (h *StockHandler) Tickets(c *fiber.Ctx) error {
	in, resp := h.listInput(c)
	if resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}
	data, err := h.uc.Tickets(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="etiquetas.pdf"`)
	return c.Send(data)
}

// listInput lee y valida los query params comunes.
func (h *StockHandler) listInput(c *fiber.Ctx) (stock.ListInput, *dto.ErrorResponse) {
	var (
		q      dto.StockQuery
		fields = map[string]string{}
	)
	q.ProductoID = queryInt64(c, "producto_id", fields)
	q.LocalID = queryInt64(c, "local_id", fields)
	q.LugarID = queryInt64(c, "lugar_id", fields)
	q.EstadoID = queryInt64(c, "estado_id", fields)
	q.Q = c.Query("q")
	q.Sort = c.Query("sort")
	if p := queryInt(c, "page", fields); p != nil {
		q.Page = *p
	}
	q.PageSize = queryInt(c, "page_size", fields)
	q.Threshold = queryInt(c, "threshold", fields)
	q.LowStock = c.QueryBool("low_stock", false)
	q.ServerPaginate = c.QueryBool("server_paginate", false)

	if len(fields) > 0 {
		return stock.ListInput{}, &dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos", Fields: fields}
	}
	if verrs := validateStruct(q); verrs != nil {
		return stock.ListInput{}, &dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos", Fields: verrs}
	}

	return stock.ListInput{
		ProductoID:     q.ProductoID,
		LocalID:        q.LocalID,
		LugarID:        q.LugarID,
		EstadoID:       q.EstadoID,
		Query:          q.Q,
		Sort:           q.Sort,
		Page:           q.Page,
		PageSize:       q.PageSize,
		Threshold:      q.Threshold,
		LowStock:       q.LowStock,
		ServerPaginate: q.ServerPaginate,
	}, nil
}

func queryInt64(c *fiber.Ctx, key string, fields map[string]string) *int64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fields[key] = "debe ser un entero"
		return nil
	}
	return &v
}

func queryInt(c *fiber.Ctx, key string, fields map[string]string) *int {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fields[key] = "debe ser un entero"
		return nil
	}
	return &v
}

func toGroupResponses(groups []inventory.ClassifiedGroup) []dto.InventoryGroupResponse {
	out := make([]dto.InventoryGroupResponse, len(groups))
	for i, cg := range groups {
		g := cg.Group
		items := make([]dto.StockRecordResponse, len(g.Items))
		for j, it := range g.Items {
			items[j] = dto.StockRecordResponse{
				ID:            it.ID,
				Cantidad:      it.Cantidad,
				CodigoSKU:     it.CodigoSKU,
				Observaciones: it.Observaciones,
				CreatedAt:     it.CreatedAt,
				UpdatedAt:     it.UpdatedAt,
			}
		}
		out[i] = dto.InventoryGroupResponse{
			Key:           g.Key,
			ProductoID:    g.ProductoID,
			LocalID:       g.LocalID,
			LugarID:       g.LugarID,
			EstadoID:      g.EstadoID,
			EnExhibicion:  g.EnExhibicion,
			CantidadTotal: g.CantidadTotal(),
			Severity:      string(cg.Severity),
			Items:         items,
		}
	}
	return out
}

func toPaginationResponse(v inventory.PaginationView) dto.PaginationResponse {
	return dto.PaginationResponse{
		CurrentPage: v.CurrentPage,
		TotalPages:  v.TotalPages,
		HasPrev:     v.HasPrev,
		HasNext:     v.HasNext,
		TotalUnits:  v.TotalUnits,
		Mode:        string(v.Mode),
	}
}
