package dto

import "time"

// StockQuery parámetros de GET /api/stock/groups y /api/stock/export.
type StockQuery struct {
	ProductoID     *int64 `query:"producto_id" validate:"omitempty,gt=0"`
	LocalID        *int64 `query:"local_id" validate:"omitempty,gt=0"`
	LugarID        *int64 `query:"lugar_id" validate:"omitempty,gt=0"`
	EstadoID       *int64 `query:"estado_id" validate:"omitempty,gt=0"`
	Q              string `query:"q" validate:"max=200"`
	Sort           string `query:"sort" validate:"omitempty,oneof=updated_desc updated_asc cantidad_asc cantidad_desc producto"`
	Page           int    `query:"page" validate:"gte=0"`
	PageSize       *int   `query:"page_size"`
	Threshold      *int   `query:"threshold" validate:"omitempty,gte=0"`
	LowStock       bool   `query:"low_stock"`
	ServerPaginate bool   `query:"server_paginate"`
}

// StockRecordResponse una fila cruda dentro de un grupo.
type StockRecordResponse struct {
	ID            int64      `json:"id"`
	Cantidad      int        `json:"cantidad"`
	CodigoSKU     string     `json:"codigo_sku"`
	Observaciones string     `json:"observaciones"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// InventoryGroupResponse tarjeta de inventario lógico.
type InventoryGroupResponse struct {
	Key           string                `json:"key"`
	ProductoID    *int64                `json:"producto_id"`
	LocalID       *int64                `json:"local_id"`
	LugarID       *int64                `json:"lugar_id"`
	EstadoID      *int64                `json:"estado_id"`
	EnExhibicion  *bool                 `json:"en_exhibicion"`
	CantidadTotal int                   `json:"cantidad_total"`
	Severity      string                `json:"severity"`
	Items         []StockRecordResponse `json:"items"`
}

// StockGroupsResponse respuesta de GET /api/stock/groups.
type StockGroupsResponse struct {
	Groups     []InventoryGroupResponse `json:"groups"`
	Pagination PaginationResponse       `json:"pagination"`
	Threshold  int                      `json:"threshold"`
}

// StockAlertsResponse respuesta de GET /api/stock/alerts.
type StockAlertsResponse struct {
	Total     int                      `json:"total"`
	Threshold int                      `json:"threshold"`
	Groups    []InventoryGroupResponse `json:"groups"`
}

// DuplicateGroupRequest body de POST /api/stock/groups/duplicate.
// El grupo origen se identifica por sus cinco componentes (nulos permitidos).
type DuplicateGroupRequest struct {
	ProductoID      *int64  `json:"producto_id" validate:"required,gt=0"`
	LocalID         *int64  `json:"local_id"`
	LugarID         *int64  `json:"lugar_id"`
	EstadoID        *int64  `json:"estado_id"`
	EnExhibicion    *bool   `json:"en_exhibicion"`
	NewName         string  `json:"new_name"`
	CopyQuantities  bool    `json:"copy_quantities"`
	TargetLocations []int64 `json:"target_locations" validate:"omitempty,dive,gt=0"`
}

// DuplicateGroupResponse resultado de la duplicación.
type DuplicateGroupResponse struct {
	NewProductoID   int64   `json:"new_producto_id"`
	NewSKU          string  `json:"new_sku"`
	CreatedRecords  int     `json:"created_records"`
	Scope           string  `json:"scope"`
	TargetLocations []int64 `json:"target_locations,omitempty"`
}
