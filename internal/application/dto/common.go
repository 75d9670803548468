package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// PaginationResponse navegación uniforme, sin importar si paginó el servidor o el cliente.
type PaginationResponse struct {
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	HasPrev     bool   `json:"has_prev"`
	HasNext     bool   `json:"has_next"`
	TotalUnits  int    `json:"total_units"`
	Mode        string `json:"mode"`
}
