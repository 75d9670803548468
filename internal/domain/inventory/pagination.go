package inventory

import (
	"fmt"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// PageMeta metadatos de paginación que entrega la fuente cuando pagina las filas crudas.
// TotalPages puede venir en 0; en ese caso se deriva de Total y Limit.
type PageMeta struct {
	Total      int
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// PageSource indica de qué forma llegó la respuesta de la fuente: Paginated o Unpaginated.
type PageSource interface {
	pageSource()
}

// Paginated la fuente ya paginó; sus metadatos son la verdad.
type Paginated struct {
	Meta PageMeta
}

// Unpaginated la fuente devolvió un arreglo plano sin metadatos.
type Unpaginated struct{}

func (Paginated) pageSource()   {}
func (Unpaginated) pageSource() {}

// PaginationMode modo que produjo la vista (solo informativo).
type PaginationMode string

const (
	ModeServer PaginationMode = "server"
	ModeClient PaginationMode = "client"
)

// PaginationView única estructura que se entrega a presentación, sin importar el modo.
type PaginationView struct {
	VisibleGroups []entity.InventoryGroup
	CurrentPage   int
	TotalPages    int
	HasPrev       bool
	HasNext       bool
	TotalUnits    int
	Mode          PaginationMode
}

// Reconcile decide la página visible.
//   - Paginated: confía en los metadatos tal cual y no vuelve a recortar allGroups.
//   - Unpaginated (o nil): calcula totalPages, acota page a [1, totalPages] y recorta localmente.
//
// pageSize <= 0 devuelve ErrInvalidArgument. Una página fuera de rango no es error: se acota.
func Reconcile(allGroups []entity.InventoryGroup, source PageSource, page, pageSize int) (PaginationView, error) {
	if pageSize <= 0 {
		return PaginationView{}, fmt.Errorf("%w: page_size debe ser mayor que 0 (recibido %d)", domain.ErrInvalidArgument, pageSize)
	}

	switch src := source.(type) {
	case Paginated:
		return serverView(allGroups, src.Meta, pageSize), nil
	case *Paginated:
		if src == nil {
			return clientView(allGroups, page, pageSize), nil
		}
		return serverView(allGroups, src.Meta, pageSize), nil
	case Unpaginated, *Unpaginated, nil:
		return clientView(allGroups, page, pageSize), nil
	default:
		return PaginationView{}, fmt.Errorf("%w: origen de paginación desconocido %T", domain.ErrInvalidArgument, source)
	}
}

func serverView(groups []entity.InventoryGroup, meta PageMeta, pageSize int) PaginationView {
	totalPages := meta.TotalPages
	if totalPages <= 0 {
		limit := meta.Limit
		if limit <= 0 {
			limit = pageSize
		}
		totalPages = ceilDiv(meta.Total, limit)
		if totalPages < 1 {
			totalPages = 1
		}
	}
	return PaginationView{
		VisibleGroups: groups,
		CurrentPage:   clamp(meta.Page, 1, totalPages),
		TotalPages:    totalPages,
		HasPrev:       meta.HasPrev,
		HasNext:       meta.HasNext,
		TotalUnits:    meta.Total,
		Mode:          ModeServer,
	}
}

func clientView(groups []entity.InventoryGroup, page, pageSize int) PaginationView {
	totalPages := ceilDiv(len(groups), pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	page = clamp(page, 1, totalPages)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(groups) {
		start = len(groups)
	}
	if end > len(groups) {
		end = len(groups)
	}
	visible := make([]entity.InventoryGroup, end-start)
	copy(visible, groups[start:end])

	return PaginationView{
		VisibleGroups: visible,
		CurrentPage:   page,
		TotalPages:    totalPages,
		HasPrev:       page > 1,
		HasNext:       page < totalPages,
		TotalUnits:    len(groups),
		Mode:          ModeClient,
	}
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
