package inventory

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// MaxDuplicateNameLength longitud máxima (en caracteres) del nombre del producto duplicado.
const MaxDuplicateNameLength = 100

// DuplicationScope alcance del plan de duplicación.
type DuplicationScope string

const (
	// ScopeSourceCombination replica solo en la combinación (local, lugar, estado) del grupo origen.
	ScopeSourceCombination DuplicationScope = "source_combination"
	// ScopeTargetLocations replica en cada local destino; lugar/estado los resuelve la capa externa.
	ScopeTargetLocations DuplicationScope = "target_locations"
)

// DuplicationRequest solicitud efímera de duplicación. SourceGroup es de solo lectura.
type DuplicationRequest struct {
	SourceGroup     entity.InventoryGroup
	NewName         string
	CopyQuantities  bool
	TargetLocations []int64
}

// Combination terna (local, lugar, estado) donde vive una fila.
type Combination struct {
	LocalID  *int64
	LugarID  *int64
	EstadoID *int64
}

// ClonedLine una fila a crear por cada fila del grupo origen.
type ClonedLine struct {
	SourceRecordID int64
	Cantidad       int
	Observaciones  string
}

// DuplicationPayload forma del pedido que ejecuta la capa de mutación. El planificador
// no lo envía; solo lo construye.
type DuplicationPayload struct {
	SourceProductoID *int64
	NewName          string
	BaseSKU          string
	GenerateSKU      bool
	CopyQuantities   bool
	EnExhibicion     *bool
	Scope            DuplicationScope
	Origin           *Combination // solo en ScopeSourceCombination
	TargetLocations  []int64      // solo en ScopeTargetLocations, ordenados y sin repetidos
	Lines            []ClonedLine
	// RequestedBy usuario que pidió la copia; lo completa quien invoca, no el planificador.
	RequestedBy string
}

// Plan valida la solicitud y arma el payload. Reglas en orden, gana la primera que falla:
// nombre vacío, nombre de más de 100 caracteres, grupo origen sin filas.
func Plan(req DuplicationRequest) (DuplicationPayload, error) {
	name := norm.NFC.String(strings.TrimSpace(req.NewName))
	if name == "" {
		return DuplicationPayload{}, domain.NewValidationError("new_name", domain.CodeNameRequired, "el nombre es obligatorio")
	}
	if utf8.RuneCountInString(name) > MaxDuplicateNameLength {
		return DuplicationPayload{}, domain.NewValidationError("new_name", domain.CodeNameTooLong, "el nombre no puede superar 100 caracteres")
	}
	src := req.SourceGroup
	if len(src.Items) == 0 {
		return DuplicationPayload{}, domain.NewValidationError("source_group", domain.CodeEmptyGroup, "el grupo origen no tiene filas para duplicar")
	}

	lines := make([]ClonedLine, len(src.Items))
	for i, it := range src.Items {
		qty := 0
		if req.CopyQuantities {
			qty = it.Cantidad
		}
		lines[i] = ClonedLine{
			SourceRecordID: it.ID,
			Cantidad:       qty,
			Observaciones:  it.Observaciones,
		}
	}

	payload := DuplicationPayload{
		SourceProductoID: copyID(src.ProductoID),
		NewName:          name,
		BaseSKU:          baseSKU(src.Items),
		GenerateSKU:      true,
		CopyQuantities:   req.CopyQuantities,
		EnExhibicion:     copyBool(src.EnExhibicion),
		Lines:            lines,
	}

	targets := uniqueSorted(req.TargetLocations)
	if len(targets) == 0 {
		payload.Scope = ScopeSourceCombination
		payload.Origin = &Combination{
			LocalID:  copyID(src.LocalID),
			LugarID:  copyID(src.LugarID),
			EstadoID: copyID(src.EstadoID),
		}
		return payload, nil
	}
	payload.Scope = ScopeTargetLocations
	payload.TargetLocations = targets
	return payload, nil
}

// baseSKU primer SKU no vacío del grupo; la capa de mutación le añade un sufijo nuevo.
func baseSKU(items []entity.StockRecord) string {
	for _, it := range items {
		if s := strings.TrimSpace(it.CodigoSKU); s != "" {
			return s
		}
	}
	return ""
}

func uniqueSorted(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func copyID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
