package inventory

import "github.com/jhoicas/inventario-stock/internal/domain/entity"

// Severity nivel de alerta de un grupo según su cantidad total.
type Severity string

const (
	// SeverityOK total por encima del umbral.
	SeverityOK Severity = "OK"
	// SeverityLow total positivo menor o igual al umbral.
	SeverityLow Severity = "LOW"
	// SeverityCritical sin unidades.
	SeverityCritical Severity = "CRITICAL"
)

// Classify asigna CRITICAL si el total es 0, LOW si 0 < total <= threshold y OK en otro caso.
// El umbral siempre lo pasa el llamador; la función no lee configuración.
func Classify(g entity.InventoryGroup, threshold int) Severity {
	total := g.CantidadTotal()
	switch {
	case total == 0:
		return SeverityCritical
	case total <= threshold:
		return SeverityLow
	default:
		return SeverityOK
	}
}

// ClassifiedGroup un grupo con la severidad calculada al lado (el grupo no se modifica).
type ClassifiedGroup struct {
	Group    entity.InventoryGroup
	Severity Severity
}

// ClassifyAll clasifica cada grupo con el mismo umbral, conservando el orden.
func ClassifyAll(groups []entity.InventoryGroup, threshold int) []ClassifiedGroup {
	out := make([]ClassifiedGroup, len(groups))
	for i, g := range groups {
		out[i] = ClassifiedGroup{Group: g, Severity: Classify(g, threshold)}
	}
	return out
}

// FilterLowStock devuelve solo los grupos LOW o CRITICAL para el umbral dado.
func FilterLowStock(groups []entity.InventoryGroup, threshold int) []entity.InventoryGroup {
	out := make([]entity.InventoryGroup, 0, len(groups))
	for _, g := range groups {
		if Classify(g, threshold) != SeverityOK {
			out = append(out, g)
		}
	}
	return out
}
