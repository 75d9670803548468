package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// nullToken representa un componente nulo en la clave serializada. No colisiona con
// ningún id numérico ni con los valores 1/0 de exhibición.
const nullToken = "-"

// GroupKey identidad compuesta de un grupo lógico de inventario.
// EnExhibicion se normaliza a 1/0 antes de comparar.
type GroupKey struct {
	ProductoID   *int64
	LocalID      *int64
	LugarID      *int64
	EstadoID     *int64
	EnExhibicion *bool
}

// KeyOf extrae la clave de agrupación de una fila.
func KeyOf(r entity.StockRecord) GroupKey {
	return GroupKey{
		ProductoID:   r.ProductoID,
		LocalID:      r.LocalID,
		LugarID:      r.LugarID,
		EstadoID:     r.EstadoID,
		EnExhibicion: r.EnExhibicion,
	}
}

// String serializa la clave con orden fijo de componentes: producto|local|lugar|estado|exhibicion.
func (k GroupKey) String() string {
	var b strings.Builder
	writeID(&b, k.ProductoID)
	b.WriteByte('|')
	writeID(&b, k.LocalID)
	b.WriteByte('|')
	writeID(&b, k.LugarID)
	b.WriteByte('|')
	writeID(&b, k.EstadoID)
	b.WriteByte('|')
	switch {
	case k.EnExhibicion == nil:
		b.WriteString(nullToken)
	case *k.EnExhibicion:
		b.WriteByte('1')
	default:
		b.WriteByte('0')
	}
	return b.String()
}

func writeID(b *strings.Builder, id *int64) {
	if id == nil {
		b.WriteString(nullToken)
		return
	}
	b.WriteString(strconv.FormatInt(*id, 10))
}

// Group agrupa las filas en una sola pasada. El orden de los grupos es el orden en que
// aparece por primera vez cada clave; las filas de cada grupo conservan el orden de origen.
// Cada llamada construye grupos nuevos: nunca reutiliza ni parchea resultados anteriores.
func Group(records []entity.StockRecord) []entity.InventoryGroup {
	groups := make([]entity.InventoryGroup, 0)
	index := make(map[string]int, len(records))

	for _, r := range records {
		k := KeyOf(r)
		key := k.String()
		if i, ok := index[key]; ok {
			groups[i].Items = append(groups[i].Items, r)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, entity.InventoryGroup{
			Key:          key,
			ProductoID:   k.ProductoID,
			LocalID:      k.LocalID,
			LugarID:      k.LugarID,
			EstadoID:     k.EstadoID,
			EnExhibicion: k.EnExhibicion,
			Items:        []entity.StockRecord{r},
		})
	}
	return groups
}

// FindGroup busca un grupo por su clave serializada.
func FindGroup(groups []entity.InventoryGroup, key string) (entity.InventoryGroup, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return entity.InventoryGroup{}, false
}

// VerifyPartition comprueba los grupos contra el snapshot del que salieron: cada fila del
// snapshot aparece en exactamente un grupo y la suma de los totales iguala la suma de las filas.
func VerifyPartition(records []entity.StockRecord, groups []entity.InventoryGroup) error {
	expected := make(map[int64]int, len(records))
	sumRecords := 0
	for _, r := range records {
		expected[r.ID]++
		sumRecords += r.Cantidad
	}
	for id, n := range expected {
		if n > 1 {
			return fmt.Errorf("%w: la fila %d aparece %d veces en el snapshot", domain.ErrInconsistentState, id, n)
		}
	}

	seen := make(map[int64]string, len(records))
	sumGroups := 0
	for _, g := range groups {
		for _, it := range g.Items {
			if _, ok := expected[it.ID]; !ok {
				return fmt.Errorf("%w: el grupo %s contiene la fila %d que no está en el snapshot",
					domain.ErrInconsistentState, g.Key, it.ID)
			}
			if prev, dup := seen[it.ID]; dup {
				return fmt.Errorf("%w: la fila %d está en los grupos %s y %s",
					domain.ErrInconsistentState, it.ID, prev, g.Key)
			}
			seen[it.ID] = g.Key
		}
		sumGroups += g.CantidadTotal()
	}
	if len(seen) != len(expected) {
		return fmt.Errorf("%w: %d filas del snapshot no quedaron en ningún grupo",
			domain.ErrInconsistentState, len(expected)-len(seen))
	}
	if sumGroups != sumRecords {
		return fmt.Errorf("%w: los grupos suman %d y las filas %d",
			domain.ErrInconsistentState, sumGroups, sumRecords)
	}
	return nil
}
