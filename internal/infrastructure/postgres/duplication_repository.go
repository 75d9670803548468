package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.DuplicationRepository = (*DuplicationRepo)(nil)

// maxSKULen largo de productos.sku (VARCHAR(64)); también acota el codigo_sku de las filas clonadas.
const maxSKULen = 64

// skuSuffixLen "-" + 8 hex.
const skuSuffixLen = 9

// DuplicationRepo capa de mutación: aplica un payload de duplicación en una sola transacción.
type DuplicationRepo struct {
	tx *TxRunner
}

// NewDuplicationRepository construye el adaptador sobre el runner de transacciones.
func NewDuplicationRepository(tx *TxRunner) *DuplicationRepo {
	return &DuplicationRepo{tx: tx}
}

// ApplyDuplication crea el producto copia (UUID y SKU nuevos) y sus filas de stock.
//
// En ScopeSourceCombination cada línea se inserta en la combinación de origen. En ScopeTargetLocations
// cada línea se replica en cada local destino: el lugar es el de menor id de ese local (NULL si no tiene)
// y el estado es el de la fila origen.
func (r *DuplicationRepo) ApplyDuplication(ctx context.Context, p inventory.DuplicationPayload) (*repository.DuplicationResult, error) {
	if p.SourceProductoID == nil {
		return nil, fmt.Errorf("%w: el grupo origen no tiene producto", domain.ErrInvalidInput)
	}

	var result repository.DuplicationResult
	err := r.tx.Run(ctx, func(q Querier) error {
		var (
			srcSKU string
			precio decimal.Decimal
		)
		err := q.QueryRow(ctx,
			`SELECT sku, precio FROM productos WHERE id = $1 FOR SHARE`, *p.SourceProductoID,
		).Scan(&srcSKU, &precio)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: producto %d", domain.ErrNotFound, *p.SourceProductoID)
			}
			return fmt.Errorf("get producto origen: %w", err)
		}

		base := p.BaseSKU
		if base == "" {
			base = srcSKU
		}
		newUUID := uuid.New()
		newSKU := truncateRunes(base, maxSKULen)
		if p.GenerateSKU {
			newSKU = skuWithSuffix(base, newUUID)
		}

		err = q.QueryRow(ctx, `
			INSERT INTO productos (uuid, nombre, sku, precio, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), now(), now())
			RETURNING id`,
			newUUID, p.NewName, newSKU, precio, p.RequestedBy,
		).Scan(&result.NewProductoID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: el SKU %s ya existe", domain.ErrConflict, newSKU)
			}
			if isValueTooLong(err) {
				return fmt.Errorf("%w: datos del producto copia demasiado largos", domain.ErrInvalidInput)
			}
			return fmt.Errorf("insert producto copia: %w", err)
		}
		result.NewSKU = newSKU

		n, err := insertClonedLines(ctx, q, p, result.NewProductoID, newSKU)
		if err != nil {
			return err
		}
		result.CreatedRecords = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func insertClonedLines(ctx context.Context, q Querier, p inventory.DuplicationPayload, productoID int64, sku string) (int, error) {
	created := 0
	switch p.Scope {
	case inventory.ScopeSourceCombination:
		origin := p.Origin
		if origin == nil {
			origin = &inventory.Combination{}
		}
		for _, l := range p.Lines {
			_, err := q.Exec(ctx, `
				INSERT INTO stock_items (producto_id, local_id, lugar_id, estado_id, en_exhibicion, cantidad, codigo_sku, observaciones, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`,
				productoID, origin.LocalID, origin.LugarID, origin.EstadoID, p.EnExhibicion, l.Cantidad, sku, l.Observaciones,
			)
			if err != nil {
				return 0, insertLineError(err)
			}
			created++
		}
	case inventory.ScopeTargetLocations:
		for _, localID := range p.TargetLocations {
			for _, l := range p.Lines {
				_, err := q.Exec(ctx, `
					INSERT INTO stock_items (producto_id, local_id, lugar_id, estado_id, en_exhibicion, cantidad, codigo_sku, observaciones, created_at, updated_at)
					VALUES (
						$1, $2,
						(SELECT id FROM lugares WHERE local_id = $2 ORDER BY id LIMIT 1),
						(SELECT estado_id FROM stock_items WHERE id = $3),
						$4, $5, $6, $7, now(), now())`,
					productoID, localID, l.SourceRecordID, p.EnExhibicion, l.Cantidad, sku, l.Observaciones,
				)
				if err != nil {
					return 0, insertLineError(err)
				}
				created++
			}
		}
	default:
		return 0, fmt.Errorf("%w: alcance de duplicación %q", domain.ErrInvalidInput, p.Scope)
	}
	return created, nil
}

func insertLineError(err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: referencia inexistente al clonar stock: %v", domain.ErrInvalidInput, err)
	}
	if isValueTooLong(err) {
		return fmt.Errorf("%w: valor demasiado largo al clonar stock: %v", domain.ErrInvalidInput, err)
	}
	return fmt.Errorf("insert stock item: %w", err)
}

// skuWithSuffix <base>-<8 hex> tomados del UUID del producto nuevo. La base se recorta para
// que el resultado no pase de maxSKULen caracteres.
func skuWithSuffix(base string, id uuid.UUID) string {
	suffix := strings.ReplaceAll(id.String(), "-", "")[:8]
	if base == "" {
		return strings.ToUpper(suffix)
	}
	base = strings.TrimRight(truncateRunes(base, maxSKULen-skuSuffixLen), "-")
	return base + "-" + suffix
}

// truncateRunes corta s a n caracteres (VARCHAR cuenta caracteres, no bytes).
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
