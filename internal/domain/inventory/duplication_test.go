package inventory_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
)

func sourceGroup() entity.InventoryGroup {
	return inventory.Group([]entity.StockRecord{
		rec(11, 7, 10, 100, 1, true, 3),
		rec(12, 7, 10, 100, 1, true, 8),
	})[0]
}

func validationCode(t *testing.T, err error) string {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "se esperaba *domain.ValidationError, se obtuvo %v", err)
	return ve.Code
}

func TestPlan_RechazaNombreVacio(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		payload, err := inventory.Plan(inventory.DuplicationRequest{SourceGroup: sourceGroup(), NewName: name})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, domain.CodeNameRequired, validationCode(t, err))
		assert.Empty(t, payload.Lines, "no se produce payload")
	}
}

func TestPlan_RechazaNombreLargo(t *testing.T) {
	_, err := inventory.Plan(inventory.DuplicationRequest{SourceGroup: sourceGroup(), NewName: strings.Repeat("x", 101)})
	require.Error(t, err)
	assert.Equal(t, domain.CodeNameTooLong, validationCode(t, err))

	// 100 caracteres multibyte siguen siendo válidos
	_, err = inventory.Plan(inventory.DuplicationRequest{SourceGroup: sourceGroup(), NewName: strings.Repeat("ñ", 100)})
	assert.NoError(t, err)
}

func TestPlan_RechazaGrupoVacio(t *testing.T) {
	_, err := inventory.Plan(inventory.DuplicationRequest{SourceGroup: entity.InventoryGroup{Key: "x"}, NewName: "Copia"})
	require.Error(t, err)
	assert.Equal(t, domain.CodeEmptyGroup, validationCode(t, err))
}

func TestPlan_OrdenDeValidacion_GanaLaPrimera(t *testing.T) {
	_, err := inventory.Plan(inventory.DuplicationRequest{SourceGroup: entity.InventoryGroup{}, NewName: ""})
	assert.Equal(t, domain.CodeNameRequired, validationCode(t, err))

	_, err = inventory.Plan(inventory.DuplicationRequest{SourceGroup: entity.InventoryGroup{}, NewName: strings.Repeat("a", 150)})
	assert.Equal(t, domain.CodeNameTooLong, validationCode(t, err))
}

func TestPlan_CantidadesEnCero(t *testing.T) {
	payload, err := inventory.Plan(inventory.DuplicationRequest{
		SourceGroup:    sourceGroup(),
		NewName:        "Camisa copia",
		CopyQuantities: false,
	})
	require.NoError(t, err)
	require.Len(t, payload.Lines, 2)
	for _, l := range payload.Lines {
		assert.Equal(t, 0, l.Cantidad)
	}
}

func TestPlan_CopiaCantidades(t *testing.T) {
	src := sourceGroup()
	payload, err := inventory.Plan(inventory.DuplicationRequest{
		SourceGroup:    src,
		NewName:        "Camisa copia",
		CopyQuantities: true,
	})
	require.NoError(t, err)
	require.Len(t, payload.Lines, len(src.Items))
	for i, l := range payload.Lines {
		assert.Equal(t, src.Items[i].ID, l.SourceRecordID)
		assert.Equal(t, src.Items[i].Cantidad, l.Cantidad)
	}
}

func TestPlan_SinDestinos_UsaCombinacionOrigen(t *testing.T) {
	payload, err := inventory.Plan(inventory.DuplicationRequest{SourceGroup: sourceGroup(), NewName: "  Copia  "})
	require.NoError(t, err)

	assert.Equal(t, inventory.ScopeSourceCombination, payload.Scope)
	assert.Equal(t, "Copia", payload.NewName)
	assert.True(t, payload.GenerateSKU)
	assert.Equal(t, "SKU-11", payload.BaseSKU)
	require.NotNil(t, payload.Origin)
	assert.Equal(t, int64(10), *payload.Origin.LocalID)
	assert.Equal(t, int64(100), *payload.Origin.LugarID)
	assert.Equal(t, int64(1), *payload.Origin.EstadoID)
	assert.Nil(t, payload.TargetLocations)
	assert.Equal(t, int64(7), *payload.SourceProductoID)
}

func TestPlan_ConDestinos_DelegaResolucion(t *testing.T) {
	payload, err := inventory.Plan(inventory.DuplicationRequest{
		SourceGroup:     sourceGroup(),
		NewName:         "Copia",
		TargetLocations: []int64{30, 20, 30},
	})
	require.NoError(t, err)

	assert.Equal(t, inventory.ScopeTargetLocations, payload.Scope)
	assert.Equal(t, []int64{20, 30}, payload.TargetLocations)
	assert.Nil(t, payload.Origin)
}

func TestPlan_NoModificaElGrupoOrigen(t *testing.T) {
	src := sourceGroup()
	before := inventory.Group(src.Items)[0]

	payload, err := inventory.Plan(inventory.DuplicationRequest{SourceGroup: src, NewName: "Copia"})
	require.NoError(t, err)
	*payload.Origin.LocalID = 999
	*payload.SourceProductoID = 999

	assert.Equal(t, before, src)
	assert.Equal(t, int64(10), *src.LocalID)
	assert.Equal(t, 11, src.CantidadTotal())
}
