package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

func newBatch(qty, remaining int) entity.StockBatch {
	b := entity.StockBatch{
		ID:                "batch-1",
		ProductID:         "prod-1",
		CompanyID:         "comp-1",
		Quantity:          qty,
		RemainingQuantity: remaining,
		CostPrice:         decimal.NewFromInt(100),
		SupplierID:        "sup-1",
		IsCredit:          true,
		Status:            entity.BatchStatusActive,
	}
	b.SyncStatus()
	return b
}

func TestApplyQuantityDelta_DanioSoloBajaRemanente(t *testing.T) {
	out, err := inventory.ApplyQuantityDelta(newBatch(10, 10), -3, inventory.ScenarioDamage)
	require.NoError(t, err)

	assert.Equal(t, 10, out.Quantity, "un daño no modifica la cantidad original")
	assert.Equal(t, 7, out.RemainingQuantity)
	assert.Equal(t, 3, out.DamagedQuantity)
	assert.Equal(t, entity.BatchStatusActive, out.Status)
}

func TestApplyQuantityDelta_DanioPositivoRechazado(t *testing.T) {
	_, err := inventory.ApplyQuantityDelta(newBatch(10, 10), 2, inventory.ScenarioDamage)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestApplyQuantityDelta_AjusteConservaLoUsado(t *testing.T) {
	// 10 recibidas, 4 en remanente: 6 ya usadas
	out, err := inventory.ApplyQuantityDelta(newBatch(10, 4), 5, inventory.ScenarioAdjustment)
	require.NoError(t, err)

	assert.Equal(t, 15, out.Quantity)
	assert.Equal(t, 9, out.RemainingQuantity)
	assert.Equal(t, 6, out.UsedQuantity(), "lo usado antes del ajuste se conserva")
}

func TestApplyQuantityDelta_AjusteNegativoInvalido(t *testing.T) {
	in := newBatch(10, 4)
	out, err := inventory.ApplyQuantityDelta(in, -5, inventory.ScenarioAdjustment)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, in, out, "ante error se devuelve el lote sin cambios")
}

func TestApplyQuantityDelta_TransicionesDeEstado(t *testing.T) {
	depleted, err := inventory.ApplyQuantityDelta(newBatch(10, 2), -2, inventory.ScenarioDamage)
	require.NoError(t, err)
	assert.Equal(t, 0, depleted.RemainingQuantity)
	assert.Equal(t, entity.BatchStatusDepleted, depleted.Status)

	revived, err := inventory.ApplyQuantityDelta(depleted, 3, inventory.ScenarioAdjustment)
	require.NoError(t, err)
	assert.Equal(t, 3, revived.RemainingQuantity)
	assert.Equal(t, entity.BatchStatusActive, revived.Status)
}

func TestApplyQuantityDelta_EscenarioDesconocido(t *testing.T) {
	_, err := inventory.ApplyQuantityDelta(newBatch(10, 10), -1, inventory.Scenario("robo"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyQuantityDelta_RemanenteAcotado(t *testing.T) {
	for _, delta := range []int{-10, -7, -1, 0, 1, 5, 20} {
		for _, sc := range []inventory.Scenario{inventory.ScenarioDamage, inventory.ScenarioAdjustment} {
			out, err := inventory.ApplyQuantityDelta(newBatch(10, 7), delta, sc)
			if err != nil {
				continue
			}
			assert.GreaterOrEqual(t, out.RemainingQuantity, 0)
			assert.LessOrEqual(t, out.RemainingQuantity, out.Quantity)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		supply, payment string
		want            inventory.LedgerTarget
	}{
		{entity.SupplyTypeOwnPurchase, entity.PaymentTypePaid, inventory.TargetOwnOrPaid},
		{entity.SupplyTypeOwnPurchase, entity.PaymentTypeCredit, inventory.TargetOwnOrPaid},
		{entity.SupplyTypeFromSupplier, entity.PaymentTypePaid, inventory.TargetOwnOrPaid},
		{entity.SupplyTypeFromSupplier, entity.PaymentTypeCredit, inventory.TargetCredit},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, inventory.Classify(c.supply, c.payment), "%s/%s", c.supply, c.payment)
	}
}
