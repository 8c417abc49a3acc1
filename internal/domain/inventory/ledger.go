package inventory

import (
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Scenario tipo de edición de cantidad sobre un lote.
type Scenario string

const (
	// ScenarioDamage merma o pérdida: solo baja el remanente y nunca toca la deuda.
	ScenarioDamage Scenario = "damage"
	// ScenarioAdjustment corrección del lote tal como se registró al recibirlo.
	ScenarioAdjustment Scenario = "adjustment"
)

// Valid indica si el escenario es conocido.
func (s Scenario) Valid() bool {
	return s == ScenarioDamage || s == ScenarioAdjustment
}

// LedgerTarget clasificación contable destino de un lote.
type LedgerTarget int

const (
	// TargetOwnOrPaid compra propia o proveedor pagado: sin deuda.
	TargetOwnOrPaid LedgerTarget = iota
	// TargetCredit proveedor a crédito: la deuda debe igualar remanente * costo.
	TargetCredit
)

func (t LedgerTarget) String() string {
	if t == TargetCredit {
		return "TO_CREDIT"
	}
	return "TO_OWN_OR_PAID"
}

// Classify traduce (tipo de abastecimiento, tipo de pago) al escenario contable.
// Una compra propia siempre se trata como pagada, sin importar el tipo de pago recibido.
func Classify(supplyType, paymentType string) LedgerTarget {
	if supplyType == entity.SupplyTypeOwnPurchase {
		return TargetOwnOrPaid
	}
	if paymentType == entity.PaymentTypeCredit {
		return TargetCredit
	}
	return TargetOwnOrPaid
}

// ApplyQuantityDelta devuelve el lote con el delta aplicado según el escenario, sin persistir nada.
//
// damage: delta <= 0, solo cambia RemainingQuantity (y DamagedQuantity); Quantity queda intacta.
// adjustment: cambian Quantity y RemainingQuantity conservando lo ya usado antes de la edición.
func ApplyQuantityDelta(batch entity.StockBatch, delta int, scenario Scenario) (entity.StockBatch, error) {
	out := batch
	switch scenario {
	case ScenarioDamage:
		if delta > 0 {
			return batch, fmt.Errorf("%w: un daño no puede sumar unidades (%d)", domain.ErrInvalidQuantity, delta)
		}
		out.RemainingQuantity = batch.RemainingQuantity + delta
		out.DamagedQuantity = batch.DamagedQuantity - delta
	case ScenarioAdjustment:
		used := batch.UsedQuantity()
		out.Quantity = batch.Quantity + delta
		out.RemainingQuantity = out.Quantity - used
	default:
		return batch, fmt.Errorf("%w: escenario %q", domain.ErrInvalidInput, scenario)
	}
	if out.Quantity < 0 || out.RemainingQuantity < 0 {
		return batch, fmt.Errorf("%w: cantidad %d, remanente %d", domain.ErrInvalidQuantity, out.Quantity, out.RemainingQuantity)
	}
	out.SyncStatus()
	return out, nil
}
