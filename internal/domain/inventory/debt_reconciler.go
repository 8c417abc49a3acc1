package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ReconcileInput estado necesario para recalcular la deuda de un lote tras una edición.
// Batch ya debe tener aplicados cantidad, costo final y clasificación nueva.
type ReconcileInput struct {
	Batch       entity.StockBatch
	Target      LedgerTarget
	Entries     []entity.FinanceEntry // asientos activos del lote (los anulados se ignoran)
	UserID      string
	Description string
	Now         time.Time
}

// DebtPlan escrituras contables a preparar en la misma transacción que el lote.
type DebtPlan struct {
	Updates []entity.FinanceEntry
	Creates []entity.FinanceEntry
}

// Empty indica que no hay nada que escribir.
func (p DebtPlan) Empty() bool {
	return len(p.Updates) == 0 && len(p.Creates) == 0
}

// NetLiability pasivo neto con el proveedor sobre asientos activos: deudas menos reembolsos
// no vinculados. Un reembolso con RefundedDebtID documenta una rebaja ya aplicada al monto
// de esa deuda, por eso no se descuenta otra vez.
func NetLiability(entries []entity.FinanceEntry) decimal.Decimal {
	net := decimal.Zero
	for _, e := range entries {
		if e.IsDeleted() {
			continue
		}
		switch {
		case e.IsDebt():
			net = net.Add(e.Amount)
		case e.IsRefund() && e.RefundedDebtID == "":
			net = net.Sub(e.Amount)
		}
	}
	return net
}

// ExpectedLiability deuda que debería existir para el lote en su clasificación actual.
func ExpectedLiability(batch entity.StockBatch) decimal.Decimal {
	if !batch.OnSupplierCredit() {
		return decimal.Zero
	}
	return batch.Value()
}

// LiabilityRange pasivo neto admisible para el lote. Un daño no toca la deuda, así que mientras
// no haya otro ajuste la deuda puede seguir cubriendo las unidades dañadas.
func LiabilityRange(batch entity.StockBatch) (low, high decimal.Decimal) {
	low = ExpectedLiability(batch)
	if !batch.OnSupplierCredit() || batch.DamagedQuantity <= 0 {
		return low, low
	}
	damaged := batch.CostPrice.Mul(decimal.NewFromInt(int64(batch.DamagedQuantity)))
	return low, low.Add(damaged)
}

// ReconcileDebt calcula los asientos a anular, actualizar o crear para que el pasivo neto del
// lote vuelva a ser remanente * costo (crédito) o cero (compra propia / pagada).
func ReconcileDebt(in ReconcileInput) (DebtPlan, error) {
	var plan DebtPlan
	active := make([]entity.FinanceEntry, 0, len(in.Entries))
	for _, e := range in.Entries {
		if e.IsDeleted() || e.BatchID != in.Batch.ID {
			continue
		}
		active = append(active, e)
	}

	if in.Target == TargetOwnOrPaid {
		for _, e := range active {
			e.MarkDeleted(in.Now)
			plan.Updates = append(plan.Updates, e)
		}
		return plan, nil
	}

	if in.Batch.SupplierID == "" {
		return plan, fmt.Errorf("%w: lote %s", domain.ErrSupplierRequired, in.Batch.ID)
	}
	newDebt := in.Batch.Value()
	currentNet := NetLiability(active)

	var debt *entity.FinanceEntry
	for i := range active {
		if !active[i].IsDebt() {
			continue
		}
		if debt == nil {
			debt = &active[i]
			continue
		}
		// Solo una deuda viva por lote: las sobrantes se anulan.
		extra := active[i]
		extra.MarkDeleted(in.Now)
		plan.Updates = append(plan.Updates, extra)
	}

	if debt == nil {
		plan.Creates = append(plan.Creates, entity.FinanceEntry{
			ID:          uuid.New().String(),
			CompanyID:   in.Batch.CompanyID,
			SourceType:  entity.FinanceSourceSupplier,
			SourceID:    in.Batch.SupplierID,
			Type:        entity.FinanceEntryTypeSupplierDebt,
			Amount:      newDebt,
			BatchID:     in.Batch.ID,
			State:       entity.EntryStateActive,
			Description: in.Description,
			Date:        in.Now,
			CreatedBy:   in.UserID,
			CreatedAt:   in.Now,
			UpdatedAt:   in.Now,
		})
		return plan, nil
	}

	updated := *debt
	updated.Amount = newDebt
	updated.SourceID = in.Batch.SupplierID
	updated.UpdatedAt = in.Now
	plan.Updates = append(plan.Updates, updated)

	if newDebt.LessThan(currentNet) {
		plan.Creates = append(plan.Creates, entity.FinanceEntry{
			ID:             uuid.New().String(),
			CompanyID:      in.Batch.CompanyID,
			SourceType:     entity.FinanceSourceSupplier,
			SourceID:       in.Batch.SupplierID,
			Type:           entity.FinanceEntryTypeSupplierRefund,
			Amount:         currentNet.Sub(newDebt),
			BatchID:        in.Batch.ID,
			RefundedDebtID: debt.ID,
			State:          entity.EntryStateActive,
			Description:    "Reembolso por ajuste de lote",
			Date:           in.Now,
			CreatedBy:      in.UserID,
			CreatedAt:      in.Now,
			UpdatedAt:      in.Now,
		})
	}
	return plan, nil
}
