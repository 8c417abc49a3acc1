package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Valuation valorización del remanente de un conjunto de lotes.
type Valuation struct {
	Units       int
	TotalValue  decimal.Decimal
	AverageCost decimal.Decimal // costo unitario ponderado por remanente
}

// ValueBatches suma el remanente vigente de los lotes. Los lotes corregidos o agotados no cuentan.
func ValueBatches(batches []entity.StockBatch) Valuation {
	v := Valuation{TotalValue: decimal.Zero, AverageCost: decimal.Zero}
	for _, b := range batches {
		if b.Status == entity.BatchStatusCorrected || b.RemainingQuantity <= 0 {
			continue
		}
		v.Units += b.RemainingQuantity
		v.TotalValue = v.TotalValue.Add(b.Value())
	}
	if v.Units > 0 {
		v.AverageCost = v.TotalValue.Div(decimal.NewFromInt(int64(v.Units)))
	}
	return v
}
