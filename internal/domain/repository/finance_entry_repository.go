package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// FinanceEntryQuery filtro único para consultar asientos de proveedor.
// El valor cero excluye los asientos anulados; incluirlos exige IncludeDeleted explícito.
type FinanceEntryQuery struct {
	CompanyID      string
	BatchID        string
	SourceID       string
	Types          []string
	IncludeDeleted bool
}

// ActiveBatchEntries asientos vivos (deudas y reembolsos) de un lote.
func ActiveBatchEntries(companyID, batchID string) FinanceEntryQuery {
	return FinanceEntryQuery{
		CompanyID: companyID,
		BatchID:   batchID,
		Types:     []string{entity.FinanceEntryTypeSupplierDebt, entity.FinanceEntryTypeSupplierRefund},
	}
}

// BatchHistory todos los asientos de un lote, incluidos los anulados.
func BatchHistory(companyID, batchID string) FinanceEntryQuery {
	q := ActiveBatchEntries(companyID, batchID)
	q.IncludeDeleted = true
	return q
}

// Matches evalúa el filtro sobre un asiento en memoria.
func (q FinanceEntryQuery) Matches(e entity.FinanceEntry) bool {
	if !q.IncludeDeleted && e.IsDeleted() {
		return false
	}
	if q.CompanyID != "" && e.CompanyID != q.CompanyID {
		return false
	}
	if q.BatchID != "" && e.BatchID != q.BatchID {
		return false
	}
	if q.SourceID != "" && e.SourceID != q.SourceID {
		return false
	}
	if len(q.Types) == 0 {
		return true
	}
	for _, t := range q.Types {
		if e.Type == t {
			return true
		}
	}
	return false
}

// FinanceEntryRepository puerto de persistencia para asientos de deuda/reembolso.
// Las consultas solo aceptan FinanceEntryQuery para que el filtro de anulados no se omita.
type FinanceEntryRepository interface {
	Create(ctx context.Context, entry *entity.FinanceEntry) error
	Update(ctx context.Context, entry *entity.FinanceEntry) error
	Find(ctx context.Context, q FinanceEntryQuery) ([]entity.FinanceEntry, error)
}
