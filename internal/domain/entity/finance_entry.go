package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento financiero ligados a un lote.
const (
	FinanceEntryTypeSupplierDebt   = "supplier_debt"
	FinanceEntryTypeSupplierRefund = "supplier_refund"

	FinanceSourceSupplier = "supplier"
)

// EntryState estado lógico de un asiento. Los asientos nunca se borran físicamente.
type EntryState string

const (
	EntryStateActive  EntryState = "active"
	EntryStateDeleted EntryState = "deleted"
)

// FinanceEntry línea del libro de deudas/reembolsos con un proveedor, asociada a un lote.
// Amount siempre es positivo; el signo lo da Type.
type FinanceEntry struct {
	ID             string
	CompanyID      string
	SourceType     string
	SourceID       string // ID del proveedor
	Type           string
	Amount         decimal.Decimal
	BatchID        string
	RefundedDebtID string // solo reembolsos generados al reducir una deuda
	State          EntryState
	Description    string
	Date           time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsDeleted indica si el asiento fue anulado (soft delete).
func (e FinanceEntry) IsDeleted() bool {
	return e.State == EntryStateDeleted
}

// IsDebt indica si el asiento es una deuda con proveedor.
func (e FinanceEntry) IsDebt() bool {
	return e.Type == FinanceEntryTypeSupplierDebt
}

// IsRefund indica si el asiento es un reembolso de proveedor.
func (e FinanceEntry) IsRefund() bool {
	return e.Type == FinanceEntryTypeSupplierRefund
}

// MarkDeleted anula el asiento.
func (e *FinanceEntry) MarkDeleted(now time.Time) {
	e.State = EntryStateDeleted
	e.UpdatedAt = now
}
