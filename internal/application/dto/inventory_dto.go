package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchAdjustmentRequest un ítem del body de POST /api/inventory/products/:id/adjustments.
type BatchAdjustmentRequest struct {
	BatchID        string           `json:"batch_id" validate:"required"`
	QuantityChange int              `json:"quantity_change"`
	NewCostPrice   *decimal.Decimal `json:"new_cost_price,omitempty"`
	NewSupplyType  string           `json:"new_supply_type,omitempty" validate:"omitempty,oneof=own_purchase from_supplier"`
	NewSupplierID  string           `json:"new_supplier_id,omitempty"`
	NewPaymentType string           `json:"new_payment_type,omitempty" validate:"omitempty,oneof=paid credit"`
	Scenario       string           `json:"scenario" validate:"required,oneof=damage adjustment"`
	Notes          string           `json:"notes,omitempty" validate:"max=500"`
}

// AdjustBatchesRequest body para ajustar varios lotes de un producto en una sola operación.
type AdjustBatchesRequest struct {
	Items []BatchAdjustmentRequest `json:"items" validate:"required,min=1,dive"`
}

// RestockRequest body para POST /api/inventory/products/:id/batches.
type RestockRequest struct {
	Quantity    int             `json:"quantity" validate:"gt=0"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SupplyType  string          `json:"supply_type,omitempty" validate:"omitempty,oneof=own_purchase from_supplier"`
	PaymentType string          `json:"payment_type,omitempty" validate:"omitempty,oneof=paid credit"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	Notes       string          `json:"notes,omitempty" validate:"max=500"`
}

// BatchResponse representación de un lote.
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Quantity          int             `json:"quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	DamagedQuantity   int             `json:"damaged_quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	IsOwnPurchase     bool            `json:"is_own_purchase"`
	IsCredit          bool            `json:"is_credit"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// FinanceEntryResponse asiento de deuda o reembolso de proveedor.
type FinanceEntryResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	SupplierID     string          `json:"supplier_id"`
	Amount         decimal.Decimal `json:"amount"`
	BatchID        string          `json:"batch_id"`
	RefundedDebtID string          `json:"refunded_debt_id,omitempty"`
	IsDeleted      bool            `json:"is_deleted"`
	Description    string          `json:"description,omitempty"`
	Date           time.Time       `json:"date"`
}

// BatchLedgerResponse historial contable de un lote.
type BatchLedgerResponse struct {
	Batch        BatchResponse          `json:"batch"`
	Entries      []FinanceEntryResponse `json:"entries"`
	NetLiability decimal.Decimal        `json:"net_liability"`
	Expected     decimal.Decimal        `json:"expected_liability"`
}

// AuditIssueDTO hallazgo de auditoría.
type AuditIssueDTO struct {
	ProductID string `json:"product_id"`
	BatchID   string `json:"batch_id,omitempty"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail"`
}

// ProductValuationDTO remanente valorizado de un producto.
type ProductValuationDTO struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	Units       int             `json:"units"`
	TotalValue  decimal.Decimal `json:"total_value"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// AuditReportResponse resultado de GET /api/inventory/audit.
type AuditReportResponse struct {
	CompanyID  string                `json:"company_id"`
	Products   int                   `json:"products"`
	Batches    int                   `json:"batches"`
	TotalValue decimal.Decimal       `json:"total_value"`
	OK         bool                  `json:"ok"`
	Valuations []ProductValuationDTO `json:"valuations"`
	Issues     []AuditIssueDTO       `json:"issues"`
}
