package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchStatus estado de un lote de inventario.
type BatchStatus string

// Estados de lote. Corrected es una marca administrativa terminal.
const (
	BatchStatusActive    BatchStatus = "active"
	BatchStatusDepleted  BatchStatus = "depleted"
	BatchStatusCorrected BatchStatus = "corrected"
)

// Tipos de abastecimiento y de pago de un lote.
const (
	SupplyTypeOwnPurchase  = "own_purchase"
	SupplyTypeFromSupplier = "from_supplier"

	PaymentTypePaid   = "paid"
	PaymentTypeCredit = "credit"
)

// StockBatch representa una entrada de inventario (lote) con su costo unitario y
// la clasificación de compra (fondos propios, proveedor pagado o proveedor a crédito).
type StockBatch struct {
	ID                string
	ProductID         string
	CompanyID         string
	Quantity          int // unidades recibidas
	RemainingQuantity int // unidades aún no consumidas, vendidas ni dañadas
	DamagedQuantity   int
	CostPrice         decimal.Decimal
	SupplierID        string
	IsOwnPurchase     bool
	IsCredit          bool
	Status            BatchStatus
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UsedQuantity unidades ya consumidas del lote (vendidas o dañadas).
func (b StockBatch) UsedQuantity() int {
	return b.Quantity - b.RemainingQuantity
}

// SupplyType devuelve own_purchase o from_supplier según la clasificación actual.
func (b StockBatch) SupplyType() string {
	if b.IsOwnPurchase {
		return SupplyTypeOwnPurchase
	}
	return SupplyTypeFromSupplier
}

// PaymentType devuelve paid o credit según la clasificación actual.
func (b StockBatch) PaymentType() string {
	if b.IsCredit {
		return PaymentTypeCredit
	}
	return PaymentTypePaid
}

// OnSupplierCredit indica si el lote genera deuda con el proveedor.
func (b StockBatch) OnSupplierCredit() bool {
	return !b.IsOwnPurchase && b.IsCredit
}

// Value valor del remanente al costo del lote.
func (b StockBatch) Value() decimal.Decimal {
	return decimal.NewFromInt(int64(b.RemainingQuantity)).Mul(b.CostPrice)
}

// SyncStatus ajusta el estado según el remanente: depleted si llega a 0, active si vuelve a subir.
// Un lote corrected no se toca.
func (b *StockBatch) SyncStatus() {
	if b.Status == BatchStatusCorrected {
		return
	}
	if b.RemainingQuantity == 0 {
		b.Status = BatchStatusDepleted
		return
	}
	b.Status = BatchStatusActive
}
