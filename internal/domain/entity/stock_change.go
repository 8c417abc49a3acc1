package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de un cambio de stock.
const (
	StockChangeReasonRestock          = "restock"
	StockChangeReasonManualAdjustment = "manual_adjustment"
	StockChangeReasonDamage           = "damage"
)

// StockChange registro de auditoría inmutable de un delta de cantidad sobre un lote.
// Incluye una foto de la clasificación proveedor/pago al momento del cambio.
type StockChange struct {
	ID            string
	CompanyID     string
	ProductID     string
	BatchID       string
	Change        int // positivo entrada, negativo salida o daño
	Reason        string
	CostPrice     decimal.Decimal
	SupplierID    string
	IsOwnPurchase bool
	IsCredit      bool
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}
