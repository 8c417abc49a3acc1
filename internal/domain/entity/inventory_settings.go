package entity

import "time"

// InventorySettings preferencias de inventario por empresa.
type InventorySettings struct {
	CompanyID          string
	DefaultSupplyType  string
	DefaultPaymentType string
	LowStockThreshold  *int // nil = sin alerta
	DebtDescription    string
	UpdatedAt          time.Time
}

// DefaultInventorySettings valores usados cuando la empresa no ha guardado preferencias.
func DefaultInventorySettings(companyID string) InventorySettings {
	return InventorySettings{
		CompanyID:          companyID,
		DefaultSupplyType:  SupplyTypeFromSupplier,
		DefaultPaymentType: PaymentTypePaid,
		DebtDescription:    "Deuda proveedor por lote",
	}
}
