package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/patch"
)

// PatchSettingsRequest body de PATCH /api/inventory/settings. Campo ausente = mantener,
// null = volver al valor por defecto, valor = reemplazar.
type PatchSettingsRequest struct {
	DefaultSupplyType  patch.Field[string] `json:"default_supply_type"`
	DefaultPaymentType patch.Field[string] `json:"default_payment_type"`
	LowStockThreshold  patch.Field[int]    `json:"low_stock_threshold"`
	DebtDescription    patch.Field[string] `json:"debt_description"`
}

// SettingsResponse preferencias efectivas de inventario.
type SettingsResponse struct {
	DefaultSupplyType  string     `json:"default_supply_type"`
	DefaultPaymentType string     `json:"default_payment_type"`
	LowStockThreshold  *int       `json:"low_stock_threshold"`
	DebtDescription    string     `json:"debt_description"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}
