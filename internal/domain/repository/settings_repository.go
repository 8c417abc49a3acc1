package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// SettingsRepository persistencia de preferencias de inventario. Get devuelve (nil, nil)
// si la empresa nunca guardó preferencias.
type SettingsRepository interface {
	Get(ctx context.Context, companyID string) (*entity.InventorySettings, error)
	Upsert(ctx context.Context, settings *entity.InventorySettings) error
}
