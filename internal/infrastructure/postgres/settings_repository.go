package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo preferencias de inventario por empresa.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve (nil, nil) si la empresa no tiene fila.
func (r *SettingsRepo) Get(ctx context.Context, companyID string) (*entity.InventorySettings, error) {
	var s entity.InventorySettings
	err := r.q.QueryRow(ctx, `
		SELECT company_id, default_supply_type, default_payment_type, low_stock_threshold, debt_description, updated_at
		FROM inventory_settings WHERE company_id = $1`, companyID,
	).Scan(&s.CompanyID, &s.DefaultSupplyType, &s.DefaultPaymentType, &s.LowStockThreshold, &s.DebtDescription, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory settings: %w", err)
	}
	return &s, nil
}

// Upsert guarda la fila completa; un LowStockThreshold nil se persiste como NULL.
func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.InventorySettings) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_settings (company_id, default_supply_type, default_payment_type, low_stock_threshold, debt_description, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id) DO UPDATE SET
			default_supply_type = EXCLUDED.default_supply_type,
			default_payment_type = EXCLUDED.default_payment_type,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			debt_description = EXCLUDED.debt_description,
			updated_at = EXCLUDED.updated_at`,
		s.CompanyID, s.DefaultSupplyType, s.DefaultPaymentType, s.LowStockThreshold, s.DebtDescription, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory settings: %w", err)
	}
	return nil
}
