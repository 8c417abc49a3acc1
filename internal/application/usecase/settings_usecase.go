package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// SettingsUseCase preferencias de inventario por empresa.
type SettingsUseCase struct {
	repo repository.SettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// Get devuelve las preferencias guardadas o los valores por defecto.
func (uc *SettingsUseCase) Get(ctx context.Context, companyID string) (*dto.SettingsResponse, error) {
	s, err := uc.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(s), nil
}

// Patch aplica el patch campo por campo sobre las preferencias actuales y las guarda.
func (uc *SettingsUseCase) Patch(ctx context.Context, companyID string, in dto.PatchSettingsRequest) (*dto.SettingsResponse, error) {
	current, err := uc.load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	next, err := ApplySettingsPatch(current, in)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now()
	if err := uc.repo.Upsert(ctx, &next); err != nil {
		return nil, err
	}
	return toSettingsResponse(next), nil
}

// ApplySettingsPatch resuelve cada campo: ausente mantiene, null vuelve al valor por defecto.
func ApplySettingsPatch(current entity.InventorySettings, in dto.PatchSettingsRequest) (entity.InventorySettings, error) {
	defaults := entity.DefaultInventorySettings(current.CompanyID)
	next := current

	next.DefaultSupplyType = in.DefaultSupplyType.Apply(current.DefaultSupplyType, defaults.DefaultSupplyType)
	if next.DefaultSupplyType != entity.SupplyTypeOwnPurchase && next.DefaultSupplyType != entity.SupplyTypeFromSupplier {
		return current, fmt.Errorf("%w: default_supply_type", domain.ErrInvalidInput)
	}
	next.DefaultPaymentType = in.DefaultPaymentType.Apply(current.DefaultPaymentType, defaults.DefaultPaymentType)
	if next.DefaultPaymentType != entity.PaymentTypePaid && next.DefaultPaymentType != entity.PaymentTypeCredit {
		return current, fmt.Errorf("%w: default_payment_type", domain.ErrInvalidInput)
	}

	switch {
	case in.LowStockThreshold.IsSet():
		v := in.LowStockThreshold.Value()
		if v < 0 {
			return current, fmt.Errorf("%w: low_stock_threshold", domain.ErrInvalidInput)
		}
		next.LowStockThreshold = &v
	case in.LowStockThreshold.IsClear():
		next.LowStockThreshold = nil
	}

	next.DebtDescription = in.DebtDescription.Apply(current.DebtDescription, defaults.DebtDescription)
	if next.DebtDescription == "" {
		next.DebtDescription = defaults.DebtDescription
	}
	return next, nil
}

func (uc *SettingsUseCase) load(ctx context.Context, companyID string) (entity.InventorySettings, error) {
	s, err := uc.repo.Get(ctx, companyID)
	if err != nil {
		return entity.InventorySettings{}, err
	}
	if s == nil {
		return entity.DefaultInventorySettings(companyID), nil
	}
	return *s, nil
}

func toSettingsResponse(s entity.InventorySettings) *dto.SettingsResponse {
	resp := &dto.SettingsResponse{
		DefaultSupplyType:  s.DefaultSupplyType,
		DefaultPaymentType: s.DefaultPaymentType,
		LowStockThreshold:  s.LowStockThreshold,
		DebtDescription:    s.DebtDescription,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}
