package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// RestockUseCase registra la entrada de un lote nuevo: lote, auditoría, deuda inicial si es a
// crédito y stock del producto, en una sola transacción.
type RestockUseCase struct {
	txRunner TxRunner
	settings repository.SettingsRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewRestockUseCase construye el caso de uso.
func NewRestockUseCase(txRunner TxRunner, settings repository.SettingsRepository, log *logger.Logger) *RestockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RestockUseCase{txRunner: txRunner, settings: settings, log: log.Component("restock"), now: time.Now}
}

// RestockInput entrada de una reposición. SupplyType/PaymentType vacíos toman las preferencias
// de la empresa.
type RestockInput struct {
	CompanyID   string
	UserID      string
	ProductID   string
	Quantity    int
	CostPrice   decimal.Decimal
	SupplyType  string
	PaymentType string
	SupplierID  string
	Notes       string
}

// Restock crea el lote y devuelve su estado confirmado.
func (uc *RestockUseCase) Restock(ctx context.Context, input RestockInput) (*entity.StockBatch, error) {
	if input.CompanyID == "" || input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la reposición debe ser positiva", domain.ErrInvalidQuantity)
	}
	if input.CostPrice.IsNegative() {
		return nil, fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
	}

	prefs, err := uc.preferences(ctx, input.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	supplyType := firstNonEmpty(input.SupplyType, prefs.DefaultSupplyType)
	paymentType := firstNonEmpty(input.PaymentType, prefs.DefaultPaymentType)
	if err := validateClassification(supplyType, paymentType); err != nil {
		return nil, err
	}
	target := domaininv.Classify(supplyType, paymentType)
	if target == domaininv.TargetCredit && input.SupplierID == "" {
		return nil, domain.ErrSupplierRequired
	}

	now := uc.now()
	batch := entity.StockBatch{
		ID:                uuid.New().String(),
		ProductID:         input.ProductID,
		CompanyID:         input.CompanyID,
		Quantity:          input.Quantity,
		RemainingQuantity: input.Quantity,
		CostPrice:         input.CostPrice,
		SupplierID:        input.SupplierID,
		IsOwnPurchase:     supplyType == entity.SupplyTypeOwnPurchase,
		IsCredit:          target == domaininv.TargetCredit,
		Notes:             input.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if batch.IsOwnPurchase {
		batch.SupplierID = ""
	}
	batch.SyncStatus()

	plan, err := domaininv.ReconcileDebt(domaininv.ReconcileInput{
		Batch:       batch,
		Target:      target,
		UserID:      input.UserID,
		Description: prefs.DebtDescription,
		Now:         now,
	})
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(repos Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.CompanyID != input.CompanyID {
			return domain.ErrUnauthorized
		}
		if err := repos.Batches.Create(ctx, &batch); err != nil {
			return err
		}
		change := entity.StockChange{
			ID:            uuid.New().String(),
			CompanyID:     batch.CompanyID,
			ProductID:     batch.ProductID,
			BatchID:       batch.ID,
			Change:        batch.Quantity,
			Reason:        entity.StockChangeReasonRestock,
			CostPrice:     batch.CostPrice,
			SupplierID:    batch.SupplierID,
			IsOwnPurchase: batch.IsOwnPurchase,
			IsCredit:      batch.IsCredit,
			Notes:         input.Notes,
			CreatedBy:     input.UserID,
			CreatedAt:     now,
		}
		if err := repos.Changes.Create(ctx, &change); err != nil {
			return err
		}
		for i := range plan.Creates {
			if err := repos.Entries.Create(ctx, &plan.Creates[i]); err != nil {
				return err
			}
		}
		if err := repos.Products.AddStock(ctx, product.ID, batch.Quantity); err != nil {
			return err
		}
		return repos.Events.Publish(ctx, entity.StockEvent{
			CompanyID: batch.CompanyID,
			ProductID: product.ID,
			BatchIDs:  []string{batch.ID},
			Stock:     product.Stock + batch.Quantity,
			Reason:    entity.StockChangeReasonRestock,
			At:        now,
		})
	})
	if err != nil {
		if !domain.IsDomainError(err) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		uc.log.Warn().Err(err).Str("company_id", input.CompanyID).Str("product_id", input.ProductID).Msg("reposición abortada")
		return nil, err
	}

	uc.log.Info().
		Str("company_id", batch.CompanyID).
		Str("product_id", batch.ProductID).
		Str("batch_id", batch.ID).
		Int("quantity", batch.Quantity).
		Bool("credit", batch.IsCredit).
		Msg("lote registrado")
	return &batch, nil
}

func (uc *RestockUseCase) preferences(ctx context.Context, companyID string) (entity.InventorySettings, error) {
	defaults := entity.DefaultInventorySettings(companyID)
	if uc.settings == nil {
		return defaults, nil
	}
	s, err := uc.settings.Get(ctx, companyID)
	if err != nil {
		return defaults, err
	}
	if s == nil {
		return defaults, nil
	}
	return *s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
