package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// AdjustBatchesUseCase aplica una lista de ajustes de lote de un producto como una sola unidad
// atómica: lotes, auditoría, deuda con proveedores y stock del producto se confirman juntos o nada.
type AdjustBatchesUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewAdjustBatchesUseCase construye el caso de uso.
func NewAdjustBatchesUseCase(txRunner TxRunner, log *logger.Logger) *AdjustBatchesUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdjustBatchesUseCase{
		txRunner: txRunner,
		log:      log.Component("adjust_batches"),
		now:      time.Now,
	}
}

// BatchAdjustment edición de un lote. Para damage solo se usan BatchID, QuantityChange y Notes.
// Tipos de abastecimiento/pago vacíos conservan la clasificación actual del lote.
type BatchAdjustment struct {
	BatchID        string
	QuantityChange int
	NewCostPrice   *decimal.Decimal
	NewSupplyType  string
	NewSupplierID  string
	NewPaymentType string
	Scenario       domaininv.Scenario
	Notes          string
}

// AdjustBatchesInput entrada del orquestador.
type AdjustBatchesInput struct {
	CompanyID string
	UserID    string
	ProductID string
	Items     []BatchAdjustment
}

// BatchError identifica el ítem que abortó la operación. Envuelve el error de dominio.
type BatchError struct {
	Index   int
	BatchID string
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("ajuste %d (lote %s): %v", e.Index, e.BatchID, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// AdjustBatches valida cada ítem en orden, prepara todas las escrituras y las confirma en una
// sola transacción. Un ítem inválido aborta la operación completa.
func (uc *AdjustBatchesUseCase) AdjustBatches(ctx context.Context, input AdjustBatchesInput) error {
	if input.CompanyID == "" || input.ProductID == "" || len(input.Items) == 0 {
		return domain.ErrInvalidInput
	}
	now := uc.now()

	err := uc.txRunner.Run(ctx, func(repos Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, input.ProductID)
		}
		if product.CompanyID != input.CompanyID {
			return domain.ErrUnauthorized
		}

		ws := newWriteSet()
		totalStockChange := 0
		for i, item := range input.Items {
			if err := uc.stage(ctx, repos, ws, input, item, now); err != nil {
				return &BatchError{Index: i, BatchID: item.BatchID, Err: err}
			}
			totalStockChange += item.QuantityChange
		}

		if err := ws.flush(ctx, repos); err != nil {
			return err
		}
		if totalStockChange != 0 {
			if err := repos.Products.AddStock(ctx, product.ID, totalStockChange); err != nil {
				return err
			}
		}
		return repos.Events.Publish(ctx, entity.StockEvent{
			CompanyID: input.CompanyID,
			ProductID: product.ID,
			BatchIDs:  ws.batchOrder,
			Stock:     product.Stock + totalStockChange,
			Reason:    "batch_adjustment",
			At:        now,
		})
	})
	if err != nil {
		if !domain.IsDomainError(err) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		ev := uc.log.Warn().Err(err).
			Str("company_id", input.CompanyID).
			Str("product_id", input.ProductID).
			Int("items", len(input.Items))
		var be *BatchError
		if errors.As(err, &be) {
			ev = ev.Str("batch_id", be.BatchID).Int("item", be.Index)
		}
		ev.Msg("ajuste de lotes abortado")
		return err
	}

	uc.log.Info().
		Str("company_id", input.CompanyID).
		Str("product_id", input.ProductID).
		Str("user_id", input.UserID).
		Int("items", len(input.Items)).
		Msg("ajuste de lotes confirmado")
	return nil
}

// stage valida un ítem contra el estado actual (incluido lo ya preparado en esta llamada)
// y agrega sus escrituras al conjunto pendiente.
func (uc *AdjustBatchesUseCase) stage(
	ctx context.Context,
	repos Repositories,
	ws *writeSet,
	input AdjustBatchesInput,
	item BatchAdjustment,
	now time.Time,
) error {
	if item.BatchID == "" || !item.Scenario.Valid() {
		return domain.ErrInvalidInput
	}
	batch, err := ws.batch(ctx, repos.Batches, item.BatchID)
	if err != nil {
		return err
	}
	if batch == nil {
		return domain.ErrNotFound
	}
	if batch.CompanyID != input.CompanyID {
		return domain.ErrUnauthorized
	}
	if batch.ProductID != input.ProductID {
		return fmt.Errorf("%w: el lote no pertenece al producto", domain.ErrInvalidInput)
	}

	updated, err := domaininv.ApplyQuantityDelta(*batch, item.QuantityChange, item.Scenario)
	if err != nil {
		return err
	}

	reason := entity.StockChangeReasonDamage
	if item.Scenario == domaininv.ScenarioAdjustment {
		reason = entity.StockChangeReasonManualAdjustment
		if err := uc.reclassify(ctx, repos, ws, &updated, item, input.UserID, now); err != nil {
			return err
		}
	}
	if item.Notes != "" {
		updated.Notes = item.Notes
	}
	updated.UpdatedAt = now
	ws.stageBatch(updated)

	ws.changes = append(ws.changes, entity.StockChange{
		ID:            uuid.New().String(),
		CompanyID:     updated.CompanyID,
		ProductID:     updated.ProductID,
		BatchID:       updated.ID,
		Change:        item.QuantityChange,
		Reason:        reason,
		CostPrice:     updated.CostPrice,
		SupplierID:    updated.SupplierID,
		IsOwnPurchase: updated.IsOwnPurchase,
		IsCredit:      updated.IsCredit,
		Notes:         item.Notes,
		CreatedBy:     input.UserID,
		CreatedAt:     now,
	})
	return nil
}

// reclassify aplica costo y clasificación nuevos de un ajuste y prepara la conciliación de deuda.
func (uc *AdjustBatchesUseCase) reclassify(
	ctx context.Context,
	repos Repositories,
	ws *writeSet,
	batch *entity.StockBatch,
	item BatchAdjustment,
	userID string,
	now time.Time,
) error {
	if item.NewCostPrice != nil {
		if item.NewCostPrice.IsNegative() {
			return fmt.Errorf("%w: costo negativo", domain.ErrInvalidInput)
		}
		batch.CostPrice = *item.NewCostPrice
	}

	supplyType := item.NewSupplyType
	if supplyType == "" {
		supplyType = batch.SupplyType()
	}
	paymentType := item.NewPaymentType
	if paymentType == "" {
		paymentType = batch.PaymentType()
	}
	if err := validateClassification(supplyType, paymentType); err != nil {
		return err
	}

	target := domaininv.Classify(supplyType, paymentType)
	batch.IsOwnPurchase = supplyType == entity.SupplyTypeOwnPurchase
	batch.IsCredit = target == domaininv.TargetCredit
	switch {
	case batch.IsOwnPurchase:
		batch.SupplierID = ""
	case item.NewSupplierID != "":
		batch.SupplierID = item.NewSupplierID
	}
	if target == domaininv.TargetCredit && batch.SupplierID == "" {
		return domain.ErrSupplierRequired
	}

	entries, err := ws.activeEntries(ctx, repos.Entries, batch.CompanyID, batch.ID)
	if err != nil {
		return err
	}
	plan, err := domaininv.ReconcileDebt(domaininv.ReconcileInput{
		Batch:       *batch,
		Target:      target,
		Entries:     entries,
		UserID:      userID,
		Description: entity.DefaultInventorySettings(batch.CompanyID).DebtDescription,
		Now:         now,
	})
	if err != nil {
		return err
	}
	ws.stagePlan(batch.ID, plan)
	return nil
}

func validateClassification(supplyType, paymentType string) error {
	if supplyType != entity.SupplyTypeOwnPurchase && supplyType != entity.SupplyTypeFromSupplier {
		return fmt.Errorf("%w: tipo de abastecimiento %q", domain.ErrInvalidInput, supplyType)
	}
	if paymentType != entity.PaymentTypePaid && paymentType != entity.PaymentTypeCredit {
		return fmt.Errorf("%w: tipo de pago %q", domain.ErrInvalidInput, paymentType)
	}
	return nil
}
