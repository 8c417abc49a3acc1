package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// DebtStatement datos del estado de cuenta de un lote con su proveedor.
type DebtStatement struct {
	Batch        entity.StockBatch
	Product      entity.Product
	Entries      []entity.FinanceEntry // incluye anulados
	NetLiability decimal.Decimal
	Expected     decimal.Decimal
	GeneratedAt  time.Time
}

// DebtStatementRenderer genera el documento (PDF) del estado de cuenta.
type DebtStatementRenderer interface {
	RenderDebtStatement(ctx context.Context, st DebtStatement) ([]byte, error)
}

// DebtStatementUseCase arma y renderiza el estado de cuenta de deuda de un lote.
type DebtStatementUseCase struct {
	batches  repository.StockBatchRepository
	products repository.ProductRepository
	entries  repository.FinanceEntryRepository
	renderer DebtStatementRenderer
}

// NewDebtStatementUseCase construye el caso de uso.
func NewDebtStatementUseCase(
	batches repository.StockBatchRepository,
	products repository.ProductRepository,
	entries repository.FinanceEntryRepository,
	renderer DebtStatementRenderer,
) *DebtStatementUseCase {
	return &DebtStatementUseCase{batches: batches, products: products, entries: entries, renderer: renderer}
}

// Build reúne lote, producto e historial de asientos del lote.
func (uc *DebtStatementUseCase) Build(ctx context.Context, companyID, batchID string) (*DebtStatement, error) {
	batch, err := uc.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return nil, domain.ErrUnauthorized
	}
	product, err := uc.products.GetByID(ctx, batch.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, batch.ProductID)
	}
	history, err := uc.entries.Find(ctx, repository.BatchHistory(companyID, batchID))
	if err != nil {
		return nil, err
	}
	return &DebtStatement{
		Batch:        *batch,
		Product:      *product,
		Entries:      history,
		NetLiability: domaininv.NetLiability(history),
		Expected:     domaininv.ExpectedLiability(*batch),
		GeneratedAt:  time.Now(),
	}, nil
}

// Render genera el PDF del estado de cuenta.
func (uc *DebtStatementUseCase) Render(ctx context.Context, companyID, batchID string) ([]byte, error) {
	st, err := uc.Build(ctx, companyID, batchID)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderDebtStatement(ctx, *st)
}
