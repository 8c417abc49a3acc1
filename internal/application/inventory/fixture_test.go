package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

const (
	testCompany = "comp-1"
	testProduct = "prod-1"
	testUser    = "user-1"
)

var seedTime = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	bus   *memory.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bus := memory.NewBus()
	f := &fixture{t: t, ctx: context.Background(), store: memory.NewStore(bus), bus: bus}
	require.NoError(t, f.store.Products().Create(f.ctx, &entity.Product{
		ID: testProduct, CompanyID: testCompany, SKU: "SKU-1", Name: "Harina", CreatedAt: seedTime,
	}))
	return f
}

// creditBatch lote de proveedor a crédito con su deuda inicial.
func (f *fixture) creditBatch(id string, qty, remaining int, cost int64) {
	f.t.Helper()
	f.addBatch(entity.StockBatch{
		ID: id, ProductID: testProduct, CompanyID: testCompany,
		Quantity: qty, RemainingQuantity: remaining, CostPrice: decimal.NewFromInt(cost),
		SupplierID: "sup-1", IsCredit: true, Status: entity.BatchStatusActive, CreatedAt: seedTime,
	})
	f.addEntry(entity.FinanceEntry{
		ID: "debt-" + id, CompanyID: testCompany, SourceType: entity.FinanceSourceSupplier, SourceID: "sup-1",
		Type: entity.FinanceEntryTypeSupplierDebt, Amount: decimal.NewFromInt(int64(remaining) * cost),
		BatchID: id, State: entity.EntryStateActive, CreatedAt: seedTime,
	})
}

func (f *fixture) ownBatch(id string, qty, remaining int, cost int64) {
	f.t.Helper()
	f.addBatch(entity.StockBatch{
		ID: id, ProductID: testProduct, CompanyID: testCompany,
		Quantity: qty, RemainingQuantity: remaining, CostPrice: decimal.NewFromInt(cost),
		IsOwnPurchase: true, Status: entity.BatchStatusActive, CreatedAt: seedTime,
	})
}

// addBatch registra el lote y suma su remanente al stock del producto.
func (f *fixture) addBatch(b entity.StockBatch) {
	f.t.Helper()
	b.SyncStatus()
	require.NoError(f.t, f.store.Batches().Create(f.ctx, &b))
	if b.ProductID == testProduct {
		require.NoError(f.t, f.store.Products().AddStock(f.ctx, testProduct, b.RemainingQuantity))
	}
}

func (f *fixture) addEntry(e entity.FinanceEntry) {
	f.t.Helper()
	require.NoError(f.t, f.store.Entries().Create(f.ctx, &e))
}

func (f *fixture) batch(id string) entity.StockBatch {
	f.t.Helper()
	b, err := f.store.Batches().GetByID(f.ctx, id)
	require.NoError(f.t, err)
	require.NotNil(f.t, b)
	return *b
}

func (f *fixture) stock() int {
	f.t.Helper()
	p, err := f.store.Products().GetByID(f.ctx, testProduct)
	require.NoError(f.t, err)
	return p.Stock
}

func (f *fixture) history(batchID string) []entity.FinanceEntry {
	f.t.Helper()
	entries, err := f.store.Entries().Find(f.ctx, repository.BatchHistory(testCompany, batchID))
	require.NoError(f.t, err)
	return entries
}

func (f *fixture) active(batchID string) []entity.FinanceEntry {
	f.t.Helper()
	entries, err := f.store.Entries().Find(f.ctx, repository.ActiveBatchEntries(testCompany, batchID))
	require.NoError(f.t, err)
	return entries
}

func (f *fixture) changes(batchID string) []entity.StockChange {
	f.t.Helper()
	changes, err := f.store.Changes().ListByBatch(f.ctx, batchID, 0, 0)
	require.NoError(f.t, err)
	return changes
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
