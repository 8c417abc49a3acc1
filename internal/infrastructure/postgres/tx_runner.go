package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool    *pgxpool.Pool
	channel string
}

// NewTxRunner construye el runner con el pool. channel es el canal NOTIFY de eventos de stock.
func NewTxRunner(pool *pgxpool.Pool, channel string) *TxRunner {
	return &TxRunner{pool: pool, channel: channel}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los NOTIFY emitidos dentro de fn solo se entregan si el commit tiene éxito.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.Repositories{
		Batches:  NewStockBatchRepository(tx),
		Changes:  NewStockChangeRepository(tx),
		Entries:  NewFinanceEntryRepository(tx),
		Products: NewProductRepository(tx),
		Events:   NewChangeEventRepository(tx, r.channel),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
