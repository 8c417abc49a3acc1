package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

const batchColumns = `id, product_id, company_id, quantity, remaining_quantity, damaged_quantity, cost_price,
	supplier_id, is_own_purchase, is_credit, status, notes, created_at, updated_at`

// StockBatchRepo implementación del puerto StockBatchRepository sobre PostgreSQL (usable con pool o tx).
type StockBatchRepo struct {
	q Querier
}

// NewStockBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return &StockBatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *StockBatchRepo) Create(ctx context.Context, b *entity.StockBatch) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_batches (`+batchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		b.ID, b.ProductID, b.CompanyID, b.Quantity, b.RemainingQuantity, b.DamagedQuantity, b.CostPrice,
		nullIfEmpty(b.SupplierID), b.IsOwnPurchase, b.IsCredit, string(b.Status), b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; (nil, nil) si no existe.
func (r *StockBatchRepo) GetByID(ctx context.Context, id string) (*entity.StockBatch, error) {
	return r.get(ctx, `SELECT `+batchColumns+` FROM stock_batches WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *StockBatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockBatch, error) {
	return r.get(ctx, `SELECT `+batchColumns+` FROM stock_batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockBatchRepo) get(ctx context.Context, query, id string) (*entity.StockBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock batch: %w", err)
	}
	return b, nil
}

// Update reescribe cantidades, costo, clasificación y estado del lote.
func (r *StockBatchRepo) Update(ctx context.Context, b *entity.StockBatch) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_batches SET quantity = $2, remaining_quantity = $3, damaged_quantity = $4, cost_price = $5,
			supplier_id = $6, is_own_purchase = $7, is_credit = $8, status = $9, notes = $10, updated_at = $11
		WHERE id = $1`,
		b.ID, b.Quantity, b.RemainingQuantity, b.DamagedQuantity, b.CostPrice,
		nullIfEmpty(b.SupplierID), b.IsOwnPurchase, b.IsCredit, string(b.Status), b.Notes, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProduct lotes de un producto, del más antiguo al más reciente.
func (r *StockBatchRepo) ListByProduct(ctx context.Context, companyID, productID string) ([]entity.StockBatch, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+batchColumns+` FROM stock_batches
		WHERE company_id = $1 AND product_id = $2
		ORDER BY created_at, id`, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock batches: %w", err)
	}
	defer rows.Close()
	var list []entity.StockBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock batch: %w", err)
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.StockBatch, error) {
	var b entity.StockBatch
	var supplierID *string
	var status string
	if err := row.Scan(
		&b.ID, &b.ProductID, &b.CompanyID, &b.Quantity, &b.RemainingQuantity, &b.DamagedQuantity, &b.CostPrice,
		&supplierID, &b.IsOwnPurchase, &b.IsCredit, &status, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.SupplierID = fromNull(supplierID)
	b.Status = entity.BatchStatus(status)
	return &b, nil
}
