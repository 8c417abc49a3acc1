package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockChangeRepository = (*StockChangeRepo)(nil)

// StockChangeRepo auditoría de cambios de stock (solo INSERT y SELECT).
type StockChangeRepo struct {
	q Querier
}

// NewStockChangeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockChangeRepository(q Querier) *StockChangeRepo {
	return &StockChangeRepo{q: q}
}

// Create inserta un registro de auditoría.
func (r *StockChangeRepo) Create(ctx context.Context, c *entity.StockChange) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_changes (id, company_id, product_id, batch_id, change, reason, cost_price,
			supplier_id, is_own_purchase, is_credit, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.CompanyID, c.ProductID, c.BatchID, c.Change, c.Reason, c.CostPrice,
		nullIfEmpty(c.SupplierID), c.IsOwnPurchase, c.IsCredit, c.Notes, nullIfEmpty(c.CreatedBy), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock change: %w", err)
	}
	return nil
}

// ListByBatch cambios de un lote, más recientes primero. limit <= 0 = sin límite.
func (r *StockChangeRepo) ListByBatch(ctx context.Context, batchID string, limit, offset int) ([]entity.StockChange, error) {
	query := `
		SELECT id, company_id, product_id, batch_id, change, reason, cost_price,
			supplier_id, is_own_purchase, is_credit, notes, created_by, created_at
		FROM stock_changes WHERE batch_id = $1
		ORDER BY created_at DESC, id`
	args := []any{batchID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock changes: %w", err)
	}
	defer rows.Close()
	var list []entity.StockChange
	for rows.Next() {
		var c entity.StockChange
		var supplierID, createdBy *string
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.ProductID, &c.BatchID, &c.Change, &c.Reason, &c.CostPrice,
			&supplierID, &c.IsOwnPurchase, &c.IsCredit, &c.Notes, &createdBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock change: %w", err)
		}
		c.SupplierID = fromNull(supplierID)
		c.CreatedBy = fromNull(createdBy)
		list = append(list, c)
	}
	return list, rows.Err()
}
