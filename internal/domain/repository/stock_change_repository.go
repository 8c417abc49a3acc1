package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockChangeRepository puerto de auditoría de cambios de stock. Solo inserta y lee:
// los registros son inmutables.
type StockChangeRepository interface {
	Create(ctx context.Context, change *entity.StockChange) error
	ListByBatch(ctx context.Context, batchID string, limit, offset int) ([]entity.StockChange, error)
}
