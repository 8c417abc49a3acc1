package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockBatchRepository define el puerto de persistencia para lotes de inventario.
// GetByID y GetForUpdate devuelven (nil, nil) si el lote no existe.
type StockBatchRepository interface {
	Create(ctx context.Context, batch *entity.StockBatch) error
	GetByID(ctx context.Context, id string) (*entity.StockBatch, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockBatch, error)
	Update(ctx context.Context, batch *entity.StockBatch) error
	ListByProduct(ctx context.Context, companyID, productID string) ([]entity.StockBatch, error)
}
