package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// AddStock suma delta (con signo) al contador agregado del producto.
	AddStock(ctx context.Context, id string, delta int) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]entity.Product, error)
}
