package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Repositories repositorios atados a una misma transacción.
type Repositories struct {
	Batches  repository.StockBatchRepository
	Changes  repository.StockChangeRepository
	Entries  repository.FinanceEntryRepository
	Products repository.ProductRepository
	Events   repository.ChangeEventRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no se persiste nada; si no, todas las escrituras se confirman juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
