package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ChangeEventRepository publica eventos de cambio de stock dentro de la transacción en curso.
// El evento solo llega a los suscriptores si la transacción hace commit.
type ChangeEventRepository interface {
	Publish(ctx context.Context, event entity.StockEvent) error
}
