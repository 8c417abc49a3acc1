package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/realtime"
)

var _ realtime.Upstream = (*Bus)(nil)

// Bus difusión de eventos en proceso; upstream del realtime.Manager con STORAGE_DRIVER=memory.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]busListener
}

type busListener struct {
	query realtime.Query
	emit  func(entity.StockEvent)
}

// NewBus crea un bus sin listeners.
func NewBus() *Bus {
	return &Bus{listeners: map[int]busListener{}}
}

// Publish entrega el evento a los listeners cuya query coincide.
func (b *Bus) Publish(ev entity.StockEvent) {
	b.mu.RLock()
	targets := make([]func(entity.StockEvent), 0, len(b.listeners))
	for _, l := range b.listeners {
		if l.query.Matches(ev) {
			targets = append(targets, l.emit)
		}
	}
	b.mu.RUnlock()
	for _, emit := range targets {
		emit(ev)
	}
}

// Listen registra emit hasta que ctx se cancele.
func (b *Bus) Listen(ctx context.Context, q realtime.Query, emit func(entity.StockEvent)) error {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = busListener{query: q, emit: emit}
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.listeners, id)
	b.mu.Unlock()
	return nil
}

// Listeners cantidad de listeners registrados.
func (b *Bus) Listeners() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
