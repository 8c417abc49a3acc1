// Package memory implementación en memoria de los repositorios de inventario, para tests y
// entornos efímeros (STORAGE_DRIVER=memory).
//
// Las transacciones trabajan sobre una copia del estado y la intercambian al confirmar,
// por lo que un error dentro de TxRunner.Run no deja escrituras parciales.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

type state struct {
	batches  map[string]entity.StockBatch
	changes  []entity.StockChange
	entries  map[string]entity.FinanceEntry
	order    []string // orden de inserción de entries
	products map[string]entity.Product
	settings map[string]entity.InventorySettings
}

func newState() *state {
	return &state{
		batches:  map[string]entity.StockBatch{},
		entries:  map[string]entity.FinanceEntry{},
		products: map[string]entity.Product{},
		settings: map[string]entity.InventorySettings{},
	}
}

func (s *state) clone() *state {
	c := &state{
		batches:  make(map[string]entity.StockBatch, len(s.batches)),
		changes:  append([]entity.StockChange(nil), s.changes...),
		entries:  make(map[string]entity.FinanceEntry, len(s.entries)),
		order:    append([]string(nil), s.order...),
		products: make(map[string]entity.Product, len(s.products)),
		settings: make(map[string]entity.InventorySettings, len(s.settings)),
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.settings {
		c.settings[k] = cloneSettings(v)
	}
	return c
}

func cloneSettings(s entity.InventorySettings) entity.InventorySettings {
	if s.LowStockThreshold != nil {
		v := *s.LowStockThreshold
		s.LowStockThreshold = &v
	}
	return s
}

// access abstrae cómo un repositorio llega al estado: con candado (fuera de tx)
// o directo sobre la copia de la transacción.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store estado compartido protegido por un RWMutex.
type Store struct {
	mu       sync.RWMutex
	st       *state
	bus      *Bus
	onCommit func() error
}

// NewStore crea un store vacío. bus puede ser nil si nadie escucha eventos.
func NewStore(bus *Bus) *Store {
	return &Store{st: newState(), bus: bus}
}

// FailCommitWith hace que los commits siguientes fallen con err (nil restablece).
// Simula una caída del motor durante el commit.
func (s *Store) FailCommitWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.onCommit = nil
		return
	}
	s.onCommit = func() error { return err }
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Batches repositorio de lotes fuera de transacción.
func (s *Store) Batches() *StockBatchRepo { return &StockBatchRepo{a: s} }

// Changes repositorio de cambios de stock fuera de transacción.
func (s *Store) Changes() *StockChangeRepo { return &StockChangeRepo{a: s} }

// Entries repositorio de asientos fuera de transacción.
func (s *Store) Entries() *FinanceEntryRepo { return &FinanceEntryRepo{a: s} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{a: s} }

// Settings repositorio de preferencias.
func (s *Store) Settings() *SettingsRepo { return &SettingsRepo{a: s} }

// TxRunner runner de transacciones sobre este store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{store: s} }

// txState estado de una transacción en curso; no usa candados porque el TxRunner
// ya tiene el lock de escritura del store.
type txState struct {
	st *state
}

func (t *txState) read(fn func(st *state) error) error  { return fn(t.st) }
func (t *txState) write(fn func(st *state) error) error { return fn(t.st) }

// TxRunner implementa inventory.TxRunner. Las transacciones se serializan con el lock del store,
// equivalente a los SELECT FOR UPDATE del adaptador PostgreSQL.
type TxRunner struct {
	store *Store
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// Run ejecuta fn sobre una copia del estado; si fn y el commit terminan sin error la copia
// reemplaza al estado y se entregan los eventos pendientes.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	events, err := r.commit(fn)
	if err != nil {
		return err
	}

	if s.bus != nil {
		for _, ev := range events {
			s.bus.Publish(ev)
		}
	}
	return nil
}

// commit corre fn con el lock de escritura tomado y devuelve los eventos a entregar.
// Si fn entra en pánico el lock se libera igual y el estado queda intacto.
func (r *TxRunner) commit(fn func(repos inventory.Repositories) error) ([]entity.StockEvent, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{st: s.st.clone()}
	events := &EventRepo{}
	repos := inventory.Repositories{
		Batches:  &StockBatchRepo{a: tx},
		Changes:  &StockChangeRepo{a: tx},
		Entries:  &FinanceEntryRepo{a: tx},
		Products: &ProductRepo{a: tx},
		Events:   events,
	}
	if err := fn(repos); err != nil {
		return nil, err
	}
	if s.onCommit != nil {
		if err := s.onCommit(); err != nil {
			return nil, err
		}
	}
	s.st = tx.st
	return events.pending, nil
}
