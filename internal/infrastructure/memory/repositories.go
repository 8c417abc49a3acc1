package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ repository.StockBatchRepository   = (*StockBatchRepo)(nil)
	_ repository.StockChangeRepository  = (*StockChangeRepo)(nil)
	_ repository.FinanceEntryRepository = (*FinanceEntryRepo)(nil)
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.SettingsRepository     = (*SettingsRepo)(nil)
	_ repository.ChangeEventRepository  = (*EventRepo)(nil)
)

// StockBatchRepo lotes en memoria.
type StockBatchRepo struct{ a access }

func (r *StockBatchRepo) Create(_ context.Context, b *entity.StockBatch) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.batches[b.ID]; ok {
			return domain.ErrDuplicate
		}
		st.batches[b.ID] = *b
		return nil
	})
}

func (r *StockBatchRepo) GetByID(_ context.Context, id string) (*entity.StockBatch, error) {
	var out *entity.StockBatch
	err := r.a.read(func(st *state) error {
		if b, ok := st.batches[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

// GetForUpdate igual que GetByID: dentro de una tx el store ya está bloqueado.
func (r *StockBatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockBatch, error) {
	return r.GetByID(ctx, id)
}

func (r *StockBatchRepo) Update(_ context.Context, b *entity.StockBatch) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.batches[b.ID]; !ok {
			return domain.ErrNotFound
		}
		st.batches[b.ID] = *b
		return nil
	})
}

func (r *StockBatchRepo) ListByProduct(_ context.Context, companyID, productID string) ([]entity.StockBatch, error) {
	var out []entity.StockBatch
	err := r.a.read(func(st *state) error {
		for _, b := range st.batches {
			if b.CompanyID == companyID && b.ProductID == productID {
				out = append(out, b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

// StockChangeRepo registro de cambios en memoria (solo inserción).
type StockChangeRepo struct{ a access }

func (r *StockChangeRepo) Create(_ context.Context, c *entity.StockChange) error {
	return r.a.write(func(st *state) error {
		st.changes = append(st.changes, *c)
		return nil
	})
}

func (r *StockChangeRepo) ListByBatch(_ context.Context, batchID string, limit, offset int) ([]entity.StockChange, error) {
	var out []entity.StockChange
	err := r.a.read(func(st *state) error {
		// más recientes primero, como el adaptador SQL
		for i := len(st.changes) - 1; i >= 0; i-- {
			if st.changes[i].BatchID == batchID {
				out = append(out, st.changes[i])
			}
		}
		return nil
	})
	return paginate(out, limit, offset), err
}

// FinanceEntryRepo asientos en memoria; Find respeta FinanceEntryQuery.
type FinanceEntryRepo struct{ a access }

func (r *FinanceEntryRepo) Create(_ context.Context, e *entity.FinanceEntry) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.entries[e.ID]; ok {
			return domain.ErrDuplicate
		}
		st.entries[e.ID] = *e
		st.order = append(st.order, e.ID)
		return nil
	})
}

func (r *FinanceEntryRepo) Update(_ context.Context, e *entity.FinanceEntry) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.entries[e.ID]; !ok {
			return domain.ErrNotFound
		}
		st.entries[e.ID] = *e
		return nil
	})
}

func (r *FinanceEntryRepo) Find(_ context.Context, q repository.FinanceEntryQuery) ([]entity.FinanceEntry, error) {
	var out []entity.FinanceEntry
	err := r.a.read(func(st *state) error {
		for _, id := range st.order {
			if e := st.entries[id]; q.Matches(e) {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, err
}

// ProductRepo productos en memoria. SKU único por empresa.
type ProductRepo struct{ a access }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.write(func(st *state) error {
		for _, other := range st.products {
			if other.ID == p.ID || (other.CompanyID == p.CompanyID && other.SKU == p.SKU) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) AddStock(_ context.Context, id string, delta int) error {
	return r.a.write(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Stock += delta
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]entity.Product, error) {
	var out []entity.Product
	err := r.a.read(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, limit, offset), err
}

// SettingsRepo preferencias de inventario en memoria.
type SettingsRepo struct{ a access }

func (r *SettingsRepo) Get(_ context.Context, companyID string) (*entity.InventorySettings, error) {
	var out *entity.InventorySettings
	err := r.a.read(func(st *state) error {
		if s, ok := st.settings[companyID]; ok {
			c := cloneSettings(s)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *SettingsRepo) Upsert(_ context.Context, s *entity.InventorySettings) error {
	return r.a.write(func(st *state) error {
		st.settings[s.CompanyID] = cloneSettings(*s)
		return nil
	})
}

// EventRepo acumula eventos de la transacción; el TxRunner los entrega al Bus tras el commit.
type EventRepo struct {
	pending []entity.StockEvent
}

func (r *EventRepo) Publish(_ context.Context, ev entity.StockEvent) error {
	r.pending = append(r.pending, ev)
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
