package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// writeSet escrituras preparadas durante un ajuste. Nada se escribe hasta flush, y un mismo
// lote repetido en la entrada ve el estado preparado por los ítems anteriores.
type writeSet struct {
	batches    map[string]*entity.StockBatch
	batchOrder []string
	dirty      map[string]bool

	changes []entity.StockChange

	entries    map[string]*entity.FinanceEntry
	byBatch    map[string][]string
	entryOrder []string
	created    map[string]bool
	touched    map[string]bool
}

func newWriteSet() *writeSet {
	return &writeSet{
		batches: map[string]*entity.StockBatch{},
		dirty:   map[string]bool{},
		entries: map[string]*entity.FinanceEntry{},
		byBatch: map[string][]string{},
		created: map[string]bool{},
		touched: map[string]bool{},
	}
}

// batch devuelve el lote preparado o lo lee con bloqueo de fila.
func (ws *writeSet) batch(ctx context.Context, repo repository.StockBatchRepository, id string) (*entity.StockBatch, error) {
	if b, ok := ws.batches[id]; ok {
		cp := *b
		return &cp, nil
	}
	b, err := repo.GetForUpdate(ctx, id)
	if err != nil || b == nil {
		return nil, err
	}
	ws.batches[id] = b
	ws.batchOrder = append(ws.batchOrder, id)
	cp := *b
	return &cp, nil
}

func (ws *writeSet) stageBatch(b entity.StockBatch) {
	if _, ok := ws.batches[b.ID]; !ok {
		ws.batchOrder = append(ws.batchOrder, b.ID)
	}
	ws.batches[b.ID] = &b
	ws.dirty[b.ID] = true
}

// activeEntries asientos vivos del lote combinando lo leído con lo ya preparado.
func (ws *writeSet) activeEntries(ctx context.Context, repo repository.FinanceEntryRepository, companyID, batchID string) ([]entity.FinanceEntry, error) {
	if _, ok := ws.byBatch[batchID]; !ok {
		found, err := repo.Find(ctx, repository.ActiveBatchEntries(companyID, batchID))
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(found))
		for i := range found {
			e := found[i]
			ws.entries[e.ID] = &e
			ids = append(ids, e.ID)
		}
		ws.byBatch[batchID] = ids
	}
	out := make([]entity.FinanceEntry, 0, len(ws.byBatch[batchID]))
	for _, id := range ws.byBatch[batchID] {
		if e := ws.entries[id]; !e.IsDeleted() {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (ws *writeSet) stagePlan(batchID string, plan domaininv.DebtPlan) {
	for _, u := range plan.Updates {
		ws.entries[u.ID] = &u
		ws.touch(u.ID)
	}
	for _, c := range plan.Creates {
		ws.entries[c.ID] = &c
		ws.byBatch[batchID] = append(ws.byBatch[batchID], c.ID)
		ws.created[c.ID] = true
		ws.touch(c.ID)
	}
}

func (ws *writeSet) touch(id string) {
	if ws.touched[id] {
		return
	}
	ws.touched[id] = true
	ws.entryOrder = append(ws.entryOrder, id)
}

// flush escribe todo lo preparado usando los repositorios de la transacción.
func (ws *writeSet) flush(ctx context.Context, repos Repositories) error {
	for _, id := range ws.batchOrder {
		if !ws.dirty[id] {
			continue
		}
		if err := repos.Batches.Update(ctx, ws.batches[id]); err != nil {
			return err
		}
	}
	for i := range ws.changes {
		if err := repos.Changes.Create(ctx, &ws.changes[i]); err != nil {
			return err
		}
	}
	for _, id := range ws.entryOrder {
		e := ws.entries[id]
		var err error
		if ws.created[id] {
			err = repos.Entries.Create(ctx, e)
		} else {
			err = repos.Entries.Update(ctx, e)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
