package realtime_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/realtime"
)

// fakeUpstream cuenta listeners y permite emitir eventos a mano.
type fakeUpstream struct {
	mu      sync.Mutex
	emits   map[string]func(entity.StockEvent)
	started atomic.Int32
	active  atomic.Int32
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{emits: map[string]func(entity.StockEvent){}}
}

func (f *fakeUpstream) Listen(ctx context.Context, q realtime.Query, emit func(entity.StockEvent)) error {
	f.started.Add(1)
	f.active.Add(1)
	defer f.active.Add(-1)
	f.mu.Lock()
	f.emits[q.Key()] = emit
	f.mu.Unlock()
	<-ctx.Done()
	f.mu.Lock()
	delete(f.emits, q.Key())
	f.mu.Unlock()
	return nil
}

func (f *fakeUpstream) emit(t *testing.T, q realtime.Query, ev entity.StockEvent) {
	t.Helper()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		_, ok := f.emits[q.Key()]
		return ok
	}, time.Second, 5*time.Millisecond)
	f.mu.Lock()
	fn := f.emits[q.Key()]
	f.mu.Unlock()
	fn(ev)
}

func receive(t *testing.T, ch <-chan entity.StockEvent) entity.StockEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "canal cerrado")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no llegó el evento")
	}
	return entity.StockEvent{}
}

func TestManager_CompartenListener(t *testing.T) {
	up := newFakeUpstream()
	m := realtime.NewManager(up, nil)
	defer m.Close()

	q := realtime.Query{CompanyID: "comp-1", ProductID: "prod-1"}
	ch1, unsub1 := m.Subscribe(context.Background(), q)
	ch2, unsub2 := m.Subscribe(context.Background(), q)

	up.emit(t, q, entity.StockEvent{CompanyID: "comp-1", ProductID: "prod-1", Stock: 7})
	assert.Equal(t, 7, receive(t, ch1).Stock)
	assert.Equal(t, 7, receive(t, ch2).Stock)
	assert.Equal(t, int32(1), up.started.Load(), "un solo listener upstream por query")
	assert.Equal(t, 1, m.Listeners())

	unsub1()
	assert.Equal(t, 1, m.Listeners(), "sigue vivo mientras quede un suscriptor")
	unsub2()
	assert.Equal(t, 0, m.Listeners())
	assert.Eventually(t, func() bool { return up.active.Load() == 0 }, time.Second, 5*time.Millisecond)
}

func TestManager_ReenviaUltimoEvento(t *testing.T) {
	up := newFakeUpstream()
	m := realtime.NewManager(up, nil)
	defer m.Close()

	q := realtime.Query{CompanyID: "comp-1", ProductID: "prod-1"}
	ch1, unsub1 := m.Subscribe(context.Background(), q)
	defer unsub1()
	up.emit(t, q, entity.StockEvent{CompanyID: "comp-1", ProductID: "prod-1", Stock: 3})
	receive(t, ch1)

	ch2, unsub2 := m.Subscribe(context.Background(), q)
	defer unsub2()
	assert.Equal(t, 3, receive(t, ch2).Stock, "el suscriptor tardío recibe el último evento")
}

func TestManager_CancelacionDeContexto(t *testing.T) {
	up := newFakeUpstream()
	m := realtime.NewManager(up, nil)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := m.Subscribe(ctx, realtime.Query{CompanyID: "comp-1"})
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("el canal no se cerró")
	}
	assert.Eventually(t, func() bool { return m.Listeners() == 0 }, time.Second, 5*time.Millisecond)
}

func TestManager_Close(t *testing.T) {
	m := realtime.NewManager(newFakeUpstream(), nil)
	ch, unsub := m.Subscribe(context.Background(), realtime.Query{CompanyID: "comp-1"})
	m.Close()
	_, ok := <-ch
	assert.False(t, ok)
	unsub()

	ch, _ = m.Subscribe(context.Background(), realtime.Query{CompanyID: "comp-1"})
	_, ok = <-ch
	assert.False(t, ok, "tras Close las suscripciones nacen cerradas")
}

func TestManager_CloseLiberaVigilantes(t *testing.T) {
	m := realtime.NewManager(newFakeUpstream(), nil)
	for _, company := range []string{"comp-1", "comp-1", "comp-2"} {
		m.Subscribe(context.Background(), realtime.Query{CompanyID: company})
	}
	require.Equal(t, 3, m.Watchers())

	m.Close()
	assert.Eventually(t, func() bool { return m.Watchers() == 0 }, time.Second, 5*time.Millisecond)
	assert.NotPanics(t, m.Close)
}

func TestQuery_Matches(t *testing.T) {
	ev := entity.StockEvent{CompanyID: "comp-1", ProductID: "prod-1"}
	assert.True(t, realtime.Query{CompanyID: "comp-1"}.Matches(ev))
	assert.True(t, realtime.Query{CompanyID: "comp-1", ProductID: "prod-1"}.Matches(ev))
	assert.False(t, realtime.Query{CompanyID: "comp-1", ProductID: "prod-2"}.Matches(ev))
	assert.False(t, realtime.Query{CompanyID: "comp-2"}.Matches(ev))
}
