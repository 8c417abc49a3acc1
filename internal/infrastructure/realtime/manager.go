// Package realtime comparte suscripciones en vivo a cambios de stock.
//
// Un Manager se crea una vez en la raíz de la aplicación y se inyecta donde haga falta.
// Por cada Query hay a lo sumo un listener upstream; los suscriptores locales comparten ese
// listener y el último evento se reenvía a quien se suscribe tarde. Cuando el último suscriptor
// se va, el listener upstream se cancela.
package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// Query clave de suscripción. ProductID vacío = todos los productos de la empresa.
type Query struct {
	CompanyID string
	ProductID string
}

// Key identificador estable de la query.
func (q Query) Key() string {
	return q.CompanyID + "/" + q.ProductID
}

// Matches indica si el evento corresponde a la query.
func (q Query) Matches(ev entity.StockEvent) bool {
	if ev.CompanyID != q.CompanyID {
		return false
	}
	return q.ProductID == "" || ev.ProductID == q.ProductID
}

// Upstream fuente de eventos. Listen bloquea hasta que ctx se cancela o falla la fuente,
// llamando emit por cada evento que coincide con q.
type Upstream interface {
	Listen(ctx context.Context, q Query, emit func(entity.StockEvent)) error
}

// Option configura el Manager.
type Option func(*Manager)

// WithBuffer tamaño del buffer de cada suscriptor.
func WithBuffer(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.buffer = n
		}
	}
}

// WithRetryDelay espera entre reintentos cuando el upstream falla.
func WithRetryDelay(d time.Duration) Option {
	return func(m *Manager) { m.retryDelay = d }
}

// Manager multiplexa listeners upstream con conteo de referencias.
type Manager struct {
	upstream   Upstream
	log        *logger.Logger
	buffer     int
	retryDelay time.Duration

	mu       sync.Mutex
	feeds    map[string]*feed
	closed   bool
	done     chan struct{} // se cierra en Close
	watchers atomic.Int32
}

type feed struct {
	query  Query
	cancel context.CancelFunc
	subs   map[int]chan entity.StockEvent
	nextID int
	last   *entity.StockEvent
}

// NewManager construye el manager sobre una fuente upstream.
func NewManager(upstream Upstream, log *logger.Logger, opts ...Option) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{
		upstream:   upstream,
		log:        log.Component("realtime"),
		buffer:     16,
		retryDelay: time.Second,
		feeds:      map[string]*feed{},
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registra un suscriptor. El canal se cierra al llamar la función devuelta,
// al cancelarse ctx o al cerrar el Manager. Si el suscriptor es lento se descartan eventos
// viejos y se conserva el más reciente.
func (m *Manager) Subscribe(ctx context.Context, q Query) (<-chan entity.StockEvent, func()) {
	ch := make(chan entity.StockEvent, m.buffer)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	f, ok := m.feeds[q.Key()]
	if !ok {
		fctx, cancel := context.WithCancel(context.Background())
		f = &feed{query: q, cancel: cancel, subs: map[int]chan entity.StockEvent{}}
		m.feeds[q.Key()] = f
		go m.run(fctx, f)
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	if f.last != nil {
		ch <- *f.last
	}
	m.mu.Unlock()

	stop := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(stop)
			m.remove(f, id)
		})
	}
	m.watchers.Add(1)
	go func() {
		defer m.watchers.Add(-1)
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-stop:
		case <-m.done:
		}
	}()
	return ch, unsubscribe
}

// Listeners cantidad de listeners upstream activos.
func (m *Manager) Listeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.feeds)
}

// Watchers goroutines que vigilan el contexto de algún suscriptor.
func (m *Manager) Watchers() int {
	return int(m.watchers.Load())
}

// Close cancela todos los listeners, cierra los canales de los suscriptores y libera
// las goroutines que vigilan sus contextos. Llamarlo más de una vez no tiene efecto.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.done)
	for key, f := range m.feeds {
		f.cancel()
		for id, ch := range f.subs {
			close(ch)
			delete(f.subs, id)
		}
		delete(m.feeds, key)
	}
}

func (m *Manager) remove(f *feed, id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := f.subs[id]
	if !ok {
		return
	}
	close(ch)
	delete(f.subs, id)
	if len(f.subs) == 0 {
		f.cancel()
		if m.feeds[f.query.Key()] == f {
			delete(m.feeds, f.query.Key())
		}
	}
}

func (m *Manager) run(ctx context.Context, f *feed) {
	for {
		err := m.upstream.Listen(ctx, f.query, func(ev entity.StockEvent) { m.dispatch(f, ev) })
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			m.log.Warn().Err(err).Str("query", f.query.Key()).Msg("listener upstream falló, reintentando")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.retryDelay):
		}
	}
}

func (m *Manager) dispatch(f *feed, ev entity.StockEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.last = &ev
	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
