package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/realtime"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

var (
	_ repository.ChangeEventRepository = (*ChangeEventRepo)(nil)
	_ realtime.Upstream                = (*ChangeFeed)(nil)
)

// ChangeEventRepo publica eventos con pg_notify. Dentro de una tx PostgreSQL retiene el
// NOTIFY hasta el commit y lo descarta en rollback.
type ChangeEventRepo struct {
	q       Querier
	channel string
}

// NewChangeEventRepository construye el publicador sobre pool o tx.
func NewChangeEventRepository(q Querier, channel string) *ChangeEventRepo {
	return &ChangeEventRepo{q: q, channel: channel}
}

// notifyPayloadLimit PostgreSQL rechaza payloads de NOTIFY de 8000 bytes o más.
const notifyPayloadLimit = 8000

// Publish serializa el evento como JSON y lo envía al canal.
func (r *ChangeEventRepo) Publish(ctx context.Context, ev entity.StockEvent) error {
	payload, err := notifyPayload(ev)
	if err != nil {
		return fmt.Errorf("encode stock event: %w", err)
	}
	if _, err := r.q.Exec(ctx, `SELECT pg_notify($1, $2)`, r.channel, string(payload)); err != nil {
		return fmt.Errorf("notify stock event: %w", err)
	}
	return nil
}

// notifyPayload serializa el evento. Si no cabe en un NOTIFY se omite la lista de lotes y los
// suscriptores releen los lotes del producto.
func notifyPayload(ev entity.StockEvent) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil || len(payload) < notifyPayloadLimit {
		return payload, err
	}
	ev.BatchIDs = nil
	ev.BatchesOmitted = true
	return json.Marshal(ev)
}

// ChangeFeed upstream del realtime.Manager: una conexión dedicada con LISTEN por query.
type ChangeFeed struct {
	pool    *pgxpool.Pool
	channel string
	log     *logger.Logger
}

// NewChangeFeed construye el feed sobre el pool.
func NewChangeFeed(pool *pgxpool.Pool, channel string, log *logger.Logger) *ChangeFeed {
	if log == nil {
		log = logger.Nop()
	}
	return &ChangeFeed{pool: pool, channel: channel, log: log.Component("change_feed")}
}

// Listen toma una conexión del pool, escucha el canal y emite los eventos que coinciden con q
// hasta que ctx se cancele.
func (f *ChangeFeed) Listen(ctx context.Context, q realtime.Query, emit func(entity.StockEvent)) error {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen conn: %w", err)
	}
	defer func() {
		// la conexión vuelve al pool: no debe seguir suscrita
		_, _ = conn.Exec(context.Background(), "UNLISTEN *")
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{f.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", f.channel, err)
	}
	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait notification: %w", err)
		}
		var ev entity.StockEvent
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			f.log.Warn().Err(err).Str("channel", n.Channel).Msg("payload de evento inválido")
			continue
		}
		if q.Matches(ev) {
			emit(ev)
		}
	}
}
