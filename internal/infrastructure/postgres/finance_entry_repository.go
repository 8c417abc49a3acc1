package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.FinanceEntryRepository = (*FinanceEntryRepo)(nil)

const entryColumns = `id, company_id, source_type, source_id, type, amount, batch_id, refunded_debt_id,
	state, description, date, created_by, created_at, updated_at`

// FinanceEntryRepo asientos de deuda/reembolso con proveedores. Nunca borra filas: anular es
// cambiar state a 'deleted'.
type FinanceEntryRepo struct {
	q Querier
}

// NewFinanceEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFinanceEntryRepository(q Querier) *FinanceEntryRepo {
	return &FinanceEntryRepo{q: q}
}

// Create inserta un asiento.
func (r *FinanceEntryRepo) Create(ctx context.Context, e *entity.FinanceEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO finance_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.CompanyID, e.SourceType, e.SourceID, e.Type, e.Amount, e.BatchID, nullIfEmpty(e.RefundedDebtID),
		string(e.State), e.Description, e.Date, nullIfEmpty(e.CreatedBy), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert finance entry: %w", err)
	}
	return nil
}

// Update reescribe monto, proveedor y estado de un asiento.
func (r *FinanceEntryRepo) Update(ctx context.Context, e *entity.FinanceEntry) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE finance_entries SET source_id = $2, amount = $3, state = $4, description = $5, updated_at = $6
		WHERE id = $1`,
		e.ID, e.SourceID, e.Amount, string(e.State), e.Description, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update finance entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Find asientos que cumplen q, en orden de creación.
func (r *FinanceEntryRepo) Find(ctx context.Context, q repository.FinanceEntryQuery) ([]entity.FinanceEntry, error) {
	where, args := entryWhere(q)
	rows, err := r.q.Query(ctx, `SELECT `+entryColumns+` FROM finance_entries`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("find finance entries: %w", err)
	}
	defer rows.Close()
	var list []entity.FinanceEntry
	for rows.Next() {
		var e entity.FinanceEntry
		var refunded, createdBy *string
		var state string
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.SourceType, &e.SourceID, &e.Type, &e.Amount, &e.BatchID, &refunded,
			&state, &e.Description, &e.Date, &createdBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan finance entry: %w", err)
		}
		e.RefundedDebtID = fromNull(refunded)
		e.CreatedBy = fromNull(createdBy)
		e.State = entity.EntryState(state)
		list = append(list, e)
	}
	return list, rows.Err()
}

// entryWhere traduce la query a SQL. El filtro de anulados se agrega salvo IncludeDeleted.
func entryWhere(q repository.FinanceEntryQuery) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if !q.IncludeDeleted {
		conds = append(conds, `state = 'active'`)
	}
	if q.CompanyID != "" {
		add("company_id = $%d", q.CompanyID)
	}
	if q.BatchID != "" {
		add("batch_id = $%d", q.BatchID)
	}
	if q.SourceID != "" {
		add("source_id = $%d", q.SourceID)
	}
	if len(q.Types) > 0 {
		add("type = ANY($%d)", q.Types)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
