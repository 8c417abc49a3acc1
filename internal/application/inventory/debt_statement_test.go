package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

type captureRenderer struct {
	got *app.DebtStatement
}

func (r *captureRenderer) RenderDebtStatement(_ context.Context, st app.DebtStatement) ([]byte, error) {
	r.got = &st
	return []byte("%PDF-fake"), nil
}

func TestDebtStatement_IncluyeAnulados(t *testing.T) {
	f := newFixture(t)
	f.creditBatch("b1", 10, 10, 100)
	require.NoError(t, adjust(f, creditAdjustment("b1", -4)))
	require.NoError(t, adjust(f, ownConversion("b1")))

	r := &captureRenderer{}
	uc := app.NewDebtStatementUseCase(f.store.Batches(), f.store.Products(), f.store.Entries(), r)
	out, err := uc.Render(f.ctx, testCompany, "b1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))

	require.NotNil(t, r.got)
	assert.Len(t, r.got.Entries, 2, "deuda y reembolso, ambos anulados")
	for _, e := range r.got.Entries {
		assert.True(t, e.IsDeleted())
	}
	assert.True(t, decimal.Zero.Equal(r.got.NetLiability))
	assert.True(t, decimal.Zero.Equal(r.got.Expected))
	assert.Equal(t, "Harina", r.got.Product.Name)

	_, err = uc.Build(f.ctx, "comp-2", "b1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Build(f.ctx, testCompany, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
