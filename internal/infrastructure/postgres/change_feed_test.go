package postgres

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func stockEvent(batches int) entity.StockEvent {
	ev := entity.StockEvent{
		CompanyID: "comp-1",
		ProductID: "prod-1",
		Stock:     42,
		Reason:    "batch_adjustment",
		At:        time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	for i := 0; i < batches; i++ {
		ev.BatchIDs = append(ev.BatchIDs, uuid.New().String())
	}
	return ev
}

func TestNotifyPayload_ConservaLotesSiCabe(t *testing.T) {
	ev := stockEvent(3)
	payload, err := notifyPayload(ev)
	require.NoError(t, err)

	var got entity.StockEvent
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, ev.BatchIDs, got.BatchIDs)
	assert.False(t, got.BatchesOmitted)
}

func TestNotifyPayload_AjusteGrandeCabeEnNotify(t *testing.T) {
	ev := stockEvent(300)
	full, err := json.Marshal(ev)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(full), notifyPayloadLimit)

	payload, err := notifyPayload(ev)
	require.NoError(t, err)
	assert.Less(t, len(payload), notifyPayloadLimit)

	var got entity.StockEvent
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.True(t, got.BatchesOmitted)
	assert.Empty(t, got.BatchIDs)
	assert.Equal(t, "prod-1", got.ProductID)
	assert.Equal(t, 42, got.Stock)
}
