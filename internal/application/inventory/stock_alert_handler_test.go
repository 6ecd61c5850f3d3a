package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingNotifier struct {
	alerts []StockAlert
	err    error
}

func (n *capturingNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.alerts = append(n.alerts, alert)
	return n.err
}

func alertTestBatch() *inventory.BatchLot {
	expiry := time.Now().AddDate(1, 0, 0)
	batch, _ := inventory.NewBatchLot(uuid.New(), "LOT-ALERT", decimal.NewFromInt(45), decimal.NewFromInt(40), &expiry)
	return batch
}

func TestStockAlertHandler_EventTypes(t *testing.T) {
	handler := NewStockAlertHandler(zap.NewNop())

	types := handler.EventTypes()

	assert.Contains(t, types, inventory.EventTypeLowStock)
	assert.Contains(t, types, inventory.EventTypeOutOfStock)
	assert.Contains(t, types, inventory.EventTypeBalanceClamped)
}

func TestStockAlertHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards low stock alerts to the notifier", func(t *testing.T) {
		notifier := &capturingNotifier{}
		handler := NewStockAlertHandler(zap.NewNop()).WithNotifier(notifier)
		batch := alertTestBatch()
		event := inventory.NewLowStockEvent(batch, decimal.NewFromInt(45), decimal.NewFromInt(50))

		err := handler.Handle(ctx, event)

		require.NoError(t, err)
		require.Len(t, notifier.alerts, 1)
		assert.Equal(t, "low_stock", notifier.alerts[0].AlertType)
		assert.Equal(t, batch.LotNumber, notifier.alerts[0].LotNumber)
		assert.Equal(t, "45", notifier.alerts[0].Remaining)
	})

	t.Run("forwards out of stock alerts", func(t *testing.T) {
		notifier := &capturingNotifier{}
		handler := NewStockAlertHandler(zap.NewNop()).WithNotifier(notifier)
		event := inventory.NewOutOfStockEvent(alertTestBatch())

		err := handler.Handle(ctx, event)

		require.NoError(t, err)
		require.Len(t, notifier.alerts, 1)
		assert.Equal(t, "out_of_stock", notifier.alerts[0].AlertType)
	})

	t.Run("forwards balance clamp alerts", func(t *testing.T) {
		notifier := &capturingNotifier{}
		handler := NewStockAlertHandler(zap.NewNop()).WithNotifier(notifier)
		batch := alertTestBatch()
		event := inventory.NewBalanceClampedEvent(batch, decimal.NewFromInt(-50), decimal.NewFromInt(-45))

		err := handler.Handle(ctx, event)

		require.NoError(t, err)
		require.Len(t, notifier.alerts, 1)
		assert.Equal(t, "balance_clamped", notifier.alerts[0].AlertType)
	})

	t.Run("notifier failure never fails the handler", func(t *testing.T) {
		notifier := &capturingNotifier{err: errors.New("smtp down")}
		handler := NewStockAlertHandler(zap.NewNop()).WithNotifier(notifier)
		event := inventory.NewOutOfStockEvent(alertTestBatch())

		err := handler.Handle(ctx, event)

		assert.NoError(t, err)
	})

	t.Run("works without a notifier", func(t *testing.T) {
		handler := NewStockAlertHandler(zap.NewNop())
		event := inventory.NewOutOfStockEvent(alertTestBatch())

		assert.NoError(t, handler.Handle(ctx, event))
	})
}
