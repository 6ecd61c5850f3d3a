package inventory

import (
	"context"

	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlertHandler handles the advisory inventory events: low stock and
// out of stock after a confirmation, and balance clamps from corrections.
// These never fail the operation that raised them; the handler logs and
// optionally forwards them to a notifier.
type StockAlertHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// StockAlertNotifier is the interface for forwarding stock alerts.
// Implementations can support different channels (in-app, email, SMS).
type StockAlertNotifier interface {
	// SendAlert sends a stock alert notification
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert represents a stock level alert
type StockAlert struct {
	ProductID string `json:"product_id"`
	BatchID   string `json:"batch_id"`
	LotNumber string `json:"lot_number"`
	Remaining string `json:"remaining"`
	Threshold string `json:"threshold"`
	AlertType string `json:"alert_type"` // "low_stock", "out_of_stock", "balance_clamped"
}

// NewStockAlertHandler creates a new StockAlertHandler
func NewStockAlertHandler(logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{
		logger: logger,
	}
}

// WithNotifier sets the notifier for forwarding alerts
func (h *StockAlertHandler) WithNotifier(notifier StockAlertNotifier) *StockAlertHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeLowStock,
		inventory.EventTypeOutOfStock,
		inventory.EventTypeBalanceClamped,
	}
}

// Handle processes an advisory inventory event
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var alert StockAlert

	switch e := event.(type) {
	case *inventory.LowStockEvent:
		h.logger.Warn("batch stock low after settlement",
			zap.String("product_id", e.ProductID.String()),
			zap.String("batch_id", e.BatchID.String()),
			zap.String("lot_number", e.LotNumber),
			zap.String("remaining", e.Remaining.String()),
			zap.String("threshold", e.Threshold.String()),
		)
		alert = StockAlert{
			ProductID: e.ProductID.String(),
			BatchID:   e.BatchID.String(),
			LotNumber: e.LotNumber,
			Remaining: e.Remaining.String(),
			Threshold: e.Threshold.String(),
			AlertType: "low_stock",
		}

	case *inventory.OutOfStockEvent:
		h.logger.Warn("batch emptied by settlement",
			zap.String("product_id", e.ProductID.String()),
			zap.String("batch_id", e.BatchID.String()),
			zap.String("lot_number", e.LotNumber),
		)
		alert = StockAlert{
			ProductID: e.ProductID.String(),
			BatchID:   e.BatchID.String(),
			LotNumber: e.LotNumber,
			AlertType: "out_of_stock",
		}

	case *inventory.BalanceClampedEvent:
		// Data-integrity signal: a correction asked for more reduction
		// than the batch held
		h.logger.Warn("correction clamped at zero balance",
			zap.String("product_id", e.ProductID.String()),
			zap.String("batch_id", e.BatchID.String()),
			zap.String("requested_delta", e.RequestedDelta.String()),
			zap.String("applied_delta", e.AppliedDelta.String()),
		)
		alert = StockAlert{
			ProductID: e.ProductID.String(),
			BatchID:   e.BatchID.String(),
			AlertType: "balance_clamped",
		}

	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return nil
	}

	if h.notifier != nil {
		if err := h.notifier.SendAlert(ctx, alert); err != nil {
			// Notification failure must not fail the event handling
			h.logger.Error("failed to send stock alert notification",
				zap.String("batch_id", alert.BatchID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Ensure StockAlertHandler implements shared.EventHandler
var _ shared.EventHandler = (*StockAlertHandler)(nil)

// LoggingStockAlertNotifier is a notifier that only logs alerts. Useful
// for development and testing.
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{
		logger: logger,
	}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("product_id", alert.ProductID),
		zap.String("batch_id", alert.BatchID),
		zap.String("lot_number", alert.LotNumber),
		zap.String("remaining", alert.Remaining),
	)
	return nil
}

// Ensure LoggingStockAlertNotifier implements StockAlertNotifier
var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
