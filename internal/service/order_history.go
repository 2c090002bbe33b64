package service

import (
	"context"
	"sync"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// OrderHistory keeps placed orders per user, newest first. It is fed by
// ORDER_PLACED events and is idempotent per event id.
type OrderHistory struct {
	mu        sync.RWMutex
	byUser    map[string][]models.OrderSummary
	processed map[string]struct{}
	logger    *zap.Logger
}

func NewOrderHistory() *OrderHistory {
	return &OrderHistory{
		byUser:    make(map[string][]models.OrderSummary),
		processed: make(map[string]struct{}),
		logger:    util.GetLogger(),
	}
}

// HandleOrderPlaced records the order carried by event.
func (h *OrderHistory) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	_, span := util.StartSpan(ctx, "OrderHistory.HandleOrderPlaced")
	defer span.End()

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, seen := h.processed[event.EventID]; seen {
		h.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}
	h.processed[event.EventID] = struct{}{}

	if event.UserID == "" {
		return nil
	}

	items := make([]models.OrderSummaryItem, 0, len(event.Items))
	for _, it := range event.Items {
		items = append(items, models.OrderSummaryItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.UnitPrice,
		})
	}

	summary := models.OrderSummary{
		ID:     event.OrderNumber,
		Date:   event.OrderDate,
		Status: models.OrderStatusProcessing,
		Total:  event.Total,
		Items:  items,
	}
	h.byUser[event.UserID] = append([]models.OrderSummary{summary}, h.byUser[event.UserID]...)

	h.logger.Info("Order recorded",
		zap.String("order_number", event.OrderNumber),
		zap.String("user_id", event.UserID))
	return nil
}

// ListOrders returns the user's orders, newest first.
func (h *OrderHistory) ListOrders(userID string) []models.OrderSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	orders := h.byUser[userID]
	out := make([]models.OrderSummary, len(orders))
	copy(out, orders)
	return out
}

// PublishOrderPlaced lets the history stand in for the broker when Kafka
// is disabled.
func (h *OrderHistory) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	return h.HandleOrderPlaced(ctx, event)
}
