package worker

import (
	"context"
	"time"

	"storefront/internal/broker"
	"storefront/internal/service"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// OrderHistoryWorker feeds ORDER_PLACED events from Kafka into the order
// history.
type OrderHistoryWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewOrderHistoryWorker creates a new order history worker
func NewOrderHistoryWorker(consumer *broker.Consumer, history *service.OrderHistory) *OrderHistoryWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(history.HandleOrderPlaced)

	return &OrderHistoryWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start blocks until ctx is done.
func (w *OrderHistoryWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting order history worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OrderHistoryWorker) Stop() error {
	w.logger.Info("Stopping order history worker")
	return w.consumer.Close()
}

// Reaper is what SessionReaper sweeps.
type Reaper interface {
	Reap(ctx context.Context) int
}

// SessionReaper periodically removes idle sessions.
type SessionReaper struct {
	sessions Reaper
	interval time.Duration
	logger   *zap.Logger
}

func NewSessionReaper(sessions Reaper, interval time.Duration) *SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionReaper{sessions: sessions, interval: interval, logger: util.GetLogger()}
}

// Start sweeps on every tick until ctx is done.
func (r *SessionReaper) Start(ctx context.Context) error {
	r.logger.Info("Starting session reaper", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Stopping session reaper")
			return ctx.Err()
		case <-ticker.C:
			if n := r.sessions.Reap(ctx); n > 0 {
				r.logger.Info("Reaped idle sessions", zap.Int("count", n))
			}
		}
	}
}
