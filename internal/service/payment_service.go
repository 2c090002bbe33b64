package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentProcessor simulates a payment gateway: it waits, then approves.
type PaymentProcessor struct {
	delay  time.Duration
	logger *zap.Logger
}

func NewPaymentProcessor(delay time.Duration) *PaymentProcessor {
	return &PaymentProcessor{
		delay:  delay,
		logger: util.GetLogger(),
	}
}

// Charge returns a mock transaction id once the simulated delay elapses.
// Card data never reaches this method.
func (p *PaymentProcessor) Charge(ctx context.Context, amount decimal.Decimal) (string, error) {
	ctx, span := util.StartSpan(ctx, "PaymentProcessor.Charge")
	defer span.End()

	start := time.Now()
	defer func() {
		util.PaymentProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	if err := simulateLatency(ctx, p.delay); err != nil {
		return "", fmt.Errorf("payment interrupted: %w", err)
	}

	txID := fmt.Sprintf("TXN-%s", uuid.New().String()[:8])
	p.logger.Info("Payment approved",
		zap.String("amount", amount.StringFixed(2)),
		zap.String("tx_id", txID))
	return txID, nil
}
