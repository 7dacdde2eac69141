package mock

import (
	"context"
	"log/slog"

	"payment-gateway/internal/core/domain"
)

// Publisher is a stand-in for the EventPublisher port when Kafka is
// disabled. Events are logged and dropped.
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) PublishPaymentProcessed(_ context.Context, payment domain.Payment) error {
	p.logger.Debug("payment processed (event publishing disabled)",
		"payment_id", payment.ID, "status", payment.Status)
	return nil
}
