package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/core/ports"
	"payment-gateway/internal/observability"
)

// invalidCVV is the sentinel value reserved to deterministically simulate a
// rejected submission.
const invalidCVV = 333

// service is the implementation of the PaymentService port.
type service struct {
	repo      ports.PaymentRepository
	bank      ports.AcquiringBank
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewPaymentService is the constructor of our service. Dependencies come in
// through interfaces.
func NewPaymentService(repo ports.PaymentRepository, bank ports.AcquiringBank, publisher ports.EventPublisher, logger *slog.Logger) ports.PaymentService {
	return &service{
		repo:      repo,
		bank:      bank,
		publisher: publisher,
		logger:    logger,
	}
}

// SubmitPayment runs a submission end to end: sentinel check, bank
// authorization, status mapping, persistence. A rejected submission is
// returned but never persisted, so GetPayment can never yield a REJECTED
// record. The only error source is the store itself.
func (s *service) SubmitPayment(ctx context.Context, req domain.PaymentRequest) (domain.Payment, error) {
	paymentID := uuid.New()

	if req.CVV == invalidCVV {
		s.logger.Warn("payment with invalid cvv was rejected", "payment_id", paymentID)
		payment := buildPayment(req, paymentID, domain.StatusRejected)
		observability.RecordPaymentOutcome(string(payment.Status))
		return payment, nil
	}

	s.logger.Info("processing payment", "payment_id", paymentID, "amount", req.Amount, "currency", req.Currency)
	auth := s.bank.Authorize(ctx, buildBankRequest(req))

	payment := buildPayment(req, paymentID, paymentStatusFrom(auth))
	if _, err := s.repo.Create(ctx, payment); err != nil {
		return domain.Payment{}, fmt.Errorf("failed to store payment %s: %w", paymentID, err)
	}
	observability.RecordPaymentOutcome(string(payment.Status))
	s.logger.Info("payment stored", "payment_id", paymentID, "status", payment.Status)

	// Best effort: a dead broker must not fail a submission the bank has
	// already answered.
	if err := s.publisher.PublishPaymentProcessed(ctx, payment); err != nil {
		s.logger.Error("failed to publish payment processed event", "payment_id", paymentID, "error", err)
	}

	return payment, nil
}

// GetPayment delegates to the repository and propagates ErrPaymentNotFound
// unchanged.
func (s *service) GetPayment(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	return s.repo.Get(ctx, id)
}

func buildBankRequest(req domain.PaymentRequest) ports.BankRequest {
	return ports.BankRequest{
		CardNumber: req.CardNumber,
		ExpiryDate: fmt.Sprintf("%02d/%04d", req.ExpiryMonth, req.ExpiryYear),
		Currency:   req.Currency,
		Amount:     req.Amount,
		CVV:        req.CVV,
	}
}

func buildPayment(req domain.PaymentRequest, id uuid.UUID, status domain.PaymentStatus) domain.Payment {
	return domain.Payment{
		ID:                 id,
		Status:             status,
		CardNumberLastFour: domain.LastFourDigits(req.CardNumber),
		ExpiryMonth:        req.ExpiryMonth,
		ExpiryYear:         req.ExpiryYear,
		Currency:           req.Currency,
		Amount:             req.Amount,
		CreatedAt:          time.Now(),
	}
}

// paymentStatusFrom maps the bank's processing status to a payment status.
// Anything unrecognized lands on ERROR_OR_PENDING as the safe default.
func paymentStatusFrom(auth domain.Authorization) domain.PaymentStatus {
	switch auth.Status {
	case domain.ProcessingSuccess:
		return domain.StatusAuthorized
	case domain.ProcessingFailure:
		return domain.StatusDeclined
	case domain.ProcessingInternalError:
		return domain.StatusErrorOrPending
	default:
		return domain.StatusErrorOrPending
	}
}
