package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"payment-gateway/internal/core/domain"
)

// PaymentRepository is an "outgoing port". It defines WHAT the store does,
// but not HOW: the implementation may be in-memory, Redis, etc. Entries
// live for a fixed retention window and expire passively.
type PaymentRepository interface {
	// Create inserts the payment keyed by its own identifier and returns
	// that identifier. The repository never generates identifiers.
	Create(ctx context.Context, payment domain.Payment) (uuid.UUID, error)
	// Get returns the current record or domain.ErrPaymentNotFound when the
	// identifier is absent or expired.
	Get(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	// UpdateStatus atomically replaces only the status field of an existing
	// record and returns its identifier.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (uuid.UUID, error)
}

// BankRequest is the normalized authorization request sent to the acquiring
// bank. Built fresh per submission, never persisted.
type BankRequest struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"` // MM/YYYY
	Currency   string `json:"currency"`
	Amount     int64  `json:"amount"`
	CVV        int    `json:"cvv"`
}

// AcquiringBank is the outgoing port toward the external authorization
// endpoint. Authorize has no error return on purpose: every transport or
// endpoint fault folds into the returned Authorization, so the caller always
// gets a usable tri-state outcome.
type AcquiringBank interface {
	Authorize(ctx context.Context, req BankRequest) domain.Authorization
}

// EventPublisher is another outgoing port for announcing processed payments.
type EventPublisher interface {
	PublishPaymentProcessed(ctx context.Context, payment domain.Payment) error
}

// RateLimiterRepository tracks request counts per key inside a time window.
type RateLimiterRepository interface {
	IsAllowed(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// PaymentService is the "incoming port" that defines how the outside world
// interacts with the payment core.
type PaymentService interface {
	SubmitPayment(ctx context.Context, req domain.PaymentRequest) (domain.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (domain.Payment, error)
}
