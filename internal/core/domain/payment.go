package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is our own type for payment statuses to avoid "magic strings".
type PaymentStatus string

const (
	StatusAuthorized     PaymentStatus = "AUTHORIZED"
	StatusDeclined       PaymentStatus = "DECLINED"
	StatusRejected       PaymentStatus = "REJECTED"
	StatusErrorOrPending PaymentStatus = "ERROR_OR_PENDING"
)

// ProcessingStatus is the tri-state result of a single authorization attempt
// at the acquiring bank. It is distinct from the payment's own status.
type ProcessingStatus string

const (
	ProcessingSuccess       ProcessingStatus = "SUCCESS"
	ProcessingFailure       ProcessingStatus = "FAILURE"
	ProcessingInternalError ProcessingStatus = "INTERNAL_ERROR"
)

// PaymentRequest carries a raw card-payment submission. It lives only for
// the duration of one submission and is never persisted.
type PaymentRequest struct {
	CardNumber  string
	ExpiryMonth int
	ExpiryYear  int
	Currency    string
	Amount      int64 // minor units
	CVV         int
}

// Payment is the central entity of our domain. It holds only masked card
// data: the full card number never reaches storage.
// It carries no tags for JSON or the store, it is a pure business model.
type Payment struct {
	ID                 uuid.UUID
	Status             PaymentStatus
	CardNumberLastFour string
	ExpiryMonth        int
	ExpiryYear         int
	Currency           string
	Amount             int64
	CreatedAt          time.Time
}

// Authorization is the outcome of one bank call, consumed exactly once by
// the payment service. AuthorizationCode is set only when the bank
// authorized the payment.
type Authorization struct {
	Authorized        bool
	AuthorizationCode *string
	Status            ProcessingStatus
}

// LastFourDigits returns the final four characters of a card number, or the
// empty string when the number is shorter than four characters.
func LastFourDigits(cardNumber string) string {
	if len(cardNumber) < 4 {
		return ""
	}
	return cardNumber[len(cardNumber)-4:]
}
