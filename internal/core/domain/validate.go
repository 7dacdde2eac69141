package domain

import (
	"fmt"
	"strconv"
	"time"
)

const (
	minCardNumberLength = 14
	maxCardNumberLength = 19
	minExpiryYear       = 2024
	maxExpiryYear       = 2099
)

// ValidateRequest runs the full rule set over a raw submission and returns
// one message per violated rule. An empty result means the request is well
// formed. Pure, no side effects, never panics.
func ValidateRequest(req PaymentRequest) []string {
	var violations []string

	if !isDigits(req.CardNumber) || len(req.CardNumber) < minCardNumberLength || len(req.CardNumber) > maxCardNumberLength {
		violations = append(violations, "card number must be between 14 and 19 digits")
	}

	monthValid := req.ExpiryMonth >= 1 && req.ExpiryMonth <= 12
	if !monthValid {
		violations = append(violations, "expiry month must be between 1 and 12")
	}

	if req.ExpiryYear < minExpiryYear || req.ExpiryYear > maxExpiryYear {
		violations = append(violations, fmt.Sprintf("expiry year must be between %d and %d", minExpiryYear, maxExpiryYear))
	} else if monthValid && !isExpiryInFuture(req.ExpiryMonth, req.ExpiryYear, time.Now()) {
		violations = append(violations, "expiry date must be in the future")
	}

	switch req.Currency {
	case "EUR", "GBP", "USD":
	default:
		violations = append(violations, "currency must be GBP, USD or EUR")
	}

	if req.Amount <= 0 {
		violations = append(violations, "amount must be greater than zero")
	}

	if l := len(strconv.Itoa(req.CVV)); req.CVV < 0 || (l != 3 && l != 4) {
		violations = append(violations, "cvv must be 3 or 4 digits")
	}

	return violations
}

// isExpiryInFuture reports whether the card is still valid at now. A card
// expires at the end of its expiry month.
func isExpiryInFuture(month, year int, now time.Time) bool {
	endOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return now.Before(endOfMonth)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
