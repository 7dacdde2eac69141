package domain

import "errors"

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrStorageUnavailable = errors.New("payment store is unavailable")
)
