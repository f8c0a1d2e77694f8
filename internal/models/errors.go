package models

import "errors"

var (
	// ErrDuplicateTransaction signals a payment already exists for the order and transaction.
	ErrDuplicateTransaction = errors.New("there's another transactionId for this validation")
	// ErrInvalidAmount signals totals that break the payment business rules.
	ErrInvalidAmount = errors.New("invalid payment amount")
	// ErrPaymentNotFound signals no payment is recorded for the order and transaction.
	ErrPaymentNotFound = errors.New("payment not found by orderId and transactionId")
	// ErrStoreFailure wraps any other persistence error.
	ErrStoreFailure = errors.New("payment store failure")
	// ErrInvalidEvent signals an event without the identifiers needed to key a payment.
	ErrInvalidEvent = errors.New("invalid saga event")
	// ErrPublishFailure signals the outbound event could not be written to the bus.
	ErrPublishFailure = errors.New("saga event publish failure")
)
