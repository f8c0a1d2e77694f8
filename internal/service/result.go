package service

import (
	"errors"

	"github.com/devandref/payment-service/internal/models"
)

type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindDuplicateTransaction ErrorKind = "DuplicateTransaction"
	KindInvalidAmount        ErrorKind = "InvalidAmount"
	KindPaymentNotFound      ErrorKind = "PaymentNotFound"
	KindStoreFailure         ErrorKind = "StoreFailure"
	KindInvalidEvent         ErrorKind = "InvalidEvent"
	KindUnknown              ErrorKind = "Unknown"
)

// KindOf classifies a step error.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, models.ErrDuplicateTransaction):
		return KindDuplicateTransaction
	case errors.Is(err, models.ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, models.ErrPaymentNotFound):
		return KindPaymentNotFound
	case errors.Is(err, models.ErrStoreFailure):
		return KindStoreFailure
	case errors.Is(err, models.ErrInvalidEvent):
		return KindInvalidEvent
	default:
		return KindUnknown
	}
}

// Result is the outcome of one saga step. Event is always the mutated event,
// whether the step succeeded or not.
type Result struct {
	Event models.Event
	// Err is the step failure already recorded in Event's history, nil on success.
	Err error
	// PublishErr is set when Event could not be handed back to the bus.
	PublishErr error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func (r Result) Kind() ErrorKind {
	return KindOf(r.Err)
}

func (r Result) Published() bool {
	return r.PublishErr == nil
}
