package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devandref/payment-service/internal/metrics"
	"github.com/devandref/payment-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	stepPayment = "payment"
	stepRefund  = "refund"
)

// MinAmount is the smallest total a payment may be realized for.
var MinAmount = decimal.RequireFromString("0.1")

// PaymentStore defines the persistence operations of the local payment record.
// Save must reject a second insert for the same (orderID, transactionID)
// with models.ErrDuplicateTransaction.
type PaymentStore interface {
	ExistsByOrderIDAndTransactionID(ctx context.Context, orderID, transactionID string) (bool, error)
	FindByOrderIDAndTransactionID(ctx context.Context, orderID, transactionID string) (*models.Payment, error)
	Save(ctx context.Context, payment *models.Payment) error
}

// Publisher defines the interface for publishing events to Kafka topics.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, message interface{}) error
}

// PaymentService is the payment step of the order saga.
// It charges or refunds the local payment once per transaction and hands the
// event back to the orchestrator with its decision appended to the history.
type PaymentService struct {
	Repo      PaymentStore
	Publisher Publisher
	// Topic is where the mutated events are sent, normally the orchestrator topic.
	Topic string
	Now   func() time.Time
}

// NewPaymentService creates a PaymentService that stores payments in repo and
// republishes every processed event to topic.
func NewPaymentService(repo PaymentStore, publisher Publisher, topic string) *PaymentService {
	return &PaymentService{
		Repo:      repo,
		Publisher: publisher,
		Topic:     topic,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// RealizePayment runs the forward step for a payment requested event.
//
// A new PENDING payment is created from the order lines, re-read, checked
// against MinAmount and moved to SUCCESS. Both the exact order total and the
// stored, rounded amount must reach MinAmount. Any failure, including a redelivered
// transaction, moves the saga to ROLLBACK_PENDING instead. The payment row of a
// failed attempt is left as is; compensation arrives as a separate event.
// The mutated event is published in both cases.
func (s *PaymentService) RealizePayment(ctx context.Context, event models.Event) Result {
	event = event.Clone()

	err := s.realizePayment(ctx, &event)
	if err != nil {
		s.logger(event).WithError(err).Error("Error trying to make payment")
		s.handleFailCurrentNotExecuted(&event, err)
	} else {
		s.handleSuccess(&event)
	}

	return s.finish(ctx, stepPayment, event, err)
}

func (s *PaymentService) realizePayment(ctx context.Context, event *models.Event) error {
	orderID, transactionID, err := event.PaymentKey()
	if err != nil {
		return err
	}

	if err := s.checkCurrentValidation(ctx, orderID, transactionID); err != nil {
		return err
	}

	totals, err := s.createPendingPayment(ctx, event, orderID, transactionID)
	if err != nil {
		return err
	}

	payment, err := s.Repo.FindByOrderIDAndTransactionID(ctx, orderID, transactionID)
	if err != nil {
		return storeError(err)
	}

	// The stored amount is rounded, so 0.099 would read back as 0.10.
	if err := validateAmount(totals.Amount); err != nil {
		return err
	}
	if err := validateAmount(payment.TotalAmount); err != nil {
		return err
	}

	payment.Status = models.StatusSuccess
	if err := s.Repo.Save(ctx, payment); err != nil {
		return storeError(err)
	}

	metrics.PaymentAmounts.WithLabelValues(string(payment.Status)).Observe(payment.TotalAmount.InexactFloat64())
	return nil
}

func (s *PaymentService) checkCurrentValidation(ctx context.Context, orderID, transactionID string) error {
	exists, err := s.Repo.ExistsByOrderIDAndTransactionID(ctx, orderID, transactionID)
	if err != nil {
		return storeError(err)
	}
	if exists {
		return models.ErrDuplicateTransaction
	}
	return nil
}

func (s *PaymentService) createPendingPayment(ctx context.Context, event *models.Event, orderID, transactionID string) (models.Totals, error) {
	totals, err := event.Payload.CalculateTotals()
	if err != nil {
		return models.Totals{}, err
	}

	payment, err := models.NewPayment(orderID, transactionID, totals)
	if err != nil {
		return models.Totals{}, err
	}

	// A concurrent redelivery that passed the existence check fails here on the unique key.
	if err := s.Repo.Save(ctx, payment); err != nil {
		return models.Totals{}, storeError(err)
	}

	event.Payload.SetTotals(payment)
	return totals, nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinAmount) {
		return fmt.Errorf("%w: the minimum amount available is %s", models.ErrInvalidAmount, MinAmount)
	}
	return nil
}

func (s *PaymentService) handleSuccess(event *models.Event) {
	event.Status = models.SagaSuccess
	event.Source = models.SourcePaymentService
	s.addHistory(event, "Payment realized successfully!")
}

func (s *PaymentService) handleFailCurrentNotExecuted(event *models.Event, err error) {
	event.Status = models.SagaRollbackPending
	event.Source = models.SourcePaymentService
	s.addHistory(event, "Fail to realize payment: "+err.Error())
}

// RealizeRefund runs the compensation step for a payment failed event.
//
// The saga status is FAIL whatever happens here; the history entry tells
// whether the local payment was actually moved to REFUND. The event is always
// published.
func (s *PaymentService) RealizeRefund(ctx context.Context, event models.Event) Result {
	event = event.Clone()
	event.Status = models.SagaFail
	event.Source = models.SourcePaymentService

	err := s.changePaymentStatusToRefund(ctx, &event)
	if err != nil {
		s.logger(event).WithError(err).Error("Error trying to refund payment")
		s.addHistory(&event, "Rollback not executed for payment: "+err.Error())
	} else {
		s.addHistory(&event, "Rollback executed for payment!")
	}

	return s.finish(ctx, stepRefund, event, err)
}

func (s *PaymentService) changePaymentStatusToRefund(ctx context.Context, event *models.Event) error {
	orderID, transactionID, err := event.PaymentKey()
	if err != nil {
		return err
	}

	payment, err := s.Repo.FindByOrderIDAndTransactionID(ctx, orderID, transactionID)
	if err != nil {
		return storeError(err)
	}

	payment.Status = models.StatusRefund
	event.Payload.SetTotals(payment)
	if err := s.Repo.Save(ctx, payment); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *PaymentService) addHistory(event *models.Event, message string) {
	history, err := models.NewHistory(event.Source, event.Status, message, s.Now())
	if err != nil {
		s.logger(*event).WithError(err).Warn("Unexpected history values")
		history = models.History{Source: event.Source, Status: event.Status, Message: message, CreatedAt: s.Now()}
	}
	event.AddToHistory(history)
}

func (s *PaymentService) finish(ctx context.Context, step string, event models.Event, stepErr error) Result {
	result := Result{Event: event, Err: stepErr}

	outcome := "success"
	if stepErr != nil {
		outcome = string(KindOf(stepErr))
	}
	metrics.SagaStepsTotal.WithLabelValues(step, outcome).Inc()

	if err := s.Publisher.Publish(ctx, s.Topic, event.PartitionKey(), event); err != nil {
		result.PublishErr = fmt.Errorf("%w: %v", models.ErrPublishFailure, err)
		metrics.PublishFailuresTotal.WithLabelValues(s.Topic).Inc()
		s.logger(event).WithError(err).WithField("topic", s.Topic).Error("Error publishing saga event")
		return result
	}

	s.logger(event).WithFields(logrus.Fields{
		"step":   step,
		"status": event.Status,
	}).Info("Saga event published")
	return result
}

func (s *PaymentService) logger(event models.Event) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"event_id":       event.ID,
		"order_id":       event.OrderID,
		"transaction_id": event.TransactionalID,
	})
}

func storeError(err error) error {
	if errors.Is(err, models.ErrDuplicateTransaction) ||
		errors.Is(err, models.ErrPaymentNotFound) ||
		errors.Is(err, models.ErrStoreFailure) {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrStoreFailure, err)
}
