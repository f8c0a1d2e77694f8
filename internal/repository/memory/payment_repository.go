package memory

import (
	"context"
	"sync"
	"time"

	"github.com/devandref/payment-service/internal/models"
	"github.com/google/uuid"
)

type key struct {
	orderID       string
	transactionID string
}

// PaymentRepository keeps payments in process memory. The existence check and
// insert of Save run under one lock, mirroring the unique index of the SQL store.
type PaymentRepository struct {
	mu       sync.Mutex
	payments map[key]models.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[key]models.Payment)}
}

func (r *PaymentRepository) ExistsByOrderIDAndTransactionID(_ context.Context, orderID, transactionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.payments[key{orderID, transactionID}]
	return ok, nil
}

func (r *PaymentRepository) FindByOrderIDAndTransactionID(_ context.Context, orderID, transactionID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[key{orderID, transactionID}]
	if !ok {
		return nil, models.ErrPaymentNotFound
	}
	return &p, nil
}

func (r *PaymentRepository) Save(_ context.Context, payment *models.Payment) error {
	if err := payment.CheckStatus(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{payment.OrderID, payment.TransactionID}
	existing, ok := r.payments[k]
	now := time.Now().UTC()

	if payment.ID == "" {
		if ok {
			return models.ErrDuplicateTransaction
		}
		payment.ID = uuid.New().String()
		payment.CreatedAt = now
	} else if ok && existing.ID != payment.ID {
		return models.ErrDuplicateTransaction
	}

	payment.UpdatedAt = now
	r.payments[k] = *payment
	return nil
}

// Len returns the number of stored payments.
func (r *PaymentRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}
