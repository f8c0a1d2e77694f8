package posgrest

import (
	"context"
	"errors"
	"fmt"

	"github.com/devandref/payment-service/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository stores payments in PostgreSQL keyed by (order_id, transaction_id).
type PaymentRepository struct {
	payments *repository[models.Payment]
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{payments: New[models.Payment](db)}
}

// Migrate creates the payments table and its unique (order_id, transaction_id) index.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Payment{})
}

func keyConds(orderID, transactionID string) map[string]interface{} {
	return map[string]interface{}{"order_id": orderID, "transaction_id": transactionID}
}

func (r *PaymentRepository) ExistsByOrderIDAndTransactionID(ctx context.Context, orderID, transactionID string) (bool, error) {
	exists, err := r.payments.ExistsBy(ctx, keyConds(orderID, transactionID))
	if err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (r *PaymentRepository) FindByOrderIDAndTransactionID(ctx context.Context, orderID, transactionID string) (*models.Payment, error) {
	payment, err := r.payments.FirstBy(ctx, keyConds(orderID, transactionID))
	if err != nil {
		return nil, translate(err)
	}
	return payment, nil
}

func (r *PaymentRepository) Save(ctx context.Context, payment *models.Payment) error {
	if err := payment.CheckStatus(); err != nil {
		return err
	}
	if payment.ID == "" {
		return translate(r.payments.Create(ctx, payment))
	}
	return translate(r.payments.Save(ctx, payment))
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrPaymentNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrDuplicateTransaction
	default:
		return fmt.Errorf("%w: %v", models.ErrStoreFailure, err)
	}
}
