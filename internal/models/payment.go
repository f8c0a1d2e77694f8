package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	StatusPending PaymentStatus = "PENDING"
	StatusSuccess PaymentStatus = "SUCCESS"
	StatusRefund  PaymentStatus = "REFUND"
)

// Payment is the local record of one saga transaction. At most one exists per
// (OrderID, TransactionID); the unique index is what makes the idempotency gate atomic.
type Payment struct {
	ID            string          `gorm:"primaryKey" json:"id"`
	OrderID       string          `gorm:"not null;uniqueIndex:idx_payments_order_transaction" json:"orderId"`
	TransactionID string          `gorm:"not null;uniqueIndex:idx_payments_order_transaction" json:"transactionId"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"totalAmount"`
	TotalItems    int             `gorm:"not null" json:"totalItems"`
	Status        PaymentStatus   `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewPayment builds a PENDING payment. The amount is rounded to AmountPlaces.
func NewPayment(orderID, transactionID string, totals Totals) (*Payment, error) {
	if orderID == "" || transactionID == "" {
		return nil, fmt.Errorf("%w: orderId and transactionId are required", ErrInvalidEvent)
	}
	if totals.Amount.IsNegative() || totals.Items < 0 {
		return nil, fmt.Errorf("%w: totals must not be negative", ErrInvalidAmount)
	}
	return &Payment{
		OrderID:       orderID,
		TransactionID: transactionID,
		TotalAmount:   totals.Amount.Round(AmountPlaces),
		TotalItems:    totals.Items,
		Status:        StatusPending,
	}, nil
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	return
}

// CheckStatus rejects a payment whose status is none of the known ones.
func (p *Payment) CheckStatus() error {
	if !p.Status.IsValid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrStoreFailure, p.Status)
	}
	return nil
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusRefund:
		return true
	default:
		return false
	}
}
