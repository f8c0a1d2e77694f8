package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Saga participants exchange totals as JSON numbers. This sets the
// process-wide shopspring/decimal flag, so every decimal.Decimal marshalled
// by a program importing models is written without quotes.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type EventSource string
type SagaStatus string

const (
	SourceOrchestrator             EventSource = "ORCHESTRATOR"
	SourceProductValidationService EventSource = "PRODUCT_VALIDATION_SERVICE"
	SourcePaymentService           EventSource = "PAYMENT_SERVICE"
	SourceInventoryService         EventSource = "INVENTORY_SERVICE"

	SagaPending         SagaStatus = "PENDING"
	SagaSuccess         SagaStatus = "SUCCESS"
	SagaFail            SagaStatus = "FAIL"
	SagaRollbackPending SagaStatus = "ROLLBACK_PENDING"
)

func (s EventSource) IsValid() bool {
	switch s {
	case SourceOrchestrator, SourceProductValidationService, SourcePaymentService, SourceInventoryService:
		return true
	default:
		return false
	}
}

func (s SagaStatus) IsValid() bool {
	switch s {
	case SagaPending, SagaSuccess, SagaFail, SagaRollbackPending:
		return true
	default:
		return false
	}
}

// Event is the saga envelope. Each participant receives it, records its
// decision in EventHistory and hands it on.
type Event struct {
	ID              string      `json:"id"`
	TransactionalID string      `json:"transactionalId"`
	OrderID         string      `json:"orderId"`
	Payload         Order       `json:"payload"`
	Source          EventSource `json:"source"`
	Status          SagaStatus  `json:"status"`
	EventHistory    []History   `json:"eventHistory"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// Order is the saga payload. TotalAmount and Product.UnitValue are written as
// bare JSON numbers; see the package init.
type Order struct {
	ID            string          `json:"id"`
	Products      []OrderProducts `json:"products"`
	CreatedAt     time.Time       `json:"createdAt"`
	TransactionID string          `json:"transactionId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalItems    int             `json:"totalItems"`
}

type OrderProducts struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type Product struct {
	Code      string          `json:"code"`
	UnitValue decimal.Decimal `json:"unitValue"`
}

// History is one audit entry of the saga. Entries are appended, never edited.
type History struct {
	Source    EventSource `json:"source"`
	Status    SagaStatus  `json:"status"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
}

func NewHistory(source EventSource, status SagaStatus, message string, at time.Time) (History, error) {
	if !source.IsValid() {
		return History{}, fmt.Errorf("invalid history source: %q", source)
	}
	if !status.IsValid() {
		return History{}, fmt.Errorf("invalid history status: %q", status)
	}
	return History{
		Source:    source,
		Status:    status,
		Message:   message,
		CreatedAt: at,
	}, nil
}

func (e *Event) AddToHistory(h History) {
	e.EventHistory = append(e.EventHistory, h)
}

// Clone returns a copy that shares no slices with e.
func (e Event) Clone() Event {
	c := e
	if e.EventHistory != nil {
		c.EventHistory = append([]History(nil), e.EventHistory...)
	}
	if e.Payload.Products != nil {
		c.Payload.Products = append([]OrderProducts(nil), e.Payload.Products...)
	}
	return c
}

// PaymentKey returns the (orderId, transactionId) pair a payment is stored under.
// The envelope identifiers win; the payload ones are used when the envelope omits them.
func (e Event) PaymentKey() (orderID, transactionID string, err error) {
	orderID, transactionID = e.OrderID, e.TransactionalID
	if orderID == "" {
		orderID = e.Payload.ID
	}
	if transactionID == "" {
		transactionID = e.Payload.TransactionID
	}
	if orderID == "" || transactionID == "" {
		return "", "", fmt.Errorf("%w: orderId and transactionId are required", ErrInvalidEvent)
	}
	return orderID, transactionID, nil
}

// PartitionKey keeps every event of one order on the same partition.
func (e Event) PartitionKey() string {
	switch {
	case e.OrderID != "":
		return e.OrderID
	case e.Payload.ID != "":
		return e.Payload.ID
	default:
		return e.ID
	}
}

// SetTotals mirrors the payment totals onto the order so later steps reuse them.
func (o *Order) SetTotals(p *Payment) {
	o.TotalAmount = p.TotalAmount
	o.TotalItems = p.TotalItems
}
