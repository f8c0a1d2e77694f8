package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/devandref/payment-service/internal/handlers"
	"github.com/devandref/payment-service/internal/handlers/mocks"
	"github.com/devandref/payment-service/internal/metrics"
	"github.com/devandref/payment-service/internal/models"
	"github.com/devandref/payment-service/internal/repository/memory"
	"github.com/devandref/payment-service/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var topics = handlers.Topics{
	Orchestrator:   "orchestrator",
	PaymentSuccess: "payment-success",
	PaymentFail:    "payment-fail",
	DLQ:            "payment-dlq",
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newSagaHandler(t *testing.T) (*handlers.SagaHandler, *mocks.MockPaymentSaga, *mocks.MockPublisher) {
	mockService := mocks.NewMockPaymentSaga(t)
	mockDLQ := mocks.NewMockPublisher(t)
	h := handlers.NewSagaHandler(mockService, mockDLQ, topics)
	h.Now = func() time.Time { return fixedNow }
	return h, mockService, mockDLQ
}

func sagaEventBytes(t *testing.T, status models.SagaStatus) []byte {
	event := models.Event{
		ID:              "evt-1",
		TransactionalID: "tx-1",
		OrderID:         "order-1",
		Source:          models.SourceOrchestrator,
		Status:          status,
		Payload:         models.Order{ID: "order-1", TransactionID: "tx-1"},
	}
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return value
}

func forOrder(orderID string) interface{} {
	return mock.MatchedBy(func(e models.Event) bool { return e.OrderID == orderID })
}

func TestHandleEvents_PaymentSuccessTopicRealizesPayment(t *testing.T) {
	h, mockService, _ := newSagaHandler(t)
	ctx := context.Background()

	mockService.EXPECT().
		RealizePayment(ctx, forOrder("order-1")).
		Return(service.Result{Event: models.Event{OrderID: "order-1", Status: models.SagaSuccess}}).
		Once()

	err := h.HandleEvents(ctx, "payment-success", sagaEventBytes(t, models.SagaPending))

	assert.NoError(t, err)
}

func TestHandleEvents_PaymentFailTopicRealizesRefund(t *testing.T) {
	h, mockService, _ := newSagaHandler(t)
	ctx := context.Background()

	mockService.EXPECT().
		RealizeRefund(ctx, forOrder("order-1")).
		Return(service.Result{Event: models.Event{OrderID: "order-1", Status: models.SagaFail}}).
		Once()

	err := h.HandleEvents(ctx, "payment-fail", sagaEventBytes(t, models.SagaFail))

	assert.NoError(t, err)
}

func TestHandleEvents_StepFailureIsNotAnError(t *testing.T) {
	h, mockService, mockDLQ := newSagaHandler(t)
	ctx := context.Background()

	mockService.EXPECT().
		RealizePayment(ctx, mock.Anything).
		Return(service.Result{
			Event: models.Event{OrderID: "order-1", Status: models.SagaRollbackPending},
			Err:   models.ErrDuplicateTransaction,
		}).
		Once()

	err := h.HandleEvents(ctx, "payment-success", sagaEventBytes(t, models.SagaPending))

	assert.NoError(t, err)
	mockDLQ.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleEvents_OrchestratorTopicOnlyObserves(t *testing.T) {
	h, mockService, _ := newSagaHandler(t)
	counter := metrics.OrchestratorEventsTotal.WithLabelValues(string(models.SagaSuccess))
	before := testutil.ToFloat64(counter)

	err := h.HandleEvents(context.Background(), "orchestrator", sagaEventBytes(t, models.SagaSuccess))

	assert.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	mockService.AssertNotCalled(t, "RealizePayment", mock.Anything, mock.Anything)
	mockService.AssertNotCalled(t, "RealizeRefund", mock.Anything, mock.Anything)
}

func TestHandleEvents_UnknownTopic(t *testing.T) {
	h, _, _ := newSagaHandler(t)

	err := h.HandleEvents(context.Background(), "inventory-success", sagaEventBytes(t, models.SagaPending))

	assert.EqualError(t, err, "topic not allowed inventory-success")
}

func TestHandleEvents_UnmarshalError(t *testing.T) {
	h, mockService, _ := newSagaHandler(t)

	err := h.HandleEvents(context.Background(), "payment-success", []byte(`{"invalid json`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
	mockService.AssertNotCalled(t, "RealizePayment", mock.Anything, mock.Anything)
}

func TestHandleEvents_UnpublishedEventIsDeadLettered(t *testing.T) {
	h, mockService, mockDLQ := newSagaHandler(t)
	ctx := context.Background()
	mutated := models.Event{ID: "evt-1", OrderID: "order-1", Status: models.SagaSuccess}
	publishErr := fmt.Errorf("%w: broker down", models.ErrPublishFailure)

	mockService.EXPECT().
		RealizePayment(ctx, mock.Anything).
		Return(service.Result{Event: mutated, PublishErr: publishErr}).
		Once()

	var letter models.DLQMessage
	mockDLQ.EXPECT().
		Publish(ctx, "payment-dlq", "order-1", mock.AnythingOfType("models.DLQMessage")).
		Run(func(_ context.Context, _ string, _ string, message interface{}) {
			letter = message.(models.DLQMessage)
		}).
		Return(nil).
		Once()

	err := h.HandleEvents(ctx, "payment-success", sagaEventBytes(t, models.SagaPending))

	require.NoError(t, err)
	assert.Equal(t, "payment-success", letter.OriginalTopic)
	assert.Equal(t, "order-1", letter.Key)
	assert.Equal(t, publishErr.Error(), letter.Reason)
	assert.Equal(t, fixedNow, letter.Timestamp)

	var stored models.Event
	require.NoError(t, json.Unmarshal([]byte(letter.Value), &stored))
	assert.Equal(t, models.SagaSuccess, stored.Status)
}

func TestHandleEvents_DeadLetterFailureIsSwallowed(t *testing.T) {
	h, mockService, mockDLQ := newSagaHandler(t)
	ctx := context.Background()
	failures := metrics.PublishFailuresTotal.WithLabelValues("payment-dlq")
	before := testutil.ToFloat64(failures)

	mockService.EXPECT().
		RealizeRefund(ctx, mock.Anything).
		Return(service.Result{
			Event:      models.Event{OrderID: "order-1", Status: models.SagaFail},
			PublishErr: models.ErrPublishFailure,
		}).
		Once()
	mockDLQ.EXPECT().
		Publish(ctx, "payment-dlq", "order-1", mock.Anything).
		Return(errors.New("broker down")).
		Once()

	err := h.HandleEvents(ctx, "payment-fail", sagaEventBytes(t, models.SagaFail))

	assert.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(failures))
}

type downPublisher struct {
	mu    sync.Mutex
	calls int
}

func (p *downPublisher) Publish(context.Context, string, string, interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return errors.New("broker down")
}

func TestHandleEvents_BusDownDoesNotRerunPayment(t *testing.T) {
	repo := memory.NewPaymentRepository()
	bus := &downPublisher{}
	paymentService := service.NewPaymentService(repo, bus, topics.Orchestrator)
	h := handlers.NewSagaHandler(paymentService, bus, topics)
	ctx := context.Background()

	event := models.Event{
		ID:              "evt-1",
		TransactionalID: "tx-1",
		OrderID:         "order-1",
		Status:          models.SagaSuccess,
		Payload: models.Order{
			ID:            "order-1",
			TransactionID: "tx-1",
			Products: []models.OrderProducts{
				{Product: models.Product{Code: "COMIC", UnitValue: decimal.RequireFromString("10")}, Quantity: 2},
			},
		},
	}
	value, err := json.Marshal(event)
	require.NoError(t, err)

	err = h.HandleEvents(ctx, "payment-success", value)

	require.NoError(t, err)
	assert.Equal(t, 2, bus.calls)
	assert.Equal(t, 1, repo.Len())
	stored, err := repo.FindByOrderIDAndTransactionID(ctx, "order-1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, stored.Status)
}
