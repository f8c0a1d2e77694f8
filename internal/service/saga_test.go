package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/devandref/payment-service/internal/models"
	"github.com/devandref/payment-service/internal/repository/memory"
	"github.com/devandref/payment-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, _ string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, message.(models.Event))
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestSaga_RedeliveredPaymentIsRejected(t *testing.T) {
	repo := memory.NewPaymentRepository()
	pub := &recordingPublisher{}
	paymentService := service.NewPaymentService(repo, pub, orchestratorTopic)
	ctx := context.Background()
	event := sagaEvent(product(2, "10.0"), product(3, "5.0"))

	first := paymentService.RealizePayment(ctx, event)
	second := paymentService.RealizePayment(ctx, event)

	require.True(t, first.OK())
	assert.Equal(t, models.SagaSuccess, first.Event.Status)

	assert.Equal(t, service.KindDuplicateTransaction, second.Kind())
	assert.Equal(t, models.SagaRollbackPending, second.Event.Status)
	assert.Contains(t, lastHistory(second.Event).Message, "another transactionId")

	assert.Equal(t, 1, repo.Len())
	stored, err := repo.FindByOrderIDAndTransactionID(ctx, "order-1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, stored.Status)
	assert.Equal(t, 2, pub.count())
}

func TestSaga_ConcurrentRedeliveriesCreateOnePayment(t *testing.T) {
	repo := memory.NewPaymentRepository()
	pub := &recordingPublisher{}
	paymentService := service.NewPaymentService(repo, pub, orchestratorTopic)
	ctx := context.Background()
	event := sagaEvent(product(1, "10"))

	const deliveries = 16
	results := make([]service.Result, deliveries)
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = paymentService.RealizePayment(ctx, event)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.OK() {
			succeeded++
			continue
		}
		assert.Equal(t, service.KindDuplicateTransaction, r.Kind())
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, deliveries, pub.count())
}

func TestSaga_BelowMinimumNeverReachesSuccess(t *testing.T) {
	repo := memory.NewPaymentRepository()
	paymentService := service.NewPaymentService(repo, &recordingPublisher{}, orchestratorTopic)
	ctx := context.Background()

	result := paymentService.RealizePayment(ctx, sagaEvent(product(1, "0.09")))

	assert.Equal(t, service.KindInvalidAmount, result.Kind())
	assert.Equal(t, models.SagaRollbackPending, result.Event.Status)
	stored, err := repo.FindByOrderIDAndTransactionID(ctx, "order-1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestSaga_PaymentThenRefund(t *testing.T) {
	repo := memory.NewPaymentRepository()
	pub := &recordingPublisher{}
	paymentService := service.NewPaymentService(repo, pub, orchestratorTopic)
	ctx := context.Background()

	paid := paymentService.RealizePayment(ctx, sagaEvent(product(2, "10.0"), product(3, "5.0")))
	require.True(t, paid.OK())

	// Inventory fails downstream and the orchestrator routes the event back.
	failed := paid.Event.Clone()
	failed.Source = models.SourceInventoryService
	failed.Status = models.SagaFail
	failed.AddToHistory(models.History{Source: models.SourceInventoryService, Status: models.SagaFail, Message: "Out of stock"})
	failed.Payload.TotalAmount = failed.Payload.TotalAmount.Add(failed.Payload.TotalAmount)

	refunded := paymentService.RealizeRefund(ctx, failed)

	require.True(t, refunded.OK())
	assert.Equal(t, models.SagaFail, refunded.Event.Status)
	assert.Equal(t, "Rollback executed for payment!", lastHistory(refunded.Event).Message)
	assert.Equal(t, "35", refunded.Event.Payload.TotalAmount.String())

	stored, err := repo.FindByOrderIDAndTransactionID(ctx, "order-1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRefund, stored.Status)

	history := refunded.Event.EventHistory
	require.Len(t, history, 4)
	assert.Equal(t, models.SourceOrchestrator, history[0].Source)
	assert.Equal(t, models.SourcePaymentService, history[1].Source)
	assert.Equal(t, models.SourceInventoryService, history[2].Source)
	assert.Equal(t, models.SourcePaymentService, history[3].Source)
}

func TestSaga_RefundWithoutPaymentStillPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	paymentService := service.NewPaymentService(memory.NewPaymentRepository(), pub, orchestratorTopic)

	result := paymentService.RealizeRefund(context.Background(), sagaEvent())

	assert.Equal(t, service.KindPaymentNotFound, result.Kind())
	assert.True(t, result.Published())
	require.Equal(t, 1, pub.count())
	assert.Equal(t, models.SagaFail, pub.events[0].Status)
	assert.Contains(t, lastHistory(pub.events[0]).Message, "Rollback not executed")
}

func TestSaga_MinimumAmountBoundary(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.OrderProducts
		kind  service.ErrorKind
	}{
		{name: "0.099 rounds up but stays below", lines: []models.OrderProducts{product(3, "0.033")}, kind: service.KindInvalidAmount},
		{name: "0.0999", lines: []models.OrderProducts{product(3, "0.0333")}, kind: service.KindInvalidAmount},
		{name: "0.095", lines: []models.OrderProducts{product(1, "0.095")}, kind: service.KindInvalidAmount},
		{name: "exactly 0.1", lines: []models.OrderProducts{product(1, "0.1")}, kind: service.KindNone},
		{name: "0.1 split across lines", lines: []models.OrderProducts{product(1, "0.04"), product(2, "0.03")}, kind: service.KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewPaymentRepository()
			paymentService := service.NewPaymentService(repo, &recordingPublisher{}, orchestratorTopic)
			ctx := context.Background()

			result := paymentService.RealizePayment(ctx, sagaEvent(tt.lines...))

			assert.Equal(t, tt.kind, result.Kind())
			stored, err := repo.FindByOrderIDAndTransactionID(ctx, "order-1", "tx-1")
			require.NoError(t, err)
			if tt.kind == service.KindNone {
				assert.Equal(t, models.SagaSuccess, result.Event.Status)
				assert.Equal(t, models.StatusSuccess, stored.Status)
				return
			}
			assert.Equal(t, models.SagaRollbackPending, result.Event.Status)
			assert.Equal(t, models.StatusPending, stored.Status)
			assert.Contains(t, lastHistory(result.Event).Message, "the minimum amount available is 0.1")
		})
	}
}
