package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/devandref/payment-service/internal/metrics"
	"github.com/devandref/payment-service/internal/models"
	"github.com/devandref/payment-service/internal/service"
	"github.com/sirupsen/logrus"
)

// PaymentSaga is the payment step the router dispatches to.
type PaymentSaga interface {
	RealizePayment(ctx context.Context, event models.Event) service.Result
	RealizeRefund(ctx context.Context, event models.Event) service.Result
}

// Publisher defines the interface for publishing events to Kafka topics.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, message interface{}) error
}

type Topics struct {
	Orchestrator   string
	PaymentSuccess string
	PaymentFail    string
	DLQ            string
}

// SagaHandler routes inbound saga events to the payment step.
type SagaHandler struct {
	Service PaymentSaga
	DLQ     Publisher
	Topics  Topics
	Now     func() time.Time
}

func NewSagaHandler(s PaymentSaga, dlq Publisher, topics Topics) *SagaHandler {
	return &SagaHandler{
		Service: s,
		DLQ:     dlq,
		Topics:  topics,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// HandleEvents decodes value and runs the step bound to topic.
// It returns an error only for undecodable JSON and unknown topics, which the
// consumer retries and dead-letters itself. Once a step has run, nothing it
// does is reported back as an error, so the step is never redelivered.
func (h *SagaHandler) HandleEvents(ctx context.Context, topic string, value []byte) error {
	var event models.Event
	if err := json.Unmarshal(value, &event); err != nil {
		logrus.WithField("topic", topic).Errorf("Error parsing saga event %s", err.Error())
		return fmt.Errorf("error parsing saga event %w", err)
	}

	var result service.Result
	switch topic {
	case h.Topics.Orchestrator:
		logrus.WithFields(logrus.Fields{
			"topic":    topic,
			"order_id": event.OrderID,
			"source":   event.Source,
			"status":   event.Status,
		}).Info("Orchestrator event received")
		metrics.OrchestratorEventsTotal.WithLabelValues(string(event.Status)).Inc()
		return nil
	case h.Topics.PaymentSuccess:
		result = h.Service.RealizePayment(ctx, event)
	case h.Topics.PaymentFail:
		result = h.Service.RealizeRefund(ctx, event)
	default:
		logrus.Errorf("topic not allowed %s", topic)
		return fmt.Errorf("topic not allowed %s", topic)
	}

	if result.Published() {
		return nil
	}
	h.deadLetter(ctx, topic, result)
	return nil
}

// deadLetter keeps the mutated event when it could not be handed back.
// The step already ran, so a DLQ failure is logged with the event and swallowed.
func (h *SagaHandler) deadLetter(ctx context.Context, topic string, result service.Result) {
	log := logrus.WithFields(logrus.Fields{
		"topic":    topic,
		"order_id": result.Event.OrderID,
	})

	value, err := json.Marshal(result.Event)
	if err != nil {
		log.WithError(err).Error("Error marshaling saga event for DLQ, event dropped")
		return
	}

	key := result.Event.PartitionKey()
	letter := models.DLQMessage{
		OriginalTopic: topic,
		Key:           key,
		Value:         string(value),
		Reason:        result.PublishErr.Error(),
		Timestamp:     h.Now(),
		Attempts:      1,
	}
	if err := h.DLQ.Publish(ctx, h.Topics.DLQ, key, letter); err != nil {
		metrics.PublishFailuresTotal.WithLabelValues(h.Topics.DLQ).Inc()
		log.WithError(err).WithField("event", letter.Value).Error("Error sending saga event to DLQ, event dropped")
		return
	}

	metrics.DeadLettersTotal.WithLabelValues(topic).Inc()
	log.Warn("Saga event sent to DLQ")
}
