package subscriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/devandref/payment-service/config"
	"github.com/devandref/payment-service/internal/metrics"
	"github.com/devandref/payment-service/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Handler processes one message. A returned error is retried with backoff
// and the message is dead-lettered once the attempts are exhausted.
type Handler func(ctx context.Context, topic string, value []byte) error

// MessageReader is the part of *kafka.Reader the consumer depends on.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends dead letters.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, message interface{}) error
}

type KafkaConsumer struct {
	Readers      []MessageReader
	DLQPublisher Publisher
	DLQTopic     string
	RetryConfig  config.RetryConfig
	// Workers bounds the number of messages handled concurrently per reader.
	Workers int
}

func NewMultiTopicConsumer(
	brokers []string,
	topics []string,
	groupID string,
	dlq Publisher,
	dlqTopic string,
	workers int,
	retryConfig config.RetryConfig,
) *KafkaConsumer {
	readers := make([]MessageReader, len(topics))
	for i, topic := range topics {
		readers[i] = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		})
	}

	return &KafkaConsumer{
		Readers:      readers,
		DLQPublisher: dlq,
		DLQTopic:     dlqTopic,
		RetryConfig:  retryConfig.WithDefaults(),
		Workers:      workers,
	}
}

// Listen consumes every reader until ctx is done and blocks until all
// in-flight messages are handled.
//
// Messages of one partition always go to the same worker, so they are handled
// and committed in offset order while other partitions proceed in parallel.
func (c *KafkaConsumer) Listen(ctx context.Context, handler Handler) {
	var wg sync.WaitGroup
	for _, reader := range c.Readers {
		wg.Add(1)
		go func(r MessageReader) {
			defer wg.Done()
			c.consume(ctx, r, handler)
		}(reader)
	}
	wg.Wait()
}

func (c *KafkaConsumer) consume(ctx context.Context, r MessageReader, handler Handler) {
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}

	queues := make([]chan kafka.Message, workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan kafka.Message)
		wg.Add(1)
		go func(queue <-chan kafka.Message) {
			defer wg.Done()
			// Offsets commit cumulatively, so nothing after an unresolved
			// message may be committed on its partition.
			blocked := make(map[int]int64)
			for msg := range queue {
				if offset, ok := blocked[msg.Partition]; ok {
					logrus.WithFields(logrus.Fields{
						"topic":          msg.Topic,
						"partition":      msg.Partition,
						"offset":         msg.Offset,
						"blocked_offset": offset,
					}).Warn("Skipping message behind unresolved offset")
					continue
				}
				if !c.processMessage(ctx, msg, handler) {
					blocked[msg.Partition] = msg.Offset
					continue
				}
				if err := r.CommitMessages(context.WithoutCancel(ctx), msg); err != nil {
					logrus.WithError(err).WithField("topic", msg.Topic).Error("Kafka commit error")
				}
			}
		}(queues[i])
	}

	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
	}()

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			logrus.WithError(err).Error("Kafka error")
			select {
			case <-time.After(c.RetryConfig.BaseDelay):
				continue
			case <-ctx.Done():
				return
			}
		}

		select {
		case queues[msg.Partition%workers] <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// processMessage reports whether msg is done with and may be committed.
// In-flight handlers run to completion on shutdown; only retries are abandoned.
// It returns false only once ctx is done.
func (c *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message, handler Handler) bool {
	handlerCtx := context.WithoutCancel(ctx)
	log := logrus.WithFields(logrus.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	for attempt := 0; attempt < c.RetryConfig.MaxAttempts; attempt++ {
		err := safeHandle(handlerCtx, msg, handler)
		if err == nil {
			return true
		}

		if attempt == c.RetryConfig.MaxAttempts-1 {
			log.WithError(err).Errorf("Handler error, attempt %d/%d", attempt+1, c.RetryConfig.MaxAttempts)
			break
		}

		backoff := c.RetryConfig.Backoff(attempt)
		log.WithError(err).Warnf("Handler error, attempt %d/%d. Retrying in %v", attempt+1, c.RetryConfig.MaxAttempts, backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			log.Warn("Shutdown while retrying message")
			return false
		}
	}

	log.Errorf("Message failed after %d retries: key=%s", c.RetryConfig.MaxAttempts, string(msg.Key))
	if c.DLQPublisher == nil {
		return true
	}

	dlqMessage := models.DLQMessage{
		OriginalTopic: msg.Topic,
		Key:           string(msg.Key),
		Value:         string(msg.Value),
		Timestamp:     time.Now().UTC(),
		Attempts:      c.RetryConfig.MaxAttempts,
	}
	return c.deadLetter(ctx, log, dlqMessage)
}

// deadLetter keeps trying until the DLQ accepts the message or ctx is done.
// The message is only committed once it sits in the DLQ.
func (c *KafkaConsumer) deadLetter(ctx context.Context, log *logrus.Entry, dlqMessage models.DLQMessage) bool {
	for attempt := 0; ; attempt++ {
		err := c.DLQPublisher.Publish(ctx, c.DLQTopic, dlqMessage.Key, dlqMessage)
		if err == nil {
			metrics.DeadLettersTotal.WithLabelValues(dlqMessage.OriginalTopic).Inc()
			log.Infof("Message sent to DLQ: key=%s", dlqMessage.Key)
			return true
		}

		backoff := c.RetryConfig.Backoff(attempt)
		log.WithError(err).Errorf("Failed to send message to DLQ, attempt %d. Retrying in %v", attempt+1, backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			log.Warn("Shutdown before message reached the DLQ, leaving it uncommitted")
			return false
		}
	}
}

// safeHandle turns a handler panic into an error so the message still reaches the DLQ.
func safeHandle(ctx context.Context, msg kafka.Message, handler Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, msg.Topic, msg.Value)
}

// Close closes every reader.
func (c *KafkaConsumer) Close() error {
	var errs []error
	for _, r := range c.Readers {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
