package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/devandref/payment-service/config"
	"github.com/devandref/payment-service/internal/handlers"
	"github.com/devandref/payment-service/internal/metrics"
	"github.com/devandref/payment-service/internal/publisher"
	"github.com/devandref/payment-service/internal/repository/memory"
	"github.com/devandref/payment-service/internal/repository/posgrest"
	"github.com/devandref/payment-service/internal/service"
	"github.com/devandref/payment-service/internal/subscriber"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	Router *gin.Engine
	// Registry receives the collectors and backs /metrics; the default registry when nil.
	Registry *prometheus.Registry

	publisher   *publisher.KafkaPublisher
	consumer    *subscriber.KafkaConsumer
	sagaHandler *handlers.SagaHandler
	closeStore  func() error
}

func (a *App) Initialize(cfg *config.Config) error {
	a.config = cfg

	store, err := a.initStore()
	if err != nil {
		return err
	}

	brokers := cfg.Kafka.BrokerList()
	retryConfig := cfg.Kafka.GetRetryConfig()

	a.publisher = publisher.NewKafkaPublisher(brokers, cfg.Kafka.PublishTopics(), retryConfig)
	paymentService := service.NewPaymentService(store, a.publisher, cfg.Kafka.OrchestratorTopic)
	a.sagaHandler = handlers.NewSagaHandler(paymentService, a.publisher, handlers.Topics{
		Orchestrator:   cfg.Kafka.OrchestratorTopic,
		PaymentSuccess: cfg.Kafka.PaymentSuccessTopic,
		PaymentFail:    cfg.Kafka.PaymentFailTopic,
		DLQ:            cfg.Kafka.DLQTopic,
	})
	paymentHandler := handlers.NewPaymentHandler(store)

	if a.Registry != nil {
		metrics.RegisterMetrics(a.Registry)
	} else {
		metrics.RegisterMetrics(prometheus.DefaultRegisterer)
	}

	a.Router = gin.Default()
	a.Router.Use(gin.Recovery())
	a.RegisterRoutes(paymentHandler)

	a.consumer = subscriber.NewMultiTopicConsumer(
		brokers,
		cfg.Kafka.SubscriberTopics(),
		cfg.Kafka.PaymentConsumerGroup,
		a.publisher,
		cfg.Kafka.DLQTopic,
		cfg.Kafka.Workers,
		retryConfig,
	)
	return nil
}

func (a *App) initStore() (service.PaymentStore, error) {
	switch a.config.DB.DRIVER {
	case config.DriverMemory:
		logrus.Warn("Using in-memory payment store, records are lost on restart")
		a.closeStore = func() error { return nil }
		return memory.NewPaymentRepository(), nil
	case config.DriverPostgres:
		db, err := a.config.DB.GormConnect()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := posgrest.Migrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		a.closeStore = sqlDB.Close
		return posgrest.NewPaymentRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", a.config.DB.DRIVER)
	}
}

// Run serves HTTP and consumes saga events until ctx is done, then drains
// in-flight messages and releases every connection.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", a.config.APP.PORT),
		Handler: a.Router,
	}

	serverErr := make(chan error, 1)
	go func() {
		logrus.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.consumer.Listen(consumerCtx, a.sagaHandler.HandleEvents)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	logrus.Info("Shutting down payment service")
	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Error shutting down HTTP server")
	}

	wg.Wait()

	if err := a.Close(); err != nil {
		logrus.WithError(err).Error("Error closing connections")
	}

	logrus.Info("Payment service stopped")
	return runErr
}

// Close releases the readers, writers and store.
func (a *App) Close() error {
	var errs []error
	if a.consumer != nil {
		errs = append(errs, a.consumer.Close())
	}
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.closeStore != nil {
		errs = append(errs, a.closeStore())
	}
	return errors.Join(errs...)
}
