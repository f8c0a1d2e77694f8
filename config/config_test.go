package config_test

import (
	"testing"
	"time"

	"github.com/devandref/payment-service/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.APP.PORT)
	assert.Equal(t, config.DriverPostgres, cfg.DB.DRIVER)
	assert.Equal(t, "payment-group", cfg.Kafka.PaymentConsumerGroup)
	assert.Equal(t, []string{"orchestrator", "payment-success", "payment-fail"}, cfg.Kafka.SubscriberTopics())
	assert.Equal(t, []string{"orchestrator", "payment-dlq"}, cfg.Kafka.PublishTopics())
	assert.Equal(t, 4, cfg.Kafka.Workers)
	assert.Equal(t, 100*time.Millisecond, cfg.Kafka.RetryBaseDelay)
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_PAYMENT_SUCCESS_TOPIC", "payment-success-v2")
	t.Setenv("KAFKA_WORKERS", "8")
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.BrokerList())
	assert.Equal(t, "payment-success-v2", cfg.Kafka.PaymentSuccessTopic)
	assert.Equal(t, 8, cfg.Kafka.Workers)
	assert.Equal(t, config.DriverMemory, cfg.DB.DRIVER)
}

func TestNew_InvalidValue(t *testing.T) {
	t.Setenv("KAFKA_WORKERS", "many")

	cfg, err := config.New()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())

	err := config.APP{LogLevel: "debug", LogFormat: "text"}.ConfigureLogging()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	assert.Error(t, config.APP{LogLevel: "loud", LogFormat: "json"}.ConfigureLogging())
	assert.Error(t, config.APP{LogLevel: "info", LogFormat: "xml"}.ConfigureLogging())
}

func TestRetryConfig_Backoff(t *testing.T) {
	rc := config.RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	assert.Equal(t, 100*time.Millisecond, rc.Backoff(0))
	assert.Equal(t, 400*time.Millisecond, rc.Backoff(2))
	assert.Equal(t, time.Second, rc.Backoff(10))
	assert.Equal(t, time.Second, rc.Backoff(200))
}

func TestRetryConfig_BackoffJitterBounds(t *testing.T) {
	rc := config.RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Jitter: true}

	for i := 0; i < 50; i++ {
		d := rc.Backoff(1)
		assert.GreaterOrEqual(t, d, 170*time.Millisecond)
		assert.LessOrEqual(t, d, 230*time.Millisecond)
	}
}

func TestRetryConfig_WithDefaults(t *testing.T) {
	rc := config.RetryConfig{}.WithDefaults()

	assert.Equal(t, 5, rc.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, rc.BaseDelay)
	assert.Equal(t, 10*time.Second, rc.MaxDelay)
}
