package config

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// New loads the service configuration from the environment.
// When GO_ENV=local the variables in .env are loaded first.
func New() (*Config, error) {
	var Config Config
	if os.Getenv("GO_ENV") == "local" {
		if err := godotenv.Load(".env"); err != nil {
			logrus.Warn("Error can't get the environment variables by file")
		}
	}

	if err := env.Parse(&Config); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}
	return &Config, nil
}

type Config struct {
	APP
	DB
	Kafka
}

type APP struct {
	PORT      string `env:"APP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// ConfigureLogging applies the level and formatter to the standard logrus logger.
func (a APP) ConfigureLogging() error {
	level, err := logrus.ParseLevel(a.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.LogLevel, err)
	}
	logrus.SetLevel(level)

	switch strings.ToLower(a.LogFormat) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", a.LogFormat)
	}
	return nil
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DB struct {
	DRIVER   string `env:"DB_DRIVER" envDefault:"postgres"`
	HOST     string `env:"DB_HOST"`
	USER     string `env:"DB_USER"`
	PASSWORD string `env:"DB_PASSWORD"`
	NAME     string `env:"DB_NAME"`
	PORT     string `env:"DB_PORT"`
	SSLMODE  string `env:"DB_SSLMODE" envDefault:"disable"`
}

type Kafka struct {
	Brokers              string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	PaymentConsumerGroup string `env:"KAFKA_PAYMENT_GROUP_ID" envDefault:"payment-group"`
	OrchestratorTopic    string `env:"KAFKA_ORCHESTRATOR_TOPIC" envDefault:"orchestrator"`
	PaymentSuccessTopic  string `env:"KAFKA_PAYMENT_SUCCESS_TOPIC" envDefault:"payment-success"`
	PaymentFailTopic     string `env:"KAFKA_PAYMENT_FAIL_TOPIC" envDefault:"payment-fail"`
	DLQTopic             string `env:"KAFKA_DLQ_TOPIC" envDefault:"payment-dlq"`
	Workers              int    `env:"KAFKA_WORKERS" envDefault:"4"`

	RetryMaxAttempts int           `env:"KAFKA_RETRY_MAX_ATTEMPTS" envDefault:"5"`
	RetryBaseDelay   time.Duration `env:"KAFKA_RETRY_BASE_DELAY" envDefault:"100ms"`
	RetryMaxDelay    time.Duration `env:"KAFKA_RETRY_MAX_DELAY" envDefault:"10s"`
	RetryJitter      bool          `env:"KAFKA_RETRY_JITTER" envDefault:"true"`
}

// BrokerList splits the comma separated broker addresses.
func (k Kafka) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// SubscriberTopics are the topics this participant consumes.
func (k Kafka) SubscriberTopics() []string {
	return []string{k.OrchestratorTopic, k.PaymentSuccessTopic, k.PaymentFailTopic}
}

// PublishTopics are the topics this participant writes to.
func (k Kafka) PublishTopics() []string {
	return []string{k.OrchestratorTopic, k.DLQTopic}
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

func (k Kafka) GetRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: k.RetryMaxAttempts,
		BaseDelay:   k.RetryBaseDelay,
		MaxDelay:    k.RetryMaxDelay,
		Jitter:      k.RetryJitter,
	}
}

// WithDefaults fills zero values with 5 attempts, 100ms base delay and 10s max delay.
func (r RetryConfig) WithDefaults() RetryConfig {
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = 5
	}
	if r.BaseDelay <= 0 {
		r.BaseDelay = 100 * time.Millisecond
	}
	if r.MaxDelay <= 0 {
		r.MaxDelay = 10 * time.Second
	}
	return r
}

// Backoff computes the delay before the next attempt: 2^attempt * BaseDelay capped at MaxDelay.
// With Jitter enabled the delay varies by ±15%.
func (r RetryConfig) Backoff(attempt int) time.Duration {
	delay := r.MaxDelay
	if d := math.Pow(2, float64(attempt)) * float64(r.BaseDelay); d < float64(r.MaxDelay) {
		delay = time.Duration(d)
	}

	if r.Jitter {
		jitter := time.Duration(rand.Float64() * float64(delay) * 0.3)
		delay = delay + jitter - time.Duration(float64(delay)*0.15)
	}

	return delay
}
