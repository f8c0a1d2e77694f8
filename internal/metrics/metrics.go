package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SagaStepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_steps_total",
			Help: "Total saga steps processed by outcome",
		},
		[]string{"step", "outcome"},
	)

	PaymentAmounts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_amounts",
			Help:    "Distribution of computed payment totals",
			Buckets: prometheus.LinearBuckets(0, 50, 20),
		},
		[]string{"status"},
	)

	PublishFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_publish_failures_total",
			Help: "Saga events that could not be published after retries",
		},
		[]string{"topic"},
	)

	OrchestratorEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_events_total",
			Help: "Events observed on the orchestrator topic",
		},
		[]string{"status"},
	)

	DeadLettersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dead_letters_total",
			Help: "Messages sent to the dead letter topic",
		},
		[]string{"topic"},
	)
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		SagaStepsTotal,
		PaymentAmounts,
		PublishFailuresTotal,
		OrchestratorEventsTotal,
		DeadLettersTotal,
	)
}
