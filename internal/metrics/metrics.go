package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssistantRepliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_replies_total",
		Help: "Assistant replies by outcome (ok or the failure kind)",
	}, []string{"outcome"})

	AssistantLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "assistant_completion_latency_seconds",
		Help:    "Latency of completion calls to the hosted model",
		Buckets: prometheus.DefBuckets,
	})

	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation",
	}, []string{"op"})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Simulated orders placed at checkout",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveTo records the elapsed seconds on o.
func (t *Timer) ObserveTo(o prometheus.Observer) {
	o.Observe(t.Duration().Seconds())
}
