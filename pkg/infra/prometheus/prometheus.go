package prometheus

import (
	"net/http"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds; LLM judges dominate the upper range.
	latencyBuckets = []float64{
		1, 5, 25,
		100, 250, 500,
		1000, 2500, 5000,
		10000, 30000,
	}

	DetectorVerdicts = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetyd_detector_verdicts_total",
			Help: "Detector verdicts by detector and outcome",
		},
		[]string{"detector", "outcome"},
	)

	DetectorLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safetyd_detector_latency_ms",
			Help:    "Detector latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"detector"},
	)

	PreCheckDecisions = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetyd_precheck_decisions_total",
			Help: "Pre-check decisions by block reason (NONE when admitted)",
		},
		[]string{"reason"},
	)

	PostCheckOutcomes = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetyd_postcheck_outcomes_total",
			Help: "Post-check outcomes",
		},
		[]string{"outcome", "reason"},
	)

	Recalls = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetyd_recalls_total",
			Help: "Recall attempts by outcome",
		},
		[]string{"outcome"},
	)

	Deliveries = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetyd_deliveries_total",
			Help: "Broker deliveries by queue and settlement (acked, retried, dead_lettered, requeued)",
		},
		[]string{"queue", "outcome"},
	)

	QueueDepth = promauto.With(registerer).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "safetyd_queue_depth",
			Help: "Ready messages per queue",
		},
		[]string{"queue"},
	)
)

type MetricsConfig struct {
	EnableDetectorLatency bool
	EnableProcess         bool
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableDetectorLatency: true,
		EnableProcess:         true,
	}
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	if cfg.EnableProcess {
		_ = registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		_ = registry.Register(collectors.NewGoCollector())
	}

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Observer feeds detector, consumer and queue-depth events into the
// collectors above.
type Observer struct{}

func NewObserver() *Observer {
	return &Observer{}
}

func (o *Observer) ObserveVerdict(v safety.DetectorVerdict, elapsed time.Duration) {
	DetectorVerdicts.WithLabelValues(v.Detector, v.Outcome()).Inc()
	if Config.EnableDetectorLatency {
		DetectorLatency.WithLabelValues(v.Detector).Observe(float64(elapsed.Microseconds()) / 1000)
	}
}

func (o *Observer) ObserveDelivery(queue, outcome string) {
	Deliveries.WithLabelValues(queue, outcome).Inc()
}

func (o *Observer) ObserveQueueDepth(queue string, messages int) {
	QueueDepth.WithLabelValues(queue).Set(float64(messages))
}
