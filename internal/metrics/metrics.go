package metrics

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation metrics
	poemsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetforge_poems_total",
			Help: "Total number of poem generations by style and status",
		},
		[]string{"style", "status"}, // status: "success"/"error"/"rejected"
	)

	linesRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poetforge_lines_rendered_total",
			Help: "Total number of lines rendered",
		},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poetforge_generation_duration_seconds",
			Help:    "Poem generation duration in seconds by style",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		},
		[]string{"style"},
	)

	// Degradation metrics
	structureFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetforge_structure_fallbacks_total",
			Help: "Template selections that exhausted the retry budget and fell back to the first template",
		},
		[]string{"style"},
	)

	slotDefaults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poetforge_slot_defaults_total",
			Help: "Unrecognised slot codes rendered as nouns",
		},
	)

	selectionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetforge_selection_errors_total",
			Help: "Word selections that failed by tag",
		},
		[]string{"tag"},
	)

	// Worker metrics
	activeWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poetforge_active_workers",
			Help: "Number of active batch workers",
		},
	)

	// HTTP metrics
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetforge_http_requests_total",
			Help: "HTTP API requests by route and status code",
		},
		[]string{"route", "code"},
	)
)

// Collector provides convenience methods for recording metrics
type Collector struct {
	logger *slog.Logger
}

// NewCollector creates a new metrics collector
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		logger: logger,
	}
}

// RecordPoem records one poem generation outcome
func (c *Collector) RecordPoem(style string, duration time.Duration, status string) {
	poemsGenerated.WithLabelValues(style, status).Inc()
	generationDuration.WithLabelValues(style).Observe(duration.Seconds())
}

// AddLines increments the rendered line counter
func (c *Collector) AddLines(n int) {
	linesRendered.Add(float64(n))
}

// IncrementStructureFallback counts a template selection fallback
func (c *Collector) IncrementStructureFallback(style string) {
	structureFallbacks.WithLabelValues(style).Inc()
}

// IncrementSlotDefault counts an unknown slot code defaulted to a noun
func (c *Collector) IncrementSlotDefault() {
	slotDefaults.Inc()
}

// IncrementSelectionError counts a failed word selection
func (c *Collector) IncrementSelectionError(tag string) {
	selectionErrors.WithLabelValues(tag).Inc()
}

// SetActiveWorkers sets the number of active workers
func (c *Collector) SetActiveWorkers(count int) {
	activeWorkers.Set(float64(count))
}

// RecordHTTPRequest counts one API request
func (c *Collector) RecordHTTPRequest(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}
