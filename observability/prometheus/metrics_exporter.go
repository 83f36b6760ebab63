// Package prometheus adapts the promise package's Metrics hooks to
// Prometheus collectors.
package prometheus

import (
	"errors"
	"fmt"
	"time"

	promise "github.com/eventualgo/go-promise"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	// SettleBuckets are the histogram buckets, in seconds, for the pending
	// duration of settled promises. Defaults to prometheus.DefBuckets.
	SettleBuckets []float64
}

// MetricsExporter implements promise.Metrics on top of Prometheus
// collectors. Install it with promise.SetMetrics.
type MetricsExporter struct {
	createdTotal         prom.Counter
	settleDurationSecond *prom.HistogramVec
	uncaughtErrorTotal   prom.Counter
	schedulerQueueDepth  prom.Gauge
}

var _ promise.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers the promise pipeline collectors.
// An empty namespace defaults to "promise"; a nil registerer defaults to
// prometheus.DefaultRegisterer. Already-registered collectors are reused.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "promise"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.SettleBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	created := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of promises created, derived promises included.",
	})
	settled := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "settle_duration_seconds",
		Help:      "Time promises spent pending before settling, by terminal state.",
		Buckets:   buckets,
	}, []string{"state"})
	uncaught := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "uncaught_errors_total",
		Help:      "Total number of errors reported to the uncaught error handler.",
	})
	queueDepth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_queue_depth",
		Help:      "Backlog of the default reaction scheduler.",
	})

	var err error
	if created, err = registerCollector(reg, created); err != nil {
		return nil, err
	}
	if settled, err = registerCollector(reg, settled); err != nil {
		return nil, err
	}
	if uncaught, err = registerCollector(reg, uncaught); err != nil {
		return nil, err
	}
	if queueDepth, err = registerCollector(reg, queueDepth); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		createdTotal:         created,
		settleDurationSecond: settled,
		uncaughtErrorTotal:   uncaught,
		schedulerQueueDepth:  queueDepth,
	}, nil
}

// RecordCreated counts a created promise.
func (m *MetricsExporter) RecordCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

// RecordSettled observes the pending duration of a settled promise.
func (m *MetricsExporter) RecordSettled(state promise.State, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.settleDurationSecond.WithLabelValues(stateLabel(state)).Observe(elapsed.Seconds())
}

// RecordUncaughtError counts an error reported to the uncaught handler.
func (m *MetricsExporter) RecordUncaughtError(reason error) {
	if m == nil {
		return
	}
	m.uncaughtErrorTotal.Inc()
}

// RecordQueueDepth records the default scheduler's backlog.
func (m *MetricsExporter) RecordQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.schedulerQueueDepth.Set(float64(depth))
}

func stateLabel(state promise.State) string {
	switch state {
	case promise.StateFulfilled:
		return "fulfilled"
	case promise.StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
