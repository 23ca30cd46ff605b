package prometheus

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kade-holloway/go-forkjoin/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	taskDurationSeconds *prom.HistogramVec
	taskPanicTotal      *prom.CounterVec
	queueDepth          *prom.GaugeVec
	stealTotal          *prom.CounterVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "forkjoin"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Forked task execution duration in seconds.",
		Buckets:   buckets,
	}, []string{"task"})
	panicVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_panic_total",
		Help:      "Total number of forked tasks whose Compute panicked.",
	}, []string{"task"})
	queueDepthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "endpoint_queue_depth",
		Help:      "Current pending item count on one scheduling endpoint's deque.",
	}, []string{"endpoint"})
	stealVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "steal_total",
		Help:      "Total number of successful work-stealing steals, by thief endpoint.",
	}, []string{"thief"})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if panicVec, err = registerCollector(reg, panicVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}
	if stealVec, err = registerCollector(reg, stealVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds: durationVec,
		taskPanicTotal:      panicVec,
		queueDepth:          queueDepthVec,
		stealTotal:          stealVec,
	}, nil
}

// RecordTaskDuration records how long a forked task's Compute took.
func (m *MetricsExporter) RecordTaskDuration(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.WithLabelValues(normalizeLabel(label, "unknown")).Observe(duration.Seconds())
}

// RecordTaskPanic records that a forked task's Compute panicked.
func (m *MetricsExporter) RecordTaskPanic(label string, panicInfo any) {
	if m == nil {
		return
	}
	m.taskPanicTotal.WithLabelValues(normalizeLabel(label, "unknown")).Inc()
}

// RecordQueueDepth records the current depth of one endpoint's deque.
// endpointID is rendered as a decimal string label; -1 is the shared
// external endpoint.
func (m *MetricsExporter) RecordQueueDepth(endpointID int, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(endpointLabel(endpointID)).Set(float64(depth))
}

// RecordSteal records a successful steal from one endpoint's deque by another.
func (m *MetricsExporter) RecordSteal(thiefEndpointID, victimEndpointID int) {
	if m == nil {
		return
	}
	m.stealTotal.WithLabelValues(endpointLabel(thiefEndpointID)).Inc()
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func endpointLabel(id int) string {
	if id < 0 {
		return "external"
	}
	return strconv.Itoa(id)
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
