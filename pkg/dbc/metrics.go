package dbc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus metrics of container operations. A nil
// *Metrics records nothing.
type Metrics struct {
	loadsTotal        *prometheus.CounterVec
	savesTotal        *prometheus.CounterVec
	skippedLinesTotal *prometheus.CounterVec
	recordsLoaded     *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		loadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbckit_loads_total",
				Help: "Total number of container loads",
			},
			[]string{"schema", "format", "status"},
		),

		savesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbckit_saves_total",
				Help: "Total number of container saves",
			},
			[]string{"schema", "format", "status"},
		),

		skippedLinesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbckit_skipped_lines_total",
				Help: "Total number of text lines dropped during loads",
			},
			[]string{"schema"},
		),

		recordsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbckit_records_loaded_total",
				Help: "Total number of records decoded",
			},
			[]string{"schema"},
		),

		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dbckit_operation_duration_seconds",
				Help:    "Container load and save duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusSuccess
}

// RecordLoad records a finished load.
func (m *Metrics) RecordLoad(s Schema, f Format, records int, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.loadsTotal.WithLabelValues(s.String(), f.String(), status(err)).Inc()
	m.operationDuration.WithLabelValues("load").Observe(d.Seconds())
	if err == nil {
		m.recordsLoaded.WithLabelValues(s.String()).Add(float64(records))
	}
}

// RecordSave records a finished save.
func (m *Metrics) RecordSave(s Schema, f Format, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.savesTotal.WithLabelValues(s.String(), f.String(), status(err)).Inc()
	m.operationDuration.WithLabelValues("save").Observe(d.Seconds())
}

// RecordSkipped counts one dropped text line.
func (m *Metrics) RecordSkipped(s Schema) {
	if m == nil {
		return
	}
	m.skippedLinesTotal.WithLabelValues(s.String()).Inc()
}
