package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the connector's prometheus instruments.
type Metrics struct {
	RunsTotal        prometheus.Counter
	RunDuration      prometheus.Histogram
	UnitResults      *prometheus.CounterVec
	OrdersExported   prometheus.Counter
	OrdersSkipped    prometheus.Counter
	UploadFailures   prometheus.Counter
	FeedFilesWritten prometheus.Counter
}

// New registers the connector metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bv_purchase_feed_runs_total",
			Help: "Number of purchase feed generation runs started.",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bv_purchase_feed_run_duration_seconds",
			Help:    "Wall-clock duration of purchase feed runs.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		UnitResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bv_purchase_feed_unit_results_total",
			Help: "Scope unit outcomes per run, by result.",
		}, []string{"result"}),
		OrdersExported: factory.NewCounter(prometheus.CounterOpts{
			Name: "bv_purchase_feed_orders_exported_total",
			Help: "Orders written to a feed and flagged sent.",
		}),
		OrdersSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "bv_purchase_feed_orders_skipped_total",
			Help: "Eligible orders skipped because their interaction could not be resolved.",
		}),
		UploadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "bv_purchase_feed_upload_failures_total",
			Help: "Feed files that were written locally but failed to upload.",
		}),
		FeedFilesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "bv_purchase_feed_files_written_total",
			Help: "Feed files written to the export directory.",
		}),
	}
}

// ObserveRun records one completed run.
func (m *Metrics) ObserveRun(start time.Time) {
	m.RunsTotal.Inc()
	m.RunDuration.Observe(time.Since(start).Seconds())
}
