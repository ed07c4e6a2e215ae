// Package metrics exposes Prometheus metrics for the coverage backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory registers metrics on our custom Registry directly
var factory = promauto.With(Registry)

// ScheduleRequestsTotal counts coverage-schedule requests by outcome.
var ScheduleRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "coverage",
	Name:      "schedule_requests_total",
	Help:      "Count of coverage schedule requests, labeled by outcome",
}, []string{"outcome"})

// GridBuildDuration tracks the time spent in the fetch+assemble pass.
var GridBuildDuration = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "coverage",
	Name:      "grid_build_duration_seconds",
	Help:      "Wall time of one coverage grid aggregation (fetch through emit)",
	Buckets:   prometheus.DefBuckets,
})

// GridCellsEmitted tracks how many cells each assembled grid produced.
// The grid suppresses empty cells, so this reflects actual activity.
var GridCellsEmitted = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "coverage",
	Name:      "grid_cells_emitted",
	Help:      "Number of non-empty cells emitted per assembled grid",
	Buckets:   []float64{0, 10, 50, 100, 250, 500, 1000, 2500},
})

// TimezoneFallbacksTotal counts requests served with UTC hour bucketing because
// the organization's configured timezone could not be loaded.
var TimezoneFallbacksTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "coverage",
	Name:      "timezone_fallbacks_total",
	Help:      "Count of grid builds that fell back to UTC hour bucketing",
})
