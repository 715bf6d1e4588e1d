package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the point module. Tracks lifecycle
// transitions and the proximity search duration.
type Metrics struct {
	PointsCreated     prometheus.Counter
	PointsApproved    prometheus.Counter
	PointsRejected    prometheus.Counter
	PointsResubmitted prometheus.Counter
	PointsDeleted     prometheus.Counter
	PointsDeactivated prometheus.Counter
	NearbyDuration    prometheus.Histogram
}

// New creates a Metrics instance with all point module metrics registered.
func New() *Metrics {
	return &Metrics{
		PointsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donapoint_points_created_total",
			Help: "Total number of donation points created",
		}),
		PointsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donapoint_points_approved_total",
			Help: "Total number of donation points approved",
		}),
		PointsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donapoint_points_rejected_total",
			Help: "Total number of donation points rejected",
		}),
		PointsResubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donapoint_points_resubmitted_total",
			Help: "Total number of rejected points re-queued after an edit",
		}),
		PointsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donapoint_points_deleted_total",
			Help: "Total number of organization points physically removed",
		}),
		PointsDeactivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "donapoint_points_deactivated_total",
			Help: "Total number of administrator points soft-deactivated",
		}),
		NearbyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "donapoint_nearby_duration_seconds",
			Help:    "Duration of proximity searches over the visible set",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveNearby records the duration of a proximity search. Call with
// time.Now() captured at the start of the operation.
func (m *Metrics) ObserveNearby(start time.Time) {
	m.NearbyDuration.Observe(time.Since(start).Seconds())
}
