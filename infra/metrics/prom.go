package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/ktakeda/loadplan/core/metrics"
)

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	trips       *prometheus.CounterVec
	unloaded    *prometheus.CounterVec
	utilization *prometheus.HistogramVec
}

// NewPromSink registers planning metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loadplan_runs_total",
		Help: "Total number of planning runs",
	}, []string{"status"})
	trips := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loadplan_trips_total",
		Help: "Total number of truck trips planned",
	}, []string{"truck"})
	unloaded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loadplan_unloaded_units_total",
		Help: "Total units of demand left unloaded",
	}, []string{"reason"})
	utilization := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loadplan_trip_volume_utilization_percent",
		Help:    "Volume utilization per planned trip",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	}, []string{"truck"})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(trips); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			trips = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(unloaded); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			unloaded = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(utilization); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			utilization = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{runs: runs, trips: trips, unloaded: unloaded, utilization: utilization}, nil
}

// RecordPlanRun increments the run counter for the run's status.
func (s *PromSink) RecordPlanRun(ev coremetrics.PlanRunEvent) error {
	s.runs.WithLabelValues(ev.Status).Inc()
	return nil
}

// RecordTrips counts trips and observes their volume utilization.
func (s *PromSink) RecordTrips(events []coremetrics.TripEvent) error {
	for _, ev := range events {
		s.trips.WithLabelValues(ev.TruckName).Inc()
		s.utilization.WithLabelValues(ev.TruckName).Observe(ev.VolumeUtilization)
	}
	return nil
}

// RecordUnloaded accumulates unloaded units per reason.
func (s *PromSink) RecordUnloaded(events []coremetrics.UnloadedEvent) error {
	for _, ev := range events {
		s.unloaded.WithLabelValues(ev.Reason).Add(float64(ev.Quantity))
	}
	return nil
}
