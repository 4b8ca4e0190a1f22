package metrics

import (
	"time"
)

// PlanRunEvent summarizes one planning run.
type PlanRunEvent struct {
	PlanID         string
	Period         string
	Status         string
	TotalDays      int
	TotalTrips     int
	TotalWarnings  int
	UnloadedCount  int
	AvgUtilization float64
	MaxUtilization float64
	Duration       time.Duration
	Time           time.Time
}

// PlanRecorder records completed planning runs.
type PlanRecorder interface {
	RecordPlanRun(ev PlanRunEvent) error
}

// TripEvent is one truck trip on one day.
type TripEvent struct {
	Date              string
	TruckID           int64
	TruckName         string
	Items             int
	Quantity          int
	VolumeUtilization float64
	WeightUtilization float64
	Time              time.Time
}

// TripRecorder records per-trip loading figures.
type TripRecorder interface {
	RecordTrips(events []TripEvent) error
}

// UnloadedEvent is demand the run could not place.
type UnloadedEvent struct {
	ProductCode string
	Quantity    int
	Reason      string
	Time        time.Time
}

// UnloadedRecorder records unplaced demand.
type UnloadedRecorder interface {
	RecordUnloaded(events []UnloadedEvent) error
}

// Sink is the full recording surface a planning service publishes to.
type Sink interface {
	PlanRecorder
	TripRecorder
	UnloadedRecorder
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlanRun(PlanRunEvent) error    { return nil }
func (NopSink) RecordTrips([]TripEvent) error       { return nil }
func (NopSink) RecordUnloaded([]UnloadedEvent) error { return nil }
