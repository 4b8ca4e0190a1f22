package metrics

import coremetrics "github.com/ktakeda/loadplan/core/metrics"

// MultiSink fans planning events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlanRun forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPlanRun(ev coremetrics.PlanRunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlanRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordTrips forwards trip events to all sinks.
func (m *MultiSink) RecordTrips(events []coremetrics.TripEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrips(events); err != nil {
			return err
		}
	}
	return nil
}

// RecordUnloaded forwards unloaded events to all sinks.
func (m *MultiSink) RecordUnloaded(events []coremetrics.UnloadedEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordUnloaded(events); err != nil {
			return err
		}
	}
	return nil
}
