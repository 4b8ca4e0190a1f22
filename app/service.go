// Package app wires configuration, master data, demand, the planner and
// its collaborators into a runnable service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ktakeda/loadplan/config"
	"github.com/ktakeda/loadplan/core/calendar"
	"github.com/ktakeda/loadplan/core/demand"
	coremetrics "github.com/ktakeda/loadplan/core/metrics"
	"github.com/ktakeda/loadplan/core/model"
	"github.com/ktakeda/loadplan/core/plan"
	"github.com/ktakeda/loadplan/infra/logger"
	"github.com/ktakeda/loadplan/infra/metrics"
	"github.com/ktakeda/loadplan/internal/eventbus"
	"github.com/ktakeda/loadplan/store"
)

// MasterSource provides the master-data snapshot a run plans against.
type MasterSource interface {
	Masters(ctx context.Context) (plan.Masters, error)
}

// PlanEvent is published on the bus after each completed run.
type PlanEvent struct {
	PlanID   string
	Period   string
	Status   string
	Trips    int
	Unloaded int
	Time     time.Time
}

// Service orchestrates one planning run end to end.
type Service struct {
	cfg      *config.Config
	masters  MasterSource
	demand   *demand.Aggregator
	sink     coremetrics.Sink
	store    store.PlanStore
	Bus      *eventbus.Bus[PlanEvent]
	log      logger.Logger
	promAddr string
}

// New creates a Service from the configuration and data sources.
func New(cfg *config.Config, masters MasterSource, demandSrc demand.Source) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	switch cfg.Metrics.Mode {
	case "", "nop":
	case "prometheus":
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	case "influx":
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	case "multi":
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	default:
		return nil, fmt.Errorf("unknown metrics mode %s", cfg.Metrics.Mode)
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var st store.PlanStore
	switch cfg.Store.Backend {
	case "sqlite":
		var err error
		st, err = store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
	case "", "memory":
		st = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store backend %s", cfg.Store.Backend)
	}

	cfg.Planner.SetDefaults()
	return &Service{
		cfg:      cfg,
		masters:  masters,
		demand:   demand.NewAggregator(demandSrc, logg),
		sink:     sink,
		store:    st,
		Bus:      eventbus.New[PlanEvent](),
		log:      logg,
		promAddr: cfg.Metrics.PromAddr,
	}, nil
}

// gate builds the calendar gate from configuration.
func (s *Service) gate() (calendar.Gate, error) {
	if !s.cfg.Planner.UseCalendar {
		return calendar.AllDays{}, nil
	}
	closed := make([]time.Time, 0, len(s.cfg.Calendar.ClosedDates))
	for _, d := range s.cfg.Calendar.ClosedDates {
		t, err := time.Parse(model.DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid closed date %q: %w", d, err)
		}
		closed = append(closed, t)
	}
	return calendar.NewHolidayGate(closed, s.cfg.Calendar.CloseWeekends), nil
}

// RunPlan executes one planning run starting at start: collect masters and
// demand, build the plan, persist it, rewrite planned quantities, record
// metrics and publish the completion event.
func (s *Service) RunPlan(ctx context.Context, start time.Time) (string, *model.LoadingPlanResult, error) {
	began := time.Now()

	masters, err := s.masters.Masters(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("load masters: %w", err)
	}
	gate, err := s.gate()
	if err != nil {
		return "", nil, err
	}
	planner := plan.NewPlanner(masters, nil, gate, s.log)

	horizon := planner.Horizon(start, s.cfg.Planner.Days, s.cfg.Planner.SearchFactor)
	end := model.Day(start).AddDate(0, 0, s.cfg.Planner.Days-1)
	if len(horizon) > 0 {
		end = horizon[len(horizon)-1]
	}
	lines, err := s.demand.Collect(start, end)
	if err != nil {
		return "", nil, fmt.Errorf("collect demand: %w", err)
	}

	res, err := planner.Build(lines, start, s.cfg.Planner)
	if err != nil {
		return "", nil, err
	}

	planID := ""
	if res.Summary.Status != model.StatusNoDemand {
		planID, err = s.store.Save(ctx, start, end, res)
		if err != nil {
			return "", nil, fmt.Errorf("save plan: %w", err)
		}
		if err := s.store.RecomputePlannedQuantities(ctx, res); err != nil {
			return "", nil, fmt.Errorf("recompute planned quantities: %w", err)
		}
	}

	s.record(planID, res, time.Since(began))
	s.Bus.Publish(PlanEvent{
		PlanID:   planID,
		Period:   res.Period,
		Status:   res.Summary.Status,
		Trips:    res.Summary.TotalTrips,
		Unloaded: res.Summary.UnloadedCount,
		Time:     time.Now(),
	})
	s.log.Infof("plan %s finished: status=%s trips=%d unloaded=%d",
		planID, res.Summary.Status, res.Summary.TotalTrips, res.Summary.UnloadedCount)
	return planID, res, nil
}

// record pushes the run to the metric sinks. Sink failures are logged, not
// propagated; observability must not fail a finished plan.
func (s *Service) record(planID string, res *model.LoadingPlanResult, took time.Duration) {
	now := time.Now()
	run := coremetrics.PlanRunEvent{
		PlanID:         planID,
		Period:         res.Period,
		Status:         res.Summary.Status,
		TotalDays:      res.Summary.TotalDays,
		TotalTrips:     res.Summary.TotalTrips,
		TotalWarnings:  res.Summary.TotalWarnings,
		UnloadedCount:  res.Summary.UnloadedCount,
		AvgUtilization: res.Summary.AvgVolumeUtilization,
		MaxUtilization: res.Summary.MaxVolumeUtilization,
		Duration:       took,
		Time:           now,
	}
	if err := s.sink.RecordPlanRun(run); err != nil {
		s.log.Errorf("record plan run: %v", err)
	}

	var trips []coremetrics.TripEvent
	for _, date := range res.Dates {
		for _, truck := range res.DailyPlans[date].Trucks {
			quantity, items := 0, 0
			for _, item := range truck.LoadedItems {
				quantity += item.TotalQuantity
				items++
			}
			trips = append(trips, coremetrics.TripEvent{
				Date:              date,
				TruckID:           truck.TruckID,
				TruckName:         truck.TruckName,
				Items:             items,
				Quantity:          quantity,
				VolumeUtilization: truck.VolumeUtilization,
				WeightUtilization: truck.WeightUtilization,
				Time:              now,
			})
		}
	}
	if len(trips) > 0 {
		if err := s.sink.RecordTrips(trips); err != nil {
			s.log.Errorf("record trips: %v", err)
		}
	}

	var unloaded []coremetrics.UnloadedEvent
	for _, u := range res.UnloadedTasks {
		unloaded = append(unloaded, coremetrics.UnloadedEvent{
			ProductCode: u.ProductCode,
			Quantity:    u.TotalQuantity,
			Reason:      u.Reason,
			Time:        now,
		})
	}
	if len(unloaded) > 0 {
		if err := s.sink.RecordUnloaded(unloaded); err != nil {
			s.log.Errorf("record unloaded: %v", err)
		}
	}
}

// Run executes one planning run for start and blocks until the metrics
// server, if any, shuts down with the context.
func (s *Service) Run(ctx context.Context, start time.Time) error {
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	_, _, err := s.RunPlan(ctx, start)
	return err
}

// Store exposes the plan store for read commands.
func (s *Service) Store() store.PlanStore { return s.store }

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.Bus.Close()
	return s.store.Close()
}
