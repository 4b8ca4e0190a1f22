package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ktakeda/loadplan/config"
	"github.com/ktakeda/loadplan/core/demand"
	"github.com/ktakeda/loadplan/core/model"
	"github.com/ktakeda/loadplan/core/plan"
	"github.com/ktakeda/loadplan/infra/metrics"
	"github.com/ktakeda/loadplan/store"
)

type stubSource struct {
	masters plan.Masters
	rows    []demand.BacklogRow
}

func (s stubSource) Masters(context.Context) (plan.Masters, error) {
	return s.masters, nil
}

func (s stubSource) OutstandingDemand(start, end time.Time) ([]demand.BacklogRow, error) {
	return s.rows, nil
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testConfig() *config.Config {
	return &config.Config{
		Planner: plan.Config{Days: 2},
		Store:   store.Config{Backend: "memory"},
		Metrics: metrics.Config{Mode: "nop"},
	}
}

func testSource() stubSource {
	return stubSource{
		masters: plan.Masters{
			Products:   []model.Product{{ID: 1, Code: "P1", Name: "製品1", CapacityPerContainer: 10, ContainerID: 1}},
			Containers: []model.Container{{ID: 1, Name: "箱A", Width: 1000, Depth: 1000, Height: 500, MaxWeight: 100}},
			Trucks:     []model.Truck{{ID: 1, Name: "4tトラック", Width: 2000, Depth: 5000, Height: 2000, MaxWeight: 10000, DefaultUse: true}},
		},
		rows: []demand.BacklogRow{
			{ProductID: 1, DueDate: day("2026-01-05"), OrderQuantity: 50},
		},
	}
}

func TestRunPlanEndToEnd(t *testing.T) {
	src := testSource()
	svc, err := New(testConfig(), src, src)
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	events := svc.Bus.Subscribe()
	planID, res, err := svc.RunPlan(context.Background(), day("2026-01-05"))
	require.NoError(t, err)
	require.NotEmpty(t, planID)
	require.Equal(t, model.StatusOK, res.Summary.Status)
	require.Equal(t, 1, res.Summary.TotalTrips)

	// The run is persisted and the write-back table rebuilt.
	header, stored, err := svc.Store().Get(context.Background(), planID)
	require.NoError(t, err)
	require.Equal(t, model.StatusOK, header.Status)
	require.Equal(t, 50, stored.LoadedQuantity(1, day("2026-01-05")))

	mem, ok := svc.Store().(*store.MemoryStore)
	require.True(t, ok)
	pqs, err := mem.PlannedQuantities(context.Background())
	require.NoError(t, err)
	require.Equal(t, []store.PlannedQuantity{{ProductID: 1, DueDate: day("2026-01-05"), Quantity: 50}}, pqs)

	select {
	case ev := <-events:
		require.Equal(t, planID, ev.PlanID)
		require.Equal(t, model.StatusOK, ev.Status)
		require.Equal(t, 1, ev.Trips)
	default:
		t.Fatalf("expected a plan event on the bus")
	}
}

func TestRunPlanNoDemandSkipsPersistence(t *testing.T) {
	src := testSource()
	src.rows = nil
	svc, err := New(testConfig(), src, src)
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	planID, res, err := svc.RunPlan(context.Background(), day("2026-01-05"))
	require.NoError(t, err)
	require.Empty(t, planID)
	require.Equal(t, model.StatusNoDemand, res.Summary.Status)

	headers, err := svc.Store().List(context.Background())
	require.NoError(t, err)
	require.Empty(t, headers)
}

func TestNewRejectsUnknownBackends(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "oracle"
	_, err := New(cfg, testSource(), testSource())
	require.Error(t, err)

	cfg = testConfig()
	cfg.Metrics.Mode = "statsd"
	_, err = New(cfg, testSource(), testSource())
	require.Error(t, err)
}
