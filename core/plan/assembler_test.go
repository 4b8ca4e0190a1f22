package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ktakeda/loadplan/core/model"
)

func TestAssembleStats(t *testing.T) {
	res := &model.LoadingPlanResult{
		DailyPlans: map[string]model.DailyPlan{
			"2026-01-05": {Trucks: []model.TruckDayAssignment{
				{VolumeUtilization: 40},
				{VolumeUtilization: 80},
			}},
			"2026-01-06": {Trucks: []model.TruckDayAssignment{
				{VolumeUtilization: 60},
			}},
		},
		Dates: []string{"2026-01-05", "2026-01-06"},
	}

	Assembler{}.Assemble(res, day("2026-01-05"), day("2026-01-06"), 2, false)

	require.Equal(t, 2, res.Summary.TotalDays)
	require.Equal(t, 3, res.Summary.TotalTrips)
	require.Equal(t, 0, res.Summary.TotalWarnings)
	require.InDelta(t, 60.0, res.Summary.AvgVolumeUtilization, 1e-9)
	require.InDelta(t, 80.0, res.Summary.MaxVolumeUtilization, 1e-9)
	require.Equal(t, model.StatusOK, res.Summary.Status)
	require.Equal(t, "2026-01-05 ~ 2026-01-06", res.Period)
}

func TestAssembleStatusWarning(t *testing.T) {
	res := &model.LoadingPlanResult{
		DailyPlans: map[string]model.DailyPlan{
			"2026-01-05": {Warnings: []string{"容量不足: x"}},
		},
		Dates: []string{"2026-01-05"},
	}
	Assembler{}.Assemble(res, day("2026-01-05"), day("2026-01-05"), 1, false)
	require.Equal(t, model.StatusWarning, res.Summary.Status)
	require.Equal(t, 1, res.Summary.TotalWarnings)

	res = &model.LoadingPlanResult{
		UnloadedTasks: []model.UnloadedTask{{TotalQuantity: 5}},
	}
	Assembler{}.Assemble(res, day("2026-01-05"), day("2026-01-05"), 1, false)
	require.Equal(t, model.StatusWarning, res.Summary.Status)
}

func TestAssembleNoDemand(t *testing.T) {
	res := &model.LoadingPlanResult{}
	Assembler{}.Assemble(res, day("2026-01-05"), day("2026-01-09"), 5, true)
	require.Equal(t, model.StatusNoDemand, res.Summary.Status)
	require.Zero(t, res.Summary.TotalTrips)
	require.Equal(t, 5, res.Summary.TotalDays)
	require.Equal(t, "2026-01-05 ~ 2026-01-09", res.Period)
}
