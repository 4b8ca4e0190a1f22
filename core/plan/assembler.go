package plan

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ktakeda/loadplan/core/model"
)

// Assembler derives the run summary and period label from an otherwise
// finished result. Kept separate from the packing loop so the summary logic
// can be exercised on hand-built results.
type Assembler struct{}

// Assemble fills res.Summary and res.Period in place. workingDays is the
// number of working days in the planning horizon, which may exceed the days
// carrying trips or warnings. noDemand marks a run that had nothing to plan,
// which gets its own status so callers can skip persistence.
func (Assembler) Assemble(res *model.LoadingPlanResult, start, end time.Time, workingDays int, noDemand bool) {
	var utilizations []float64
	trips := 0
	warnings := len(res.Warnings)
	for _, key := range res.Dates {
		day := res.DailyPlans[key]
		trips += len(day.Trucks)
		warnings += len(day.Warnings)
		for _, truck := range day.Trucks {
			utilizations = append(utilizations, truck.VolumeUtilization)
		}
	}

	s := model.Summary{
		TotalDays:     workingDays,
		TotalTrips:    trips,
		TotalWarnings: warnings,
		UnloadedCount: len(res.UnloadedTasks),
	}
	if len(utilizations) > 0 {
		s.AvgVolumeUtilization = round1(stat.Mean(utilizations, nil))
		s.MaxVolumeUtilization = round1(floats.Max(utilizations))
	}

	switch {
	case noDemand:
		s.Status = model.StatusNoDemand
	case warnings > 0 || len(res.UnloadedTasks) > 0:
		s.Status = model.StatusWarning
	default:
		s.Status = model.StatusOK
	}

	res.Summary = s
	res.Period = fmt.Sprintf("%s ~ %s", model.DateKey(start), model.DateKey(end))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
