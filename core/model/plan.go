package model

import "time"

// Plan status labels. The empty-horizon status is latin on purpose, the
// operator-facing ones keep the wording the downstream screens expect.
const (
	StatusOK       = "正常"
	StatusWarning  = "警告あり"
	StatusNoDemand = "no-demand"
)

// Warning types persisted alongside daily warnings.
const (
	WarningAdvance   = "前倒し"
	WarningShortfall = "容量不足"
)

// Unloaded-task reasons.
const (
	ReasonCapacityShortfall = "capacity shortfall"
	ReasonUnknownProduct    = "unknown product"
	ReasonUnknownContainer  = "unknown container"
	ReasonNoMasterData      = "no trucks or containers registered"
)

// LoadedItem is one product batch placed on a truck for a given day.
type LoadedItem struct {
	ProductID     int64
	ProductCode   string
	ProductName   string
	ContainerID   int64
	ContainerName string
	NumContainers int
	TotalQuantity int

	// DeliveryDate is the due date being served.
	DeliveryDate time.Time

	// IsAdvanced marks loadings scheduled before the due date.
	// OriginalDate carries the due date being served early.
	IsAdvanced   bool
	OriginalDate time.Time
}

// TruckDayAssignment is one truck trip on one day.
type TruckDayAssignment struct {
	TruckID     int64
	TruckName   string
	TripNumber  int
	LoadedItems []LoadedItem

	// Utilization percentages, one decimal.
	VolumeUtilization float64
	WeightUtilization float64
}

// DailyPlan collects the trips and warnings of a single working day.
type DailyPlan struct {
	Date     time.Time
	Trucks   []TruckDayAssignment
	Warnings []string
}

// UnloadedTask records demand that could not be assigned, with the reason.
type UnloadedTask struct {
	ProductID     int64
	ProductCode   string
	ProductName   string
	ContainerID   int64
	NumContainers int
	TotalQuantity int
	DeliveryDate  time.Time
	Reason        string
}

// Summary aggregates one planning run.
type Summary struct {
	TotalDays     int
	TotalTrips    int
	TotalWarnings int
	UnloadedCount int

	// Mean and max volume utilization across all trips, percent.
	AvgVolumeUtilization float64
	MaxVolumeUtilization float64

	Status string
}

// LoadingPlanResult is the full output of one planning run.
type LoadingPlanResult struct {
	// DailyPlans is keyed by DateKey. Dates holds the keys in ascending
	// order so iteration stays deterministic.
	DailyPlans map[string]DailyPlan
	Dates      []string

	UnloadedTasks []UnloadedTask

	// Warnings are run-level notes not tied to a single day, such as the
	// missing-master-data degraded mode.
	Warnings []string

	Summary Summary
	Period  string
}

// Plan returns the daily plan for the given date key, if present.
func (r LoadingPlanResult) Plan(key string) (DailyPlan, bool) {
	p, ok := r.DailyPlans[key]
	return p, ok
}

// LoadedQuantity sums everything loaded for a product and due date across
// the whole plan. Used by the conservation checks and the planned-quantity
// recompute.
func (r LoadingPlanResult) LoadedQuantity(productID int64, dueDate time.Time) int {
	total := 0
	for _, key := range r.Dates {
		for _, truck := range r.DailyPlans[key].Trucks {
			for _, item := range truck.LoadedItems {
				if item.ProductID == productID && SameDay(item.DeliveryDate, dueDate) {
					total += item.TotalQuantity
				}
			}
		}
	}
	return total
}
