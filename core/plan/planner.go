// Package plan turns outstanding demand into day-by-day truck loadings.
package plan

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ktakeda/loadplan/core/calendar"
	"github.com/ktakeda/loadplan/core/capacity"
	"github.com/ktakeda/loadplan/core/logger"
	"github.com/ktakeda/loadplan/core/model"
)

// Planner assigns demand to trucks and containers over a working-day
// horizon. It is a pure batch computation: one call, one deterministic
// result, no side effects. A Planner may be shared by concurrent runs; the
// only mutable shared state is the capacity model's cache, which guards
// itself.
type Planner struct {
	masters    Masters
	products   map[int64]model.Product
	containers map[int64]model.Container
	trucks     map[int64]model.Truck
	capacity   *capacity.Model
	gate       calendar.Gate
	log        logger.Logger
}

// NewPlanner builds a planner over a master-data snapshot. A nil capacity
// model is derived from the snapshot's rules, a nil gate treats every day as
// working, a nil logger is silenced.
func NewPlanner(masters Masters, capModel *capacity.Model, gate calendar.Gate, log logger.Logger) *Planner {
	if capModel == nil {
		capModel = capacity.New(masters.Rules)
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Planner{
		masters:    masters,
		products:   masters.productByID(),
		containers: masters.containerByID(),
		trucks:     masters.truckByID(),
		capacity:   capModel,
		gate:       calendar.OrAllDays(gate),
		log:        log,
	}
}

// task tracks one demand line through the run.
type task struct {
	product   model.Product
	container model.Container
	due       time.Time
	earliest  time.Time
	remaining int
}

// truckState accumulates one truck's load for one day.
type truckState struct {
	truck      model.Truck
	usedVolume float64
	usedWeight float64
	// pairUsed counts units consumed against the (truck, container)
	// ceiling, keyed by container id.
	pairUsed map[int64]int
	items    []model.LoadedItem
}

// Build runs the planner for cfg.Days working days starting at start.
// Business-level shortfalls come back as data (warnings and unloaded
// tasks); only contract violations return an error.
func (p *Planner) Build(lines []model.DemandLine, start time.Time, cfg Config) (*model.LoadingPlanResult, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, fmt.Errorf("start date is required")
	}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
	}

	res := &model.LoadingPlanResult{DailyPlans: make(map[string]model.DailyPlan)}

	workingDates := p.Horizon(start, cfg.Days, cfg.SearchFactor)
	horizonEnd := model.Day(start).AddDate(0, 0, cfg.Days-1)
	if n := len(workingDates); n > 0 {
		horizonEnd = workingDates[n-1]
	}
	asm := Assembler{}

	if len(lines) == 0 {
		asm.Assemble(res, model.Day(start), horizonEnd, len(workingDates), true)
		return res, nil
	}

	tasks, err := p.prepare(lines, res)
	if err != nil {
		return nil, err
	}

	if p.masters.Empty() {
		p.unloadAll(tasks, res)
		asm.Assemble(res, model.Day(start), horizonEnd, len(workingDates), false)
		return res, nil
	}

	workingSet := make(map[string]bool, len(workingDates))
	for _, d := range workingDates {
		workingSet[model.DateKey(d)] = true
	}

	states := make(map[string]map[int64]*truckState, len(workingDates))
	dayWarnings := make(map[string][]string)

	for _, day := range workingDates {
		key := model.DateKey(day)
		states[key] = make(map[int64]*truckState)

		gathered := p.gather(tasks, day)
		for _, t := range gathered {
			p.packTask(t, day, states[key], dayWarnings, workingSet)
		}
	}

	p.sweepUnloaded(tasks, res, dayWarnings, workingSet)
	p.emit(res, workingDates, states, dayWarnings)
	asm.Assemble(res, model.Day(start), horizonEnd, len(workingDates), false)

	p.log.Infof("plan built: %d days, %d trips, %d unloaded",
		res.Summary.TotalDays, res.Summary.TotalTrips, res.Summary.UnloadedCount)
	return res, nil
}

// Horizon collects up to days working dates starting at start, scanning at
// most days*factor calendar days forward.
func (p *Planner) Horizon(start time.Time, days, factor int) []time.Time {
	dates := make([]time.Time, 0, days)
	current := model.Day(start)
	for i := 0; i < days*factor && len(dates) < days; i++ {
		if p.gate.IsWorkingDay(current) {
			dates = append(dates, current)
		}
		current = current.AddDate(0, 0, 1)
	}
	return dates
}

// prepare resolves demand lines against the masters. Lines referencing
// unknown rows are reported, never silently dropped.
func (p *Planner) prepare(lines []model.DemandLine, res *model.LoadingPlanResult) ([]*task, error) {
	tasks := make([]*task, 0, len(lines))
	for _, line := range lines {
		if line.Quantity == 0 {
			continue
		}
		product, ok := p.products[line.ProductID]
		if !ok {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("不明な製品: product_id=%d の需要をスキップしました", line.ProductID))
			res.UnloadedTasks = append(res.UnloadedTasks, model.UnloadedTask{
				ProductID:     line.ProductID,
				TotalQuantity: line.Quantity,
				DeliveryDate:  line.DueDate,
				Reason:        model.ReasonUnknownProduct,
			})
			continue
		}
		if err := product.Validate(); err != nil {
			return nil, err
		}
		container, ok := p.containers[product.ContainerID]
		if !ok {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("不明な容器: 製品%s container_id=%d", product.Code, product.ContainerID))
			res.UnloadedTasks = append(res.UnloadedTasks, model.UnloadedTask{
				ProductID:     product.ID,
				ProductCode:   product.Code,
				ProductName:   product.Name,
				ContainerID:   product.ContainerID,
				TotalQuantity: line.Quantity,
				DeliveryDate:  line.DueDate,
				Reason:        model.ReasonUnknownContainer,
			})
			continue
		}
		due := model.Day(line.DueDate)
		tasks = append(tasks, &task{
			product:   product,
			container: container,
			due:       due,
			earliest:  due.AddDate(0, 0, -product.AdvanceWindowDays()),
			remaining: line.Quantity,
		})
	}
	return tasks, nil
}

// gather picks the tasks eligible for the day: due today, or inside their
// advance window, with anything still outstanding. Ordering is priority
// demand first, then nearest due date, then product code.
func (p *Planner) gather(tasks []*task, day time.Time) []*task {
	var out []*task
	for _, t := range tasks {
		if t.remaining <= 0 {
			continue
		}
		if day.Before(t.earliest) || day.After(t.due) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := p.priorityRank(out[i], day), p.priorityRank(out[j], day)
		if pi != pj {
			return pi < pj
		}
		if !out[i].due.Equal(out[j].due) {
			return out[i].due.Before(out[j].due)
		}
		return out[i].product.Code < out[j].product.Code
	})
	return out
}

// priorityRank ranks a task ahead of the rest only when a truck that
// prioritizes it is actually usable on the day, so a product favored solely
// by an excluded truck does not jump the queue.
func (p *Planner) priorityRank(t *task, day time.Time) int {
	for _, truck := range p.masters.Trucks {
		if truck.HasPriorityFor(t.product.Code) && truck.CanArriveBy(day, t.due) {
			return 0
		}
	}
	return 1
}

// candidateTrucks orders the trucks offered to a task on a day: priority
// trucks first, then the product's own preference order, then the remaining
// default trucks. Trucks that cannot reach the customer by the due date are
// excluded.
func (p *Planner) candidateTrucks(t *task, day time.Time) []model.Truck {
	seen := make(map[int64]bool)
	var out []model.Truck
	add := func(truck model.Truck) {
		if seen[truck.ID] {
			return
		}
		seen[truck.ID] = true
		if !truck.CanArriveBy(day, t.due) {
			return
		}
		out = append(out, truck)
	}
	for _, truck := range p.masters.Trucks {
		if truck.HasPriorityFor(t.product.Code) {
			add(truck)
		}
	}
	for _, id := range t.product.TruckIDs {
		if truck, ok := p.trucks[id]; ok {
			add(truck)
		}
	}
	for _, truck := range p.masters.Trucks {
		if truck.DefaultUse {
			add(truck)
		}
	}
	return out
}

// packTask assigns as much of the task as the day's trucks can take.
func (p *Planner) packTask(t *task, day time.Time, dayStates map[int64]*truckState, dayWarnings map[string][]string, workingSet map[string]bool) {
	key := model.DateKey(day)
	for _, truck := range p.candidateTrucks(t, day) {
		if t.remaining <= 0 {
			return
		}
		st, ok := dayStates[truck.ID]
		if !ok {
			st = &truckState{truck: truck, pairUsed: make(map[int64]int)}
			dayStates[truck.ID] = st
		}
		units, containers := p.loadable(st, t)
		if units <= 0 {
			continue
		}

		item := model.LoadedItem{
			ProductID:     t.product.ID,
			ProductCode:   t.product.Code,
			ProductName:   t.product.Name,
			ContainerID:   t.container.ID,
			ContainerName: t.container.Name,
			NumContainers: containers,
			TotalQuantity: units,
			DeliveryDate:  t.due,
		}
		if day.Before(t.due) {
			item.IsAdvanced = true
			item.OriginalDate = t.due
			dayWarnings[key] = append(dayWarnings[key],
				fmt.Sprintf("前倒し: 製品%s %d個を納期%s分として前倒し積載", t.product.Code, units, model.DateKey(t.due)))
			dueKey := model.DateKey(t.due)
			if workingSet[dueKey] {
				dayWarnings[dueKey] = append(dayWarnings[dueKey],
					fmt.Sprintf("前倒し対応: 製品%s %d個を%sに前倒し済み", t.product.Code, units, key))
			}
		}
		st.items = append(st.items, item)
		st.usedVolume += float64(containers) * t.container.Volume()
		st.usedWeight += float64(containers) * t.container.MaxWeight
		st.pairUsed[t.container.ID] += units
		t.remaining -= units
	}
}

// loadable computes how many units of the task this truck can still take,
// bounded by the pair ceiling and the truck's volume and weight budgets.
func (p *Planner) loadable(st *truckState, t *task) (units, containers int) {
	capPer := t.product.CapacityPerContainer
	pairLeft := p.capacity.MaxQuantity(st.truck, t.container, t.product) - st.pairUsed[t.container.ID]
	if pairLeft <= 0 {
		return 0, 0
	}

	maxContainers := (t.remaining + capPer - 1) / capPer
	if v := t.container.Volume(); v > 0 {
		fit := int(math.Floor((st.truck.Volume()-st.usedVolume)/v + 1e-9))
		if fit < maxContainers {
			maxContainers = fit
		}
	}
	if t.container.MaxWeight > 0 && st.truck.MaxWeight > 0 {
		fit := int(math.Floor((st.truck.MaxWeight-st.usedWeight)/t.container.MaxWeight + 1e-9))
		if fit < maxContainers {
			maxContainers = fit
		}
	}
	if maxContainers <= 0 {
		return 0, 0
	}

	units = t.remaining
	if budget := maxContainers * capPer; budget < units {
		units = budget
	}
	if pairLeft < units {
		units = pairLeft
	}
	if units <= 0 {
		return 0, 0
	}
	return units, (units + capPer - 1) / capPer
}

// sweepUnloaded records everything still outstanding after the horizon as
// unloaded tasks, warning on the due day when it is part of the plan.
func (p *Planner) sweepUnloaded(tasks []*task, res *model.LoadingPlanResult, dayWarnings map[string][]string, workingSet map[string]bool) {
	for _, t := range tasks {
		if t.remaining <= 0 {
			continue
		}
		containers := (t.remaining + t.product.CapacityPerContainer - 1) / t.product.CapacityPerContainer
		msg := fmt.Sprintf("容量不足: 製品%s %d個（%d容器）を積載できませんでした", t.product.Code, t.remaining, containers)
		dueKey := model.DateKey(t.due)
		if workingSet[dueKey] {
			dayWarnings[dueKey] = append(dayWarnings[dueKey], msg)
		} else {
			res.Warnings = append(res.Warnings, msg)
		}
		res.UnloadedTasks = append(res.UnloadedTasks, model.UnloadedTask{
			ProductID:     t.product.ID,
			ProductCode:   t.product.Code,
			ProductName:   t.product.Name,
			ContainerID:   t.container.ID,
			NumContainers: containers,
			TotalQuantity: t.remaining,
			DeliveryDate:  t.due,
			Reason:        model.ReasonCapacityShortfall,
		})
	}
}

// unloadAll is the degraded mode when no trucks or containers exist.
func (p *Planner) unloadAll(tasks []*task, res *model.LoadingPlanResult) {
	res.Warnings = append(res.Warnings, "トラックまたは容器が未登録のため、全需要を積み残しました")
	for _, t := range tasks {
		containers := (t.remaining + t.product.CapacityPerContainer - 1) / t.product.CapacityPerContainer
		res.UnloadedTasks = append(res.UnloadedTasks, model.UnloadedTask{
			ProductID:     t.product.ID,
			ProductCode:   t.product.Code,
			ProductName:   t.product.Name,
			ContainerID:   t.container.ID,
			NumContainers: containers,
			TotalQuantity: t.remaining,
			DeliveryDate:  t.due,
			Reason:        model.ReasonNoMasterData,
		})
		t.remaining = 0
	}
}

// emit materializes daily plans for days that carry trips or warnings.
// Trucks keep master order so re-runs produce identical output.
func (p *Planner) emit(res *model.LoadingPlanResult, workingDates []time.Time, states map[string]map[int64]*truckState, dayWarnings map[string][]string) {
	for _, day := range workingDates {
		key := model.DateKey(day)
		dayStates := states[key]

		var trucks []model.TruckDayAssignment
		for _, truck := range p.masters.Trucks {
			st, ok := dayStates[truck.ID]
			if !ok || len(st.items) == 0 {
				continue
			}
			trucks = append(trucks, model.TruckDayAssignment{
				TruckID:           truck.ID,
				TruckName:         truck.Name,
				TripNumber:        1,
				LoadedItems:       st.items,
				VolumeUtilization: utilization(st.usedVolume, truck.Volume()),
				WeightUtilization: utilization(st.usedWeight, truck.MaxWeight),
			})
		}

		warnings := dayWarnings[key]
		if len(trucks) == 0 && len(warnings) == 0 {
			continue
		}
		res.DailyPlans[key] = model.DailyPlan{Date: day, Trucks: trucks, Warnings: warnings}
	}

	res.Dates = make([]string, 0, len(res.DailyPlans))
	for key := range res.DailyPlans {
		res.Dates = append(res.Dates, key)
	}
	sort.Strings(res.Dates)
}

// utilization returns used/total as a percentage with one decimal.
func utilization(used, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(used/total*1000) / 10
}
