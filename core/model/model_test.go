package model

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestContainerVolume(t *testing.T) {
	c := Container{Width: 1000, Depth: 1000, Height: 500}
	if v := c.Volume(); v != 0.5 {
		t.Fatalf("expected 0.5 m3, got %v", v)
	}
	c.MaxVolume = 0.3
	if v := c.Volume(); v != 0.3 {
		t.Fatalf("max volume should win, got %v", v)
	}
}

func TestContainerFootprintAndStack(t *testing.T) {
	c := Container{Width: 1000, Depth: 2000}
	if fp := c.Footprint(); fp != 2 {
		t.Fatalf("expected 2 m2, got %v", fp)
	}
	if c.StackFactor() != 1 {
		t.Fatalf("non-stackable container must not stack")
	}
	c.Stackable = true
	c.MaxStack = 3
	if c.StackFactor() != 3 {
		t.Fatalf("expected stack factor 3")
	}
}

func TestTruckCanArriveBy(t *testing.T) {
	truck := Truck{ArrivalDayOffset: 1}
	if truck.CanArriveBy(date("2026-01-05"), date("2026-01-05")) {
		t.Fatalf("next-day truck cannot serve same-day due")
	}
	if !truck.CanArriveBy(date("2026-01-05"), date("2026-01-06")) {
		t.Fatalf("next-day truck should serve next-day due")
	}
	sameDay := Truck{}
	if !sameDay.CanArriveBy(date("2026-01-05"), date("2026-01-05")) {
		t.Fatalf("same-day truck should serve same-day due")
	}
}

func TestProductAdvanceWindow(t *testing.T) {
	p := Product{LeadTimeDays: 3}
	if p.AdvanceWindowDays() != 0 {
		t.Fatalf("advance disabled means zero window")
	}
	p.CanAdvance = true
	if p.AdvanceWindowDays() != 3 {
		t.Fatalf("expected lead time window")
	}
	p.FixedPointDays = 1
	if p.AdvanceWindowDays() != 1 {
		t.Fatalf("fixed point days should override lead time")
	}
}

func TestDemandLineValidate(t *testing.T) {
	if err := (DemandLine{ProductID: 1, DueDate: date("2026-01-05"), Quantity: 0}).Validate(); err != nil {
		t.Fatalf("zero quantity is legal: %v", err)
	}
	if err := (DemandLine{ProductID: 1, DueDate: date("2026-01-05"), Quantity: -1}).Validate(); err == nil {
		t.Fatalf("negative quantity must be rejected")
	}
	if err := (DemandLine{ProductID: 1, Quantity: 1}).Validate(); err == nil {
		t.Fatalf("zero due date must be rejected")
	}
}

func TestLoadedQuantity(t *testing.T) {
	due := date("2026-01-07")
	res := LoadingPlanResult{
		DailyPlans: map[string]DailyPlan{
			"2026-01-05": {Trucks: []TruckDayAssignment{{LoadedItems: []LoadedItem{
				{ProductID: 1, DeliveryDate: due, TotalQuantity: 30},
			}}}},
			"2026-01-07": {Trucks: []TruckDayAssignment{{LoadedItems: []LoadedItem{
				{ProductID: 1, DeliveryDate: due, TotalQuantity: 20},
				{ProductID: 2, DeliveryDate: due, TotalQuantity: 99},
			}}}},
		},
		Dates: []string{"2026-01-05", "2026-01-07"},
	}
	if q := res.LoadedQuantity(1, due); q != 50 {
		t.Fatalf("expected 50 loaded, got %d", q)
	}
}
