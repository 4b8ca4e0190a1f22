package model

import "fmt"

// Product describes one shippable item and its loading preferences.
type Product struct {
	ID   int64
	Code string
	Name string

	// CapacityPerContainer is the number of units one container holds.
	CapacityPerContainer int

	// LeadTimeDays bounds how many days a loading may be advanced ahead of
	// the due date. FixedPointDays, when positive, replaces it.
	LeadTimeDays   int
	FixedPointDays int
	CanAdvance     bool

	Stackable bool

	// ContainerID is the container this product ships in.
	ContainerID int64

	// TruckIDs lists preferred trucks in priority order, first entry is the
	// most preferred. Empty means any default truck.
	TruckIDs []int64
}

// AdvanceWindowDays returns how far ahead of the due date this product may be
// loaded. Zero when the product cannot be advanced.
func (p Product) AdvanceWindowDays() int {
	if !p.CanAdvance {
		return 0
	}
	if p.FixedPointDays > 0 {
		return p.FixedPointDays
	}
	if p.LeadTimeDays > 0 {
		return p.LeadTimeDays
	}
	return 0
}

// Validate checks that the master row is usable by the planner.
func (p Product) Validate() error {
	if p.ID == 0 {
		return fmt.Errorf("product %q: id is required", p.Code)
	}
	if p.CapacityPerContainer <= 0 {
		return fmt.Errorf("product %q: capacity per container must be positive", p.Code)
	}
	if p.LeadTimeDays < 0 || p.FixedPointDays < 0 {
		return fmt.Errorf("product %q: lead time must not be negative", p.Code)
	}
	return nil
}
