package model

import (
	"fmt"
	"time"
)

// DemandLine is one outstanding obligation: quantity units of a product owed
// by a due date. Lines are immutable once handed to the planner; the planner
// tracks consumption on its own copies.
type DemandLine struct {
	ProductID int64
	DueDate   time.Time
	Quantity  int
}

// Validate rejects lines that violate the planner's input contract. These
// are caller bugs, not planning outcomes.
func (d DemandLine) Validate() error {
	if d.Quantity < 0 {
		return fmt.Errorf("demand for product %d: negative quantity %d", d.ProductID, d.Quantity)
	}
	if d.DueDate.IsZero() {
		return fmt.Errorf("demand for product %d: due date is required", d.ProductID)
	}
	return nil
}
