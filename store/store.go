// Package store persists planning runs so downstream screens and the
// planned-quantity recompute can read them back.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/ktakeda/loadplan/core/model"
)

// Header is the stored summary row of one plan.
type Header struct {
	ID          string
	Name        string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Status      string
	CreatedAt   time.Time
	Summary     model.Summary
}

// PlannedQuantity is the loaded total for one product and due date,
// written back so the demand source stops offering covered demand.
type PlannedQuantity struct {
	ProductID int64
	DueDate   time.Time
	Quantity  int
}

// PlanStore persists and retrieves planning runs.
type PlanStore interface {
	// Save persists the whole result and returns the generated plan id.
	Save(ctx context.Context, periodStart, periodEnd time.Time, res *model.LoadingPlanResult) (string, error)
	// Get loads a previously saved result.
	Get(ctx context.Context, id string) (Header, *model.LoadingPlanResult, error)
	// List returns stored headers, newest first.
	List(ctx context.Context) ([]Header, error)
	// Delete removes a plan and its detail rows.
	Delete(ctx context.Context, id string) error
	// RecomputePlannedQuantities resets all planned quantities and rewrites
	// them from the given result in one transaction.
	RecomputePlannedQuantities(ctx context.Context, res *model.LoadingPlanResult) error
	Close() error
}

// Config selects the store backend.
type Config struct {
	// Backend is "sqlite" or "memory".
	Backend string `json:"backend"`
	// Path is the SQLite database file.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Path == "" {
		c.Path = "loadplan.db"
	}
}

// WarningType classifies a warning message by its prefix. Messages that are
// not advance notices count as capacity shortfalls.
func WarningType(msg string) string {
	if strings.HasPrefix(msg, model.WarningAdvance) {
		return model.WarningAdvance
	}
	return model.WarningShortfall
}

// plannedQuantities flattens the loaded items of a result into per
// (product, due date) totals.
func plannedQuantities(res *model.LoadingPlanResult) []PlannedQuantity {
	type key struct {
		productID int64
		due       string
	}
	totals := make(map[key]*PlannedQuantity)
	var order []key
	for _, date := range res.Dates {
		for _, truck := range res.DailyPlans[date].Trucks {
			for _, item := range truck.LoadedItems {
				k := key{item.ProductID, model.DateKey(item.DeliveryDate)}
				pq, ok := totals[k]
				if !ok {
					pq = &PlannedQuantity{ProductID: item.ProductID, DueDate: model.Day(item.DeliveryDate)}
					totals[k] = pq
					order = append(order, k)
				}
				pq.Quantity += item.TotalQuantity
			}
		}
	}
	out := make([]PlannedQuantity, 0, len(order))
	for _, k := range order {
		out = append(out, *totals[k])
	}
	return out
}
