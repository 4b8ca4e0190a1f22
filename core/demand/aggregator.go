// Package demand nets backlog rows into outstanding demand lines.
package demand

import (
	"fmt"
	"sort"
	"time"

	"github.com/ktakeda/loadplan/core/logger"
	"github.com/ktakeda/loadplan/core/model"
)

// BacklogRow is one raw order row as supplied by the backlog collaborator.
// Quantities already shipped or planned by earlier runs are netted out.
type BacklogRow struct {
	ProductID       int64
	DueDate         time.Time
	OrderQuantity   int
	ShippedQuantity int
	PlannedQuantity int
}

// Outstanding returns the remaining obligation of the row, clipped at zero.
func (r BacklogRow) Outstanding() int {
	q := r.OrderQuantity - r.ShippedQuantity - r.PlannedQuantity
	if q < 0 {
		return 0
	}
	return q
}

func (r BacklogRow) validate() error {
	if r.OrderQuantity < 0 || r.ShippedQuantity < 0 || r.PlannedQuantity < 0 {
		return fmt.Errorf("backlog row for product %d: negative quantity", r.ProductID)
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("backlog row for product %d: due date is required", r.ProductID)
	}
	return nil
}

// Source supplies the backlog for a date range, both bounds inclusive.
type Source interface {
	OutstandingDemand(start, end time.Time) ([]BacklogRow, error)
}

// Aggregator turns backlog rows into one strictly positive DemandLine per
// (product, due date). Rows with nothing outstanding carry no obligation and
// are dropped.
type Aggregator struct {
	source Source
	log    logger.Logger
}

// NewAggregator wires a Source. A nil logger is replaced with a no-op one.
func NewAggregator(source Source, log logger.Logger) *Aggregator {
	if log == nil {
		log = logger.Nop{}
	}
	return &Aggregator{source: source, log: log}
}

// Collect fetches and nets the backlog for [start, end]. Malformed rows are
// caller bugs and abort the run.
func (a *Aggregator) Collect(start, end time.Time) ([]model.DemandLine, error) {
	rows, err := a.source.OutstandingDemand(start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch backlog: %w", err)
	}

	type key struct {
		productID int64
		day       string
	}
	merged := make(map[key]*model.DemandLine)
	for _, row := range rows {
		if err := row.validate(); err != nil {
			return nil, err
		}
		due := model.Day(row.DueDate)
		if due.Before(model.Day(start)) || due.After(model.Day(end)) {
			continue
		}
		q := row.Outstanding()
		if q <= 0 {
			continue
		}
		k := key{row.ProductID, model.DateKey(due)}
		if line, ok := merged[k]; ok {
			line.Quantity += q
			continue
		}
		merged[k] = &model.DemandLine{ProductID: row.ProductID, DueDate: due, Quantity: q}
	}

	lines := make([]model.DemandLine, 0, len(merged))
	for _, line := range merged {
		lines = append(lines, *line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].DueDate.Equal(lines[j].DueDate) {
			return lines[i].DueDate.Before(lines[j].DueDate)
		}
		return lines[i].ProductID < lines[j].ProductID
	})

	a.log.Debugf("aggregated %d backlog rows into %d demand lines", len(rows), len(lines))
	return lines, nil
}
