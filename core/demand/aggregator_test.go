package demand

import (
	"errors"
	"testing"
	"time"

	"github.com/ktakeda/loadplan/core/model"
)

type stubSource struct {
	rows []BacklogRow
	err  error
}

func (s stubSource) OutstandingDemand(start, end time.Time) ([]BacklogRow, error) {
	return s.rows, s.err
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCollectMergesAndNets(t *testing.T) {
	src := stubSource{rows: []BacklogRow{
		{ProductID: 1, DueDate: day("2026-01-06"), OrderQuantity: 100, ShippedQuantity: 20},
		{ProductID: 1, DueDate: day("2026-01-06"), OrderQuantity: 50, PlannedQuantity: 10},
		{ProductID: 2, DueDate: day("2026-01-05"), OrderQuantity: 30},
		// Fully covered rows carry no obligation.
		{ProductID: 3, DueDate: day("2026-01-05"), OrderQuantity: 10, ShippedQuantity: 10},
		// Over-shipped rows clip at zero instead of going negative.
		{ProductID: 4, DueDate: day("2026-01-05"), OrderQuantity: 10, ShippedQuantity: 25},
	}}
	lines, err := NewAggregator(src, nil).Collect(day("2026-01-05"), day("2026-01-09"))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := []model.DemandLine{
		{ProductID: 2, DueDate: day("2026-01-05"), Quantity: 30},
		{ProductID: 1, DueDate: day("2026-01-06"), Quantity: 120},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %+v, got %+v", i, want[i], lines[i])
		}
	}
}

func TestCollectFiltersRange(t *testing.T) {
	src := stubSource{rows: []BacklogRow{
		{ProductID: 1, DueDate: day("2026-01-04"), OrderQuantity: 10},
		{ProductID: 1, DueDate: day("2026-01-10"), OrderQuantity: 10},
		{ProductID: 1, DueDate: day("2026-01-06"), OrderQuantity: 10},
	}}
	lines, err := NewAggregator(src, nil).Collect(day("2026-01-05"), day("2026-01-09"))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(lines) != 1 || !lines[0].DueDate.Equal(day("2026-01-06")) {
		t.Fatalf("expected only the in-range line, got %+v", lines)
	}
}

func TestCollectRejectsMalformedRows(t *testing.T) {
	src := stubSource{rows: []BacklogRow{{ProductID: 1, DueDate: day("2026-01-05"), OrderQuantity: -1}}}
	if _, err := NewAggregator(src, nil).Collect(day("2026-01-05"), day("2026-01-09")); err == nil {
		t.Fatalf("negative order quantity must abort")
	}
}

func TestCollectPropagatesSourceError(t *testing.T) {
	src := stubSource{err: errors.New("db down")}
	if _, err := NewAggregator(src, nil).Collect(day("2026-01-05"), day("2026-01-09")); err == nil {
		t.Fatalf("source error must propagate")
	}
}
