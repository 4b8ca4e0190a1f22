package calendar

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekdays(t *testing.T) {
	// 2026-01-03 is a Saturday.
	if (Weekdays{}).IsWorkingDay(day("2026-01-03")) {
		t.Fatalf("saturday should be closed")
	}
	if !(Weekdays{}).IsWorkingDay(day("2026-01-05")) {
		t.Fatalf("monday should be open")
	}
}

func TestHolidayGate(t *testing.T) {
	g := NewHolidayGate([]time.Time{day("2026-01-06")}, true)
	if g.IsWorkingDay(day("2026-01-06")) {
		t.Fatalf("closed date should be closed")
	}
	if g.IsWorkingDay(day("2026-01-04")) {
		t.Fatalf("sunday should be closed")
	}
	if !g.IsWorkingDay(day("2026-01-05")) {
		t.Fatalf("ordinary monday should be open")
	}
}

func TestOrAllDays(t *testing.T) {
	if !OrAllDays(nil).IsWorkingDay(day("2026-01-04")) {
		t.Fatalf("nil gate should accept every day")
	}
	if OrAllDays(Weekdays{}).IsWorkingDay(day("2026-01-04")) {
		t.Fatalf("existing gate must be kept")
	}
}
