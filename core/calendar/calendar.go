// Package calendar answers whether a given date is a working day.
package calendar

import (
	"time"

	"github.com/ktakeda/loadplan/core/model"
)

// Gate is the company-calendar collaborator. Implementations must be pure:
// no side effects, same answer for the same date within a run.
type Gate interface {
	IsWorkingDay(date time.Time) bool
}

// AllDays treats every date as a working day. It is the behaviour when the
// calendar collaborator is disabled or unavailable.
type AllDays struct{}

func (AllDays) IsWorkingDay(time.Time) bool { return true }

// Weekdays treats Monday through Friday as working days.
type Weekdays struct{}

func (Weekdays) IsWorkingDay(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// HolidayGate closes an explicit set of dates, optionally weekends too.
type HolidayGate struct {
	closed        map[string]struct{}
	closeWeekends bool
}

// NewHolidayGate builds a gate from the closed dates.
func NewHolidayGate(closed []time.Time, closeWeekends bool) *HolidayGate {
	m := make(map[string]struct{}, len(closed))
	for _, d := range closed {
		m[model.DateKey(d)] = struct{}{}
	}
	return &HolidayGate{closed: m, closeWeekends: closeWeekends}
}

func (g *HolidayGate) IsWorkingDay(date time.Time) bool {
	if g.closeWeekends && !(Weekdays{}).IsWorkingDay(date) {
		return false
	}
	_, off := g.closed[model.DateKey(date)]
	return !off
}

// OrAllDays returns gate unchanged, or AllDays when gate is nil, so callers
// can pass an optional collaborator straight through.
func OrAllDays(gate Gate) Gate {
	if gate == nil {
		return AllDays{}
	}
	return gate
}
