package payroll

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/timeentry"
)

// WorkedInterval is one matched entry/exit pair.
type WorkedInterval struct {
	EmployeeID string
	Date       time.Time
	Minutes    int
}

// DailyTotal is the worked time of one employee on one date.
type DailyTotal struct {
	EmployeeID string
	Date       time.Time
	Weekday    time.Weekday
	Minutes    int
}

type shiftKey struct {
	employeeID string
	date       time.Time
	slot       int
}

type dayKey struct {
	employeeID string
	date       time.Time
}

// PairEvents matches clock events into worked intervals. Events are grouped by
// employee, date and shift slot and walked in time order; an entry directly
// followed by an exit yields one interval. Every other event is dropped: an
// open shift or a stray exit contributes nothing and is not an error.
func PairEvents(events []timeentry.Event) []WorkedInterval {
	groups := make(map[shiftKey][]timeentry.Event)
	for _, ev := range events {
		if ev.Origin == timeentry.OriginInvalidated {
			continue
		}
		key := shiftKey{employeeID: ev.EmployeeID, date: civilDate(ev.Date), slot: ev.ShiftSlot}
		groups[key] = append(groups[key], ev)
	}

	keys := make([]shiftKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b shiftKey) int {
		return cmp.Or(
			strings.Compare(a.employeeID, b.employeeID),
			a.date.Compare(b.date),
			cmp.Compare(a.slot, b.slot),
		)
	})

	var intervals []WorkedInterval
	for _, key := range keys {
		seq := groups[key]
		// Entry sorts before exit at the same instant so the pair still matches.
		slices.SortStableFunc(seq, func(a, b timeentry.Event) int {
			return cmp.Or(cmp.Compare(a.At, b.At), cmp.Compare(a.Kind, b.Kind))
		})

		for i := 0; i < len(seq); {
			if i+1 < len(seq) && seq[i].Kind == timeentry.EventEntry && seq[i+1].Kind == timeentry.EventExit {
				minutes := int((seq[i+1].At - seq[i].At) / time.Minute)
				if minutes < 0 {
					minutes = 0
				}
				intervals = append(intervals, WorkedInterval{
					EmployeeID: key.employeeID,
					Date:       key.date,
					Minutes:    minutes,
				})
				i += 2
				continue
			}
			i++
		}
	}

	return intervals
}

// AggregateDaily sums intervals per employee and date. Days without intervals
// are absent from the result.
func AggregateDaily(intervals []WorkedInterval) []DailyTotal {
	sums := make(map[dayKey]int)
	for _, iv := range intervals {
		sums[dayKey{employeeID: iv.EmployeeID, date: civilDate(iv.Date)}] += iv.Minutes
	}

	totals := make([]DailyTotal, 0, len(sums))
	for key, minutes := range sums {
		totals = append(totals, DailyTotal{
			EmployeeID: key.employeeID,
			Date:       key.date,
			Weekday:    key.date.Weekday(),
			Minutes:    minutes,
		})
	}
	slices.SortFunc(totals, func(a, b DailyTotal) int {
		return cmp.Or(strings.Compare(a.EmployeeID, b.EmployeeID), a.Date.Compare(b.Date))
	})

	return totals
}

// civilDate drops the clock and zone of t, keeping its calendar date.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
