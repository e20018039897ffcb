package timeentry

import "time"

// EventKind tells whether a clock event opens or closes a worked interval.
type EventKind int

const (
	EventEntry EventKind = iota + 1
	EventExit
)

func (k EventKind) String() string {
	switch k {
	case EventEntry:
		return "entry"
	case EventExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Origin tags where a clock event came from.
type Origin string

const (
	OriginDevice      Origin = "device"
	OriginManual      Origin = "manual"
	OriginAdjusted    Origin = "adjusted"
	OriginInvalidated Origin = "invalidated"
)

// Event is one clock-in or clock-out. Date is a civil date at UTC midnight,
// At is the offset from that midnight.
type Event struct {
	ID         string
	EmployeeID string
	Date       time.Time
	ShiftSlot  int
	Kind       EventKind
	At         time.Duration
	Origin     Origin
}

func Entry(employeeID string, date time.Time, slot int, at time.Duration) Event {
	return Event{EmployeeID: employeeID, Date: date, ShiftSlot: slot, Kind: EventEntry, At: at, Origin: OriginDevice}
}

func Exit(employeeID string, date time.Time, slot int, at time.Duration) Event {
	return Event{EmployeeID: employeeID, Date: date, ShiftSlot: slot, Kind: EventExit, At: at, Origin: OriginDevice}
}
