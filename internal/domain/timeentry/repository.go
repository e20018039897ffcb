package timeentry

import (
	"context"
	"time"
)

type TimeEntryRepository interface {
	// ListEvents returns the non-invalidated events of the given employees of
	// companyID dated within [from, to], both inclusive.
	ListEvents(ctx context.Context, companyID string, from, to time.Time, employeeIDs []string) ([]Event, error)
}
