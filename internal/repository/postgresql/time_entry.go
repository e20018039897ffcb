package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/timeentry"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgtype"
)

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timeentry.TimeEntryRepository {
	return &timeEntryRepository{db: db}
}

func (r *timeEntryRepository) ListEvents(ctx context.Context, companyID string, from, to time.Time, employeeIDs []string) ([]timeentry.Event, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, entry_date, shift_slot, clock_in, clock_out, origin
		FROM time_entries
		WHERE company_id = $1
			AND entry_date BETWEEN $2 AND $3
			AND employee_id = ANY($4::uuid[])
			AND origin <> 'invalidated'
		ORDER BY employee_id, entry_date, shift_slot
	`

	rows, err := q.Query(ctx, query, companyID, from, to, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var events []timeentry.Event
	for rows.Next() {
		var (
			ev       timeentry.Event
			date     pgtype.Date
			clockIn  pgtype.Time
			clockOut pgtype.Time
			origin   string
		)
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &date, &ev.ShiftSlot, &clockIn, &clockOut, &origin); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}

		ev.Date = date.Time
		ev.Origin = timeentry.Origin(origin)
		switch {
		case clockIn.Valid:
			ev.Kind = timeentry.EventEntry
			ev.At = time.Duration(clockIn.Microseconds) * time.Microsecond
		case clockOut.Valid:
			ev.Kind = timeentry.EventExit
			ev.At = time.Duration(clockOut.Microseconds) * time.Microsecond
		default:
			continue
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}

	return events, nil
}
