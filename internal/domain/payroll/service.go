package payroll

import (
	"context"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
)

type PayrollService interface {
	// Recalculate rebuilds and persists the computed figures of the requested
	// lines, or of every line of the period when none are requested.
	Recalculate(ctx context.Context, principal user.Principal, payrollID string, req RecalculateRequest) (RecalculateResponse, error)
	// Preview computes the same figures as Recalculate without writing them.
	Preview(ctx context.Context, principal user.Principal, payrollID string, req RecalculateRequest) (RecalculateResponse, error)
	Timesheet(ctx context.Context, principal user.Principal, payrollID string, lineID string) (TimesheetResponse, error)
	Summary(ctx context.Context, principal user.Principal, payrollID string) (PeriodSummaryResponse, error)
	// RecalculateInconsistent recalculates flagged lines of open periods on
	// behalf of the system and returns how many lines were written.
	RecalculateInconsistent(ctx context.Context) (int, error)
}
