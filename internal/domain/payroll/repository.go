package payroll

import "context"

// PayrollRepository defines data access for payroll periods, their employee
// lines and the manual line items attached to them.
type PayrollRepository interface {
	// Periods
	GetPeriodByID(ctx context.Context, id string) (PayrollPeriod, error)

	// Employee lines
	ListLinesByPeriod(ctx context.Context, payrollID string) ([]PayrollEmployeeLine, error)
	GetLinesByIDs(ctx context.Context, ids []string) ([]PayrollEmployeeLine, error)
	UpdateLineTotals(ctx context.Context, line PayrollEmployeeLine) error
	// ListInconsistentLines returns up to limit lines of open periods whose
	// inconsistency counter is above zero, ordered by period.
	ListInconsistentLines(ctx context.Context, limit int) ([]PayrollEmployeeLine, error)

	// Line items
	ListLineItems(ctx context.Context, lineIDs []string) ([]PayrollLineItem, error)
}
