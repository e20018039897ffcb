package payroll

import "errors"

var (
	ErrPayrollPeriodNotFound = errors.New("payroll period not found")
	ErrPayrollAccessDenied   = errors.New("no access to this payroll period")
	ErrPayrollLineNotFound   = errors.New("payroll employee line not found")
	ErrRecalculationFailed   = errors.New("recalculation failed, nothing was changed")
	ErrInvalidCompetence     = errors.New("invalid payroll competence")
)

// Per-line failure reasons reported inside a recalculation result.
const (
	ReasonNotInPayroll     = "line is not part of this payroll"
	ReasonEmployeeNotFound = "employee not found"
)
