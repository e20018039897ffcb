package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxRecalculationTargets caps the number of line ids accepted per request.
const MaxRecalculationTargets = 1000

// ========== RECALCULATION DTOs ==========

type RecalculateRequest struct {
	LineIDs []string `json:"line_ids,omitempty"` // Empty = every line of the period
}

func (r *RecalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.LineIDs) > MaxRecalculationTargets {
		errs = append(errs, validator.ValidationError{
			Field:   "line_ids",
			Message: fmt.Sprintf("at most %d lines per request", MaxRecalculationTargets),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PeriodRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type LineFigures struct {
	EmployeeID      string          `json:"employee_id"`
	Regime          string          `json:"regime"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	NormalHours     decimal.Decimal `json:"normal_hours"`
	Premium50Hours  decimal.Decimal `json:"premium50_hours"`
	Premium100Hours decimal.Decimal `json:"premium100_hours"`
	NormalPay       decimal.Decimal `json:"normal_pay"`
	Premium50Pay    decimal.Decimal `json:"premium50_pay"`
	Premium100Pay   decimal.Decimal `json:"premium100_pay"`
	EarningsTotal   decimal.Decimal `json:"earnings_total"`
	DeductionsTotal decimal.Decimal `json:"deductions_total"`
	NetTotal        decimal.Decimal `json:"net_total"`
}

// LineResult carries either Figures or Error, never both.
type LineResult struct {
	ID      string       `json:"id"`
	OK      bool         `json:"ok"`
	Figures *LineFigures `json:"figures,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type RecalculateResponse struct {
	Count   int          `json:"count"`
	DryRun  bool         `json:"dry_run"`
	Period  PeriodRange  `json:"period"`
	Results []LineResult `json:"results"`
}

// ========== TIMESHEET DTOs ==========

type TimesheetDay struct {
	Date              string `json:"date"`
	Weekday           string `json:"weekday"`
	WorkedMinutes     int    `json:"worked_minutes"`
	NormalMinutes     int    `json:"normal_minutes"`
	Premium50Minutes  int    `json:"premium50_minutes"`
	Premium100Minutes int    `json:"premium100_minutes"`
}

type TimesheetResponse struct {
	LineID            string         `json:"line_id"`
	EmployeeID        string         `json:"employee_id"`
	Period            PeriodRange    `json:"period"`
	Days              []TimesheetDay `json:"days"`
	NormalMinutes     int            `json:"normal_minutes"`
	Premium50Minutes  int            `json:"premium50_minutes"`
	Premium100Minutes int            `json:"premium100_minutes"`
}

// ========== SUMMARY DTOs ==========

type PeriodSummaryResponse struct {
	PayrollID         string          `json:"payroll_id"`
	CompanyID         string          `json:"company_id"`
	Competence        string          `json:"competence"`
	Status            string          `json:"status"`
	Period            PeriodRange     `json:"period"`
	LineCount         int             `json:"line_count"`
	InconsistentLines int             `json:"inconsistent_lines"`
	NormalHours       decimal.Decimal `json:"normal_hours"`
	Premium50Hours    decimal.Decimal `json:"premium50_hours"`
	Premium100Hours   decimal.Decimal `json:"premium100_hours"`
	NormalPay         decimal.Decimal `json:"normal_pay"`
	Premium50Pay      decimal.Decimal `json:"premium50_pay"`
	Premium100Pay     decimal.Decimal `json:"premium100_pay"`
	EarningsTotal     decimal.Decimal `json:"earnings_total"`
	DeductionsTotal   decimal.Decimal `json:"deductions_total"`
	NetTotal          decimal.Decimal `json:"net_total"`
}
