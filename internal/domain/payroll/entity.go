package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "open"
	PeriodStatusClosed PeriodStatus = "closed"
)

// Competence is the year-month a payroll period covers.
type Competence struct {
	Year  int
	Month time.Month
}

const competenceLayout = "2006-01"

func ParseCompetence(s string) (Competence, error) {
	t, err := time.Parse(competenceLayout, s)
	if err != nil {
		return Competence{}, fmt.Errorf("%w: %q", ErrInvalidCompetence, s)
	}
	return Competence{Year: t.Year(), Month: t.Month()}, nil
}

// CompetenceOf returns the competence containing t.
func CompetenceOf(t time.Time) Competence {
	return Competence{Year: t.Year(), Month: t.Month()}
}

// FirstDay is the first calendar day of the competence at UTC midnight.
func (c Competence) FirstDay() time.Time {
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay is the last calendar day of the competence at UTC midnight.
func (c Competence) LastDay() time.Time {
	return c.FirstDay().AddDate(0, 1, -1)
}

func (c Competence) String() string {
	return c.FirstDay().Format(competenceLayout)
}

// PayrollPeriod - one monthly payroll run of a company
type PayrollPeriod struct {
	ID         string
	CompanyID  string
	Competence Competence
	Status     PeriodStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PayrollEmployeeLine - computed payroll figures of one employee in one period.
// Only the recalculation engine writes the numeric fields.
type PayrollEmployeeLine struct {
	ID                 string
	PayrollID          string
	EmployeeID         string
	NormalHours        decimal.Decimal
	Premium50Hours     decimal.Decimal
	Premium100Hours    decimal.Decimal
	NormalPay          decimal.Decimal
	Premium50Pay       decimal.Decimal
	Premium100Pay      decimal.Decimal
	EarningsTotal      decimal.Decimal
	DeductionsTotal    decimal.Decimal
	NetTotal           decimal.Decimal
	InconsistencyCount int
	RecalculatedAt     *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LineItemKind enum
type LineItemKind string

const (
	LineItemEarning   LineItemKind = "earning"
	LineItemDeduction LineItemKind = "deduction"
)

// PayrollLineItem - manually entered earning or deduction of a line
type PayrollLineItem struct {
	ID          string
	LineID      string
	Kind        LineItemKind
	Description string
	Amount      decimal.Decimal
	CreatedAt   time.Time
}
