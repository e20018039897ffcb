package employee

import (
	"github.com/shopspring/decimal"
)

// Employee carries the compensation fields the payroll engine reads. The full
// employee record is owned by the HR service.
type Employee struct {
	ID         string
	CompanyID  string
	FullName   string
	Regime     Regime
	BaseSalary *decimal.Decimal
	HourlyRate *decimal.Decimal
}

// Regime is the compensation basis of an employee.
type Regime string

const (
	RegimeHourly  Regime = "hourly"
	RegimeDaily   Regime = "daily"
	RegimeMonthly Regime = "monthly"
)

func (r Regime) IsValid() bool {
	switch r {
	case RegimeHourly, RegimeDaily, RegimeMonthly:
		return true
	}
	return false
}
