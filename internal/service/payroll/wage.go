package payroll

import (
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// MonthlyReferenceHours is the monthly workload used to derive an hourly rate
// from a base salary and reported as normal hours for monthly employees.
const MonthlyReferenceHours = 220

var (
	monthlyReferenceHours = decimal.NewFromInt(MonthlyReferenceHours)
	minutesPerHour        = decimal.NewFromInt(60)
	premium50Multiplier   = decimal.RequireFromString("1.5")
	premium100Multiplier  = decimal.NewFromInt(2)
)

// Wage is the monetary result for one employee. Hours are rounded to two
// places for reporting; pay is computed from minutes and rounded to cents.
type Wage struct {
	HourlyRate      decimal.Decimal
	NormalHours     decimal.Decimal
	Premium50Hours  decimal.Decimal
	Premium100Hours decimal.Decimal
	NormalPay       decimal.Decimal
	Premium50Pay    decimal.Decimal
	Premium100Pay   decimal.Decimal
}

// ResolveHourlyRate prefers an explicit positive hourly rate, then derives one
// from a positive base salary, and otherwise returns zero. A zero rate means
// compensation is not configured and yields zero pay.
func ResolveHourlyRate(emp employee.Employee) decimal.Decimal {
	if emp.HourlyRate != nil && emp.HourlyRate.IsPositive() {
		return *emp.HourlyRate
	}
	if emp.BaseSalary != nil && emp.BaseSalary.IsPositive() {
		return emp.BaseSalary.Div(monthlyReferenceHours)
	}
	return decimal.Zero
}

// CalculateWage converts classified minutes into pay under the employee's
// regime. Monthly employees report fixed normal hours and their base salary as
// normal pay; overtime is paid the same way for every regime.
func CalculateWage(emp employee.Employee, minutes MinuteBuckets) Wage {
	rate := ResolveHourlyRate(emp)

	w := Wage{
		HourlyRate:      rate,
		Premium50Hours:  minutesToHours(minutes.Premium50),
		Premium100Hours: minutesToHours(minutes.Premium100),
		Premium50Pay:    payFor(rate.Mul(premium50Multiplier), minutes.Premium50),
		Premium100Pay:   payFor(rate.Mul(premium100Multiplier), minutes.Premium100),
	}

	switch emp.Regime {
	case employee.RegimeMonthly:
		w.NormalHours = monthlyReferenceHours
		if emp.BaseSalary != nil && emp.BaseSalary.IsPositive() {
			w.NormalPay = emp.BaseSalary.Round(2)
		} else {
			w.NormalPay = rate.Mul(monthlyReferenceHours).Round(2)
		}
	default:
		w.NormalHours = minutesToHours(minutes.Normal)
		w.NormalPay = payFor(rate, minutes.Normal)
	}

	return w
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Round(2)
}

func payFor(hourlyRate decimal.Decimal, minutes int) decimal.Decimal {
	return hourlyRate.Mul(decimal.NewFromInt(int64(minutes))).Div(minutesPerHour).Round(2)
}
