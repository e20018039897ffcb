package payroll

import (
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// LineItemTotals is the sum of the manual items of one employee line.
type LineItemTotals struct {
	Earnings   decimal.Decimal
	Deductions decimal.Decimal
}

// SumLineItems totals earnings and deductions per line id. Item amounts are
// taken as entered.
func SumLineItems(items []payroll.PayrollLineItem) map[string]LineItemTotals {
	totals := make(map[string]LineItemTotals)
	for _, item := range items {
		t := totals[item.LineID]
		switch item.Kind {
		case payroll.LineItemEarning:
			t.Earnings = t.Earnings.Add(item.Amount)
		case payroll.LineItemDeduction:
			t.Deductions = t.Deductions.Add(item.Amount)
		}
		totals[item.LineID] = t
	}
	return totals
}
