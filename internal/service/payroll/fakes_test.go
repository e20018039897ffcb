package payroll

import (
	"cmp"
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/timeentry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var errStoreDown = errors.New("store down")

// memStore is an in-memory stand-in for the payroll tables.
type memStore struct {
	periods   map[string]payroll.PayrollPeriod
	lines     map[string]payroll.PayrollEmployeeLine
	items     []payroll.PayrollLineItem
	employees map[string]employee.Employee
	events    []timeentry.Event

	failUpdateFor map[string]bool
	failReads     bool
	updates       int
	lineListings  int
}

func newMemStore() *memStore {
	return &memStore{
		periods:       make(map[string]payroll.PayrollPeriod),
		lines:         make(map[string]payroll.PayrollEmployeeLine),
		employees:     make(map[string]employee.Employee),
		failUpdateFor: make(map[string]bool),
	}
}

// fakeTransactor restores the line table when fn fails, mimicking rollback.
type fakeTransactor struct {
	store     *memStore
	snapshots int
	writes    int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.writes++
	saved := maps.Clone(f.store.lines)
	if err := fn(ctx); err != nil {
		f.store.lines = saved
		return err
	}
	return nil
}

func (f *fakeTransactor) WithinReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	f.snapshots++
	return fn(ctx)
}

type fakePayrollRepo struct{ store *memStore }

func (r *fakePayrollRepo) GetPeriodByID(ctx context.Context, id string) (payroll.PayrollPeriod, error) {
	p, ok := r.store.periods[id]
	if !ok {
		return payroll.PayrollPeriod{}, payroll.ErrPayrollPeriodNotFound
	}
	return p, nil
}

func (r *fakePayrollRepo) ListLinesByPeriod(ctx context.Context, payrollID string) ([]payroll.PayrollEmployeeLine, error) {
	r.store.lineListings++
	if r.store.failReads {
		return nil, errStoreDown
	}
	var out []payroll.PayrollEmployeeLine
	for _, l := range r.store.lines {
		if l.PayrollID == payrollID {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b payroll.PayrollEmployeeLine) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *fakePayrollRepo) GetLinesByIDs(ctx context.Context, ids []string) ([]payroll.PayrollEmployeeLine, error) {
	if r.store.failReads {
		return nil, errStoreDown
	}
	var out []payroll.PayrollEmployeeLine
	for _, id := range ids {
		// uuid columns compare without regard to case and come back lowercase.
		if l, ok := r.store.lines[strings.ToLower(id)]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakePayrollRepo) UpdateLineTotals(ctx context.Context, line payroll.PayrollEmployeeLine) error {
	if r.store.failUpdateFor[line.ID] {
		return errStoreDown
	}
	if _, ok := r.store.lines[line.ID]; !ok {
		return payroll.ErrPayrollLineNotFound
	}
	r.store.updates++
	r.store.lines[line.ID] = line
	return nil
}

func (r *fakePayrollRepo) ListInconsistentLines(ctx context.Context, limit int) ([]payroll.PayrollEmployeeLine, error) {
	if r.store.failReads {
		return nil, errStoreDown
	}
	var out []payroll.PayrollEmployeeLine
	for _, l := range r.store.lines {
		if l.InconsistencyCount > 0 && r.store.periods[l.PayrollID].Status == payroll.PeriodStatusOpen {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b payroll.PayrollEmployeeLine) int {
		return cmp.Or(strings.Compare(a.PayrollID, b.PayrollID), strings.Compare(a.ID, b.ID))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePayrollRepo) ListLineItems(ctx context.Context, lineIDs []string) ([]payroll.PayrollLineItem, error) {
	var out []payroll.PayrollLineItem
	for _, item := range r.store.items {
		if slices.Contains(lineIDs, item.LineID) {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct{ store *memStore }

func (r *fakeEmployeeRepo) GetCompensationByIDs(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if e, ok := r.store.employees[id]; ok && e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeTimeEntryRepo struct{ store *memStore }

func (r *fakeTimeEntryRepo) ListEvents(ctx context.Context, companyID string, from, to time.Time, employeeIDs []string) ([]timeentry.Event, error) {
	var out []timeentry.Event
	for _, ev := range r.store.events {
		if !slices.Contains(employeeIDs, ev.EmployeeID) {
			continue
		}
		if ev.Date.Before(from) || ev.Date.After(to) || ev.Origin == timeentry.OriginInvalidated {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func newTestService(store *memStore) (*PayrollServiceImpl, *fakeTransactor) {
	tx := &fakeTransactor{store: store}
	svc := NewPayrollService(tx, &fakePayrollRepo{store: store}, &fakeEmployeeRepo{store: store}, &fakeTimeEntryRepo{store: store})
	return svc.(*PayrollServiceImpl), tx
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(h, m int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}
