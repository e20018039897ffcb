package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/timeentry"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/payroll-engine/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollRepository_GetPeriodByID(t *testing.T) {
	setup := NewTestDatabase(t)
	f := seedFixture(t, setup)
	repo := postgresql.NewPayrollRepository(setup.DB)
	ctx := context.Background()

	period, err := repo.GetPeriodByID(ctx, f.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, f.CompanyID, period.CompanyID)
	assert.Equal(t, "2025-03", period.Competence.String())
	assert.Equal(t, payroll.PeriodStatusOpen, period.Status)

	_, err = repo.GetPeriodByID(ctx, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, payroll.ErrPayrollPeriodNotFound)
}

func TestPayrollRepository_Lines(t *testing.T) {
	setup := NewTestDatabase(t)
	f := seedFixture(t, setup)
	repo := postgresql.NewPayrollRepository(setup.DB)
	ctx := context.Background()

	lines, err := repo.ListLinesByPeriod(ctx, f.PeriodID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	lines, err = repo.GetLinesByIDs(ctx, []string{f.HourlyLine, "00000000-0000-4000-8000-000000000000"})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, f.HourlyID, lines[0].EmployeeID)
	assert.Equal(t, 2, lines[0].InconsistencyCount)
	assert.Nil(t, lines[0].RecalculatedAt)

	items, err := repo.ListLineItems(ctx, []string{f.HourlyLine, f.MonthlyLine})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPayrollRepository_UpdateLineTotals(t *testing.T) {
	setup := NewTestDatabase(t)
	f := seedFixture(t, setup)
	repo := postgresql.NewPayrollRepository(setup.DB)
	ctx := context.Background()

	line := payroll.PayrollEmployeeLine{
		ID:          f.HourlyLine,
		NormalHours: decimal.NewFromInt(8),
		NormalPay:   decimal.RequireFromString("160.00"),
		NetTotal:    decimal.RequireFromString("160.00"),
	}
	require.NoError(t, repo.UpdateLineTotals(ctx, line))

	lines, err := repo.GetLinesByIDs(ctx, []string{f.HourlyLine})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].NetTotal.Equal(decimal.NewFromInt(160)))
	assert.Zero(t, lines[0].InconsistencyCount)
	assert.NotNil(t, lines[0].RecalculatedAt)

	line.ID = "00000000-0000-4000-8000-000000000000"
	assert.ErrorIs(t, repo.UpdateLineTotals(ctx, line), payroll.ErrPayrollLineNotFound)
}

func TestEmployeeRepository_GetCompensationByIDs(t *testing.T) {
	setup := NewTestDatabase(t)
	f := seedFixture(t, setup)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	ctx := context.Background()

	setup.mustExec(t, `UPDATE employees SET deleted_at = NOW() WHERE id = $1`, f.MonthlyID)

	employees, err := repo.GetCompensationByIDs(ctx, f.CompanyID, []string{f.HourlyID, f.MonthlyID})
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, employee.RegimeHourly, employees[0].Regime)
	require.NotNil(t, employees[0].HourlyRate)
	assert.True(t, employees[0].HourlyRate.Equal(decimal.NewFromInt(20)))
	assert.Nil(t, employees[0].BaseSalary)

	other := setup.mustInsert(t, `INSERT INTO companies (name) VALUES ('Other')`)
	employees, err = repo.GetCompensationByIDs(ctx, other, []string{f.HourlyID})
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestTimeEntryRepository_ListEvents(t *testing.T) {
	setup := NewTestDatabase(t)
	f := seedFixture(t, setup)
	repo := postgresql.NewTimeEntryRepository(setup.DB)
	ctx := context.Background()

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	events, err := repo.ListEvents(ctx, f.CompanyID, from, to, []string{f.HourlyID})
	require.NoError(t, err)

	// Invalidated and April rows are excluded.
	require.Len(t, events, 5)
	var entries, exits int
	for _, ev := range events {
		assert.NotEqual(t, timeentry.OriginInvalidated, ev.Origin)
		switch ev.Kind {
		case timeentry.EventEntry:
			entries++
		case timeentry.EventExit:
			exits++
		}
	}
	assert.Equal(t, 3, entries)
	assert.Equal(t, 2, exits)
}

func TestEmployeeRepository_SkipsUnknownRegime(t *testing.T) {
	setup := NewTestDatabase(t)
	f := seedFixture(t, setup)
	repo := postgresql.NewEmployeeRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)
	ctx := context.Background()

	// The schema forbids unknown regimes, so the constraint is dropped inside a
	// transaction that is always rolled back.
	rollback := errors.New("rollback")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := postgresql.GetQuerier(ctx, setup.DB)
		if _, err := q.Exec(ctx, `ALTER TABLE employees DROP CONSTRAINT employees_compensation_regime_check`); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `UPDATE employees SET compensation_regime = 'weekly' WHERE id = $1`, f.MonthlyID); err != nil {
			return err
		}

		employees, err := repo.GetCompensationByIDs(ctx, f.CompanyID, []string{f.HourlyID, f.MonthlyID})
		require.NoError(t, err)
		require.Len(t, employees, 1)
		assert.Equal(t, f.HourlyID, employees[0].ID)
		return rollback
	})
	require.ErrorIs(t, err, rollback)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	f := seedFixture(t, setup)
	repo := postgresql.NewPayrollRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		line := payroll.PayrollEmployeeLine{ID: f.HourlyLine, NetTotal: decimal.NewFromInt(999)}
		if err := repo.UpdateLineTotals(ctx, line); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	lines, err := repo.GetLinesByIDs(ctx, []string{f.HourlyLine})
	require.NoError(t, err)
	assert.True(t, lines[0].NetTotal.IsZero())
	assert.Equal(t, 2, lines[0].InconsistencyCount)
}

func TestTransactor_ReadSnapshotIsReadOnly(t *testing.T) {
	setup := NewTestDatabase(t)
	f := seedFixture(t, setup)
	repo := postgresql.NewPayrollRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	err := tx.WithinReadSnapshot(context.Background(), func(ctx context.Context) error {
		return repo.UpdateLineTotals(ctx, payroll.PayrollEmployeeLine{ID: f.HourlyLine})
	})
	assert.Error(t, err)
}

func TestPayrollService_RecalculateAgainstPostgres(t *testing.T) {
	setup := NewTestDatabase(t)
	f := seedFixture(t, setup)

	payrollRepo := postgresql.NewPayrollRepository(setup.DB)
	svc := payrollService.NewPayrollService(
		postgresql.NewTransactor(setup.DB),
		payrollRepo,
		postgresql.NewEmployeeRepository(setup.DB),
		postgresql.NewTimeEntryRepository(setup.DB),
	)
	owner := user.Principal{UserID: "owner", CompanyID: f.CompanyID, Role: user.RoleOwner}
	ctx := context.Background()

	resp, err := svc.Recalculate(ctx, owner, f.PeriodID, payroll.RecalculateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)

	lines, err := payrollRepo.GetLinesByIDs(ctx, []string{f.HourlyLine, f.MonthlyLine})
	require.NoError(t, err)
	net := make(map[string]decimal.Decimal)
	for _, l := range lines {
		net[l.ID] = l.NetTotal
		assert.NotNil(t, l.RecalculatedAt)
		assert.Zero(t, l.InconsistencyCount)
	}
	assert.True(t, net[f.HourlyLine].Equal(decimal.NewFromInt(400)), net[f.HourlyLine].String())
	assert.True(t, net[f.MonthlyLine].Equal(decimal.RequireFromString("2940.91")), net[f.MonthlyLine].String())

	summary, err := svc.Summary(ctx, owner, f.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.LineCount)
	assert.True(t, summary.NetTotal.Equal(decimal.RequireFromString("3340.91")), summary.NetTotal.String())
}
