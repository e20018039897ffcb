package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup untuk menginisialisasi test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase membuat koneksi ke test database dan menjalankan migrasi.
// Test dilewati jika TEST_DATABASE_URL tidak di-set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, database.Migrate(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)

	return setup
}

// TruncateAllTables menghapus semua data dari tabel
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{
		"payroll_line_items",
		"payroll_employee_lines",
		"payroll_periods",
		"time_entries",
		"employees",
		"companies",
	}

	for _, table := range tables {
		if _, err := s.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

// Close menutup koneksi database
func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

func (s *TestDatabaseSetup) mustExec(t *testing.T, sql string, args ...any) {
	t.Helper()
	_, err := s.DB.Exec(context.Background(), sql, args...)
	require.NoError(t, err)
}

func (s *TestDatabaseSetup) mustInsert(t *testing.T, sql string, args ...any) string {
	t.Helper()
	var id string
	require.NoError(t, s.DB.QueryRow(context.Background(), sql+" RETURNING id", args...).Scan(&id))
	return id
}

// fixture is one company with a March 2025 period and two employees.
type fixture struct {
	CompanyID   string
	PeriodID    string
	HourlyID    string
	MonthlyID   string
	HourlyLine  string
	MonthlyLine string
}

func seedFixture(t *testing.T, s *TestDatabaseSetup) fixture {
	t.Helper()

	var f fixture
	f.CompanyID = s.mustInsert(t, `INSERT INTO companies (name) VALUES ('Acme')`)
	f.PeriodID = s.mustInsert(t, `INSERT INTO payroll_periods (company_id, competence) VALUES ($1, '2025-03-01')`, f.CompanyID)
	f.HourlyID = s.mustInsert(t,
		`INSERT INTO employees (company_id, full_name, compensation_regime, hourly_rate) VALUES ($1, 'Hana', 'hourly', 20)`, f.CompanyID)
	f.MonthlyID = s.mustInsert(t,
		`INSERT INTO employees (company_id, full_name, compensation_regime, base_salary) VALUES ($1, 'Budi', 'monthly', 3000)`, f.CompanyID)
	f.HourlyLine = s.mustInsert(t,
		`INSERT INTO payroll_employee_lines (payroll_id, employee_id, inconsistency_count) VALUES ($1, $2, 2)`, f.PeriodID, f.HourlyID)
	f.MonthlyLine = s.mustInsert(t,
		`INSERT INTO payroll_employee_lines (payroll_id, employee_id) VALUES ($1, $2)`, f.PeriodID, f.MonthlyID)

	s.mustExec(t, `INSERT INTO payroll_line_items (line_id, kind, description, amount) VALUES ($1, 'earning', 'Meal allowance', 50)`, f.HourlyLine)
	s.mustExec(t, `INSERT INTO payroll_line_items (line_id, kind, description, amount) VALUES ($1, 'deduction', 'Advance', 100)`, f.MonthlyLine)

	entries := []struct {
		employee, date, in, out, origin string
	}{
		{f.HourlyID, "2025-03-04", "08:00", "", "device"},
		{f.HourlyID, "2025-03-04", "", "17:00", "device"},
		{f.HourlyID, "2025-03-02", "09:00", "", "manual"},
		{f.HourlyID, "2025-03-02", "", "13:00", "adjusted"},
		{f.HourlyID, "2025-03-05", "08:00", "", "device"},
		{f.HourlyID, "2025-03-05", "", "12:00", "invalidated"},
		{f.HourlyID, "2025-04-01", "08:00", "", "device"},
		{f.HourlyID, "2025-04-01", "", "10:00", "device"},
		{f.MonthlyID, "2025-03-08", "08:00", "", "device"},
		{f.MonthlyID, "2025-03-08", "", "18:00", "device"},
	}
	for _, e := range entries {
		s.mustExec(t, `
			INSERT INTO time_entries (company_id, employee_id, entry_date, clock_in, clock_out, origin)
			VALUES ($1, $2, $3::date, NULLIF($4, '')::time, NULLIF($5, '')::time, $6)`,
			f.CompanyID, e.employee, e.date, e.in, e.out, e.origin)
	}

	return f
}
