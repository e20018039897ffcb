package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== PERIODS ==========

func (r *payrollRepository) GetPeriodByID(ctx context.Context, id string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, competence, status, created_at, updated_at
		FROM payroll_periods
		WHERE id = $1
	`

	var (
		p          payroll.PayrollPeriod
		competence time.Time
		status     string
	)
	err := q.QueryRow(ctx, query, id).Scan(&p.ID, &p.CompanyID, &competence, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollPeriod{}, payroll.ErrPayrollPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}
	p.Competence = payroll.CompetenceOf(competence)
	p.Status = payroll.PeriodStatus(status)

	return p, nil
}

// ========== EMPLOYEE LINES ==========

const lineColumns = `
	id, payroll_id, employee_id,
	normal_hours, premium50_hours, premium100_hours,
	normal_pay, premium50_pay, premium100_pay,
	earnings_total, deductions_total, net_total,
	inconsistency_count, recalculated_at, created_at, updated_at
`

func (r *payrollRepository) ListLinesByPeriod(ctx context.Context, payrollID string) ([]payroll.PayrollEmployeeLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + lineColumns + `
		FROM payroll_employee_lines
		WHERE payroll_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll lines: %w", err)
	}
	defer rows.Close()

	return scanLines(rows)
}

func (r *payrollRepository) GetLinesByIDs(ctx context.Context, ids []string) ([]payroll.PayrollEmployeeLine, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + lineColumns + `
		FROM payroll_employee_lines
		WHERE id = ANY($1::uuid[])
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll lines: %w", err)
	}
	defer rows.Close()

	return scanLines(rows)
}

func (r *payrollRepository) UpdateLineTotals(ctx context.Context, line payroll.PayrollEmployeeLine) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_employee_lines SET
			normal_hours = $2, premium50_hours = $3, premium100_hours = $4,
			normal_pay = $5, premium50_pay = $6, premium100_pay = $7,
			earnings_total = $8, deductions_total = $9, net_total = $10,
			inconsistency_count = $11,
			recalculated_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		line.ID,
		line.NormalHours, line.Premium50Hours, line.Premium100Hours,
		line.NormalPay, line.Premium50Pay, line.Premium100Pay,
		line.EarningsTotal, line.DeductionsTotal, line.NetTotal,
		line.InconsistencyCount,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollLineNotFound
	}

	return nil
}

func (r *payrollRepository) ListInconsistentLines(ctx context.Context, limit int) ([]payroll.PayrollEmployeeLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + lineColumns + `
		FROM payroll_employee_lines
		WHERE inconsistency_count > 0
			AND payroll_id IN (SELECT id FROM payroll_periods WHERE status = 'open')
		ORDER BY payroll_id, id
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list inconsistent payroll lines: %w", err)
	}
	defer rows.Close()

	return scanLines(rows)
}

func scanLines(rows pgx.Rows) ([]payroll.PayrollEmployeeLine, error) {
	var lines []payroll.PayrollEmployeeLine
	for rows.Next() {
		var l payroll.PayrollEmployeeLine
		if err := rows.Scan(
			&l.ID, &l.PayrollID, &l.EmployeeID,
			&l.NormalHours, &l.Premium50Hours, &l.Premium100Hours,
			&l.NormalPay, &l.Premium50Pay, &l.Premium100Pay,
			&l.EarningsTotal, &l.DeductionsTotal, &l.NetTotal,
			&l.InconsistencyCount, &l.RecalculatedAt, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll lines: %w", err)
	}
	return lines, nil
}

// ========== LINE ITEMS ==========

func (r *payrollRepository) ListLineItems(ctx context.Context, lineIDs []string) ([]payroll.PayrollLineItem, error) {
	if len(lineIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, line_id, kind, description, amount, created_at
		FROM payroll_line_items
		WHERE line_id = ANY($1::uuid[])
		ORDER BY line_id, created_at
	`

	rows, err := q.Query(ctx, query, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll line items: %w", err)
	}
	defer rows.Close()

	var items []payroll.PayrollLineItem
	for rows.Next() {
		var (
			item payroll.PayrollLineItem
			kind string
		)
		if err := rows.Scan(&item.ID, &item.LineID, &kind, &item.Description, &item.Amount, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll line item: %w", err)
		}
		item.Kind = payroll.LineItemKind(kind)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll line items: %w", err)
	}

	return items, nil
}
