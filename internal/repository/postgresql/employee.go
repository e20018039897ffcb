package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetCompensationByIDs(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, full_name, compensation_regime, base_salary, hourly_rate
		FROM employees
		WHERE company_id = $1 AND id = ANY($2::uuid[]) AND deleted_at IS NULL
	`

	rows, err := q.Query(ctx, query, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee compensation: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var (
			e          employee.Employee
			regime     string
			baseSalary decimal.NullDecimal
			hourlyRate decimal.NullDecimal
		)
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.FullName, &regime, &baseSalary, &hourlyRate); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.Regime = employee.Regime(regime)
		if !e.Regime.IsValid() {
			// Left out so the caller reports the employee as not found.
			slog.Warn("Skipping employee", "employee_id", e.ID, "regime", regime, "error", employee.ErrInvalidRegime)
			continue
		}
		if baseSalary.Valid {
			e.BaseSalary = &baseSalary.Decimal
		}
		if hourlyRate.Valid {
			e.HourlyRate = &hourlyRate.Decimal
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
