package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/timeentry"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	tx            database.Transactor
	payrollRepo   payroll.PayrollRepository
	employeeRepo  employee.EmployeeRepository
	timeEntryRepo timeentry.TimeEntryRepository
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	timeEntryRepo timeentry.TimeEntryRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:            tx,
		payrollRepo:   payrollRepo,
		employeeRepo:  employeeRepo,
		timeEntryRepo: timeEntryRepo,
	}
}

// batchTarget is a requested line that passed scope checks.
type batchTarget struct {
	line     payroll.PayrollEmployeeLine
	employee employee.Employee
}

// recalculationBatch is everything read for one call, taken from a single
// snapshot before anything is written.
type recalculationBatch struct {
	requested []string
	// canonical maps each requested id to the lowercase form stored lines use.
	canonical map[string]string
	failures  map[string]string
	targets   []batchTarget
	events    []timeentry.Event
	items     []payroll.PayrollLineItem
}

// computedLine pairs the rewritten line with the figures reported for it.
type computedLine struct {
	line    payroll.PayrollEmployeeLine
	figures payroll.LineFigures
}

// ========== RECALCULATION ==========

func (s *PayrollServiceImpl) Recalculate(ctx context.Context, principal user.Principal, payrollID string, req payroll.RecalculateRequest) (payroll.RecalculateResponse, error) {
	return s.recalculate(ctx, principal, payrollID, req, false)
}

func (s *PayrollServiceImpl) Preview(ctx context.Context, principal user.Principal, payrollID string, req payroll.RecalculateRequest) (payroll.RecalculateResponse, error) {
	return s.recalculate(ctx, principal, payrollID, req, true)
}

func (s *PayrollServiceImpl) recalculate(ctx context.Context, principal user.Principal, payrollID string, req payroll.RecalculateRequest, dryRun bool) (payroll.RecalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecalculateResponse{}, err
	}

	permission := user.PermissionPayrollRecalculate
	if dryRun {
		permission = user.PermissionPayrollView
	}
	period, err := s.authorizePeriod(ctx, principal, payrollID, permission)
	if err != nil {
		return payroll.RecalculateResponse{}, err
	}

	var batch recalculationBatch
	err = s.tx.WithinReadSnapshot(ctx, func(ctx context.Context) error {
		var err error
		batch, err = s.loadBatch(ctx, period, req.LineIDs)
		return err
	})
	if err != nil {
		slog.Error("Failed to load recalculation batch", "payroll_id", period.ID, "error", err)
		return payroll.RecalculateResponse{}, fmt.Errorf("%w: %w", payroll.ErrRecalculationFailed, err)
	}

	computed := computeBatch(batch)

	count := 0
	if !dryRun && len(computed) > 0 {
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			for _, c := range computed {
				if err := s.payrollRepo.UpdateLineTotals(ctx, c.line); err != nil {
					return fmt.Errorf("update line %s: %w", c.line.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			slog.Error("Payroll recalculation rolled back", "payroll_id", period.ID, "lines", len(computed), "error", err)
			return payroll.RecalculateResponse{}, fmt.Errorf("%w: %w", payroll.ErrRecalculationFailed, err)
		}
		count = len(computed)
	}

	for id, reason := range batch.failures {
		slog.Warn("Payroll line skipped", "payroll_id", period.ID, "line_id", id, "reason", reason)
	}
	slog.Info("Payroll recalculated",
		"payroll_id", period.ID,
		"competence", period.Competence.String(),
		"user_id", principal.UserID,
		"dry_run", dryRun,
		"updated", count,
		"skipped", len(batch.failures),
	)

	return payroll.RecalculateResponse{
		Count:   count,
		DryRun:  dryRun,
		Period:  periodRange(period),
		Results: buildResults(batch, computed),
	}, nil
}

// authorizePeriod loads the period header and checks the caller may act on
// it. No line of the period is read before this passes.
func (s *PayrollServiceImpl) authorizePeriod(ctx context.Context, principal user.Principal, payrollID string, permission user.Permission) (payroll.PayrollPeriod, error) {
	if !principal.Can(permission) {
		return payroll.PayrollPeriod{}, payroll.ErrPayrollAccessDenied
	}
	if !validator.IsValidUUID(payrollID) {
		return payroll.PayrollPeriod{}, payroll.ErrPayrollPeriodNotFound
	}

	period, err := s.payrollRepo.GetPeriodByID(ctx, payrollID)
	if err != nil {
		return payroll.PayrollPeriod{}, err
	}

	if !principal.CanAccessCompany(period.CompanyID) {
		return payroll.PayrollPeriod{}, payroll.ErrPayrollAccessDenied
	}

	return period, nil
}

func (s *PayrollServiceImpl) loadBatch(ctx context.Context, period payroll.PayrollPeriod, lineIDs []string) (recalculationBatch, error) {
	batch := recalculationBatch{
		canonical: make(map[string]string),
		failures:  make(map[string]string),
	}

	var candidates []payroll.PayrollEmployeeLine
	if len(lineIDs) == 0 {
		lines, err := s.payrollRepo.ListLinesByPeriod(ctx, period.ID)
		if err != nil {
			return batch, err
		}
		for _, l := range lines {
			batch.requested = append(batch.requested, l.ID)
		}
		candidates = lines
	} else {
		batch.requested = lineIDs

		seen := make(map[string]bool)
		var lookup []string
		for _, id := range lineIDs {
			key, ok := validator.NormalizeUUID(id)
			if !ok {
				key = id
			}
			batch.canonical[id] = key
			if seen[key] {
				continue
			}
			seen[key] = true
			if !ok {
				batch.failures[key] = payroll.ReasonNotInPayroll
				continue
			}
			lookup = append(lookup, key)
		}

		var found map[string]payroll.PayrollEmployeeLine
		if len(lookup) > 0 {
			lines, err := s.payrollRepo.GetLinesByIDs(ctx, lookup)
			if err != nil {
				return batch, err
			}
			found = make(map[string]payroll.PayrollEmployeeLine, len(lines))
			for _, l := range lines {
				found[l.ID] = l
			}
		}

		for _, id := range lookup {
			l, ok := found[id]
			if !ok || l.PayrollID != period.ID {
				batch.failures[id] = payroll.ReasonNotInPayroll
				continue
			}
			candidates = append(candidates, l)
		}
	}

	if len(candidates) == 0 {
		return batch, nil
	}

	employeeIDs := make([]string, 0, len(candidates))
	for _, l := range candidates {
		employeeIDs = append(employeeIDs, l.EmployeeID)
	}
	employees, err := s.employeeRepo.GetCompensationByIDs(ctx, period.CompanyID, employeeIDs)
	if err != nil {
		return batch, err
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	lineIDsToSum := make([]string, 0, len(candidates))
	validEmployees := make([]string, 0, len(candidates))
	for _, l := range candidates {
		emp, ok := byID[l.EmployeeID]
		if !ok {
			batch.failures[l.ID] = payroll.ReasonEmployeeNotFound
			continue
		}
		batch.targets = append(batch.targets, batchTarget{line: l, employee: emp})
		lineIDsToSum = append(lineIDsToSum, l.ID)
		validEmployees = append(validEmployees, emp.ID)
	}

	if len(batch.targets) == 0 {
		return batch, nil
	}

	batch.events, err = s.timeEntryRepo.ListEvents(ctx, period.CompanyID, period.Competence.FirstDay(), period.Competence.LastDay(), validEmployees)
	if err != nil {
		return batch, err
	}

	batch.items, err = s.payrollRepo.ListLineItems(ctx, lineIDsToSum)
	if err != nil {
		return batch, err
	}

	return batch, nil
}

// computeBatch runs pairing and classification once for the whole batch and
// then prices each target.
func computeBatch(batch recalculationBatch) []computedLine {
	if len(batch.targets) == 0 {
		return nil
	}

	minutes := ClassifyOvertime(AggregateDaily(PairEvents(batch.events)))
	itemTotals := SumLineItems(batch.items)

	computed := make([]computedLine, 0, len(batch.targets))
	for _, t := range batch.targets {
		wage := CalculateWage(t.employee, minutes[t.employee.ID])
		items := itemTotals[t.line.ID]

		gross := wage.NormalPay.Add(wage.Premium50Pay).Add(wage.Premium100Pay).Add(items.Earnings)
		net := gross.Sub(items.Deductions)

		line := t.line
		line.NormalHours = wage.NormalHours
		line.Premium50Hours = wage.Premium50Hours
		line.Premium100Hours = wage.Premium100Hours
		line.NormalPay = wage.NormalPay
		line.Premium50Pay = wage.Premium50Pay
		line.Premium100Pay = wage.Premium100Pay
		line.EarningsTotal = items.Earnings
		line.DeductionsTotal = items.Deductions
		line.NetTotal = net
		line.InconsistencyCount = 0

		computed = append(computed, computedLine{
			line: line,
			figures: payroll.LineFigures{
				EmployeeID:      t.employee.ID,
				Regime:          string(t.employee.Regime),
				HourlyRate:      wage.HourlyRate,
				NormalHours:     wage.NormalHours,
				Premium50Hours:  wage.Premium50Hours,
				Premium100Hours: wage.Premium100Hours,
				NormalPay:       wage.NormalPay,
				Premium50Pay:    wage.Premium50Pay,
				Premium100Pay:   wage.Premium100Pay,
				EarningsTotal:   items.Earnings,
				DeductionsTotal: items.Deductions,
				NetTotal:        net,
			},
		})
	}

	return computed
}

// buildResults reports one entry per requested id, in request order.
func buildResults(batch recalculationBatch, computed []computedLine) []payroll.LineResult {
	byID := make(map[string]payroll.LineFigures, len(computed))
	for _, c := range computed {
		byID[c.line.ID] = c.figures
	}

	results := make([]payroll.LineResult, 0, len(batch.requested))
	for _, id := range batch.requested {
		key, ok := batch.canonical[id]
		if !ok {
			key = id
		}
		if reason, failed := batch.failures[key]; failed {
			results = append(results, payroll.LineResult{ID: id, OK: false, Error: reason})
			continue
		}
		figures := byID[key]
		results = append(results, payroll.LineResult{ID: id, OK: true, Figures: &figures})
	}
	return results
}

func periodRange(period payroll.PayrollPeriod) payroll.PeriodRange {
	return payroll.PeriodRange{
		From: validator.FormatDate(period.Competence.FirstDay()),
		To:   validator.FormatDate(period.Competence.LastDay()),
	}
}
