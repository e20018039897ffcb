package payroll

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/timeentry"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// Timesheet breaks one employee line down per worked day using the same
// pairing and classification as recalculation.
func (s *PayrollServiceImpl) Timesheet(ctx context.Context, principal user.Principal, payrollID string, lineID string) (payroll.TimesheetResponse, error) {
	period, err := s.authorizePeriod(ctx, principal, payrollID, user.PermissionPayrollView)
	if err != nil {
		return payroll.TimesheetResponse{}, err
	}
	if !validator.IsValidUUID(lineID) {
		return payroll.TimesheetResponse{}, payroll.ErrPayrollLineNotFound
	}

	var (
		line   payroll.PayrollEmployeeLine
		events []timeentry.Event
	)
	err = s.tx.WithinReadSnapshot(ctx, func(ctx context.Context) error {
		lines, err := s.payrollRepo.GetLinesByIDs(ctx, []string{lineID})
		if err != nil {
			return fmt.Errorf("failed to get payroll line: %w", err)
		}
		if len(lines) == 0 || lines[0].PayrollID != period.ID {
			return payroll.ErrPayrollLineNotFound
		}
		line = lines[0]

		events, err = s.timeEntryRepo.ListEvents(ctx, period.CompanyID, period.Competence.FirstDay(), period.Competence.LastDay(), []string{line.EmployeeID})
		if err != nil {
			return fmt.Errorf("failed to list time entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.TimesheetResponse{}, err
	}

	resp := payroll.TimesheetResponse{
		LineID:     line.ID,
		EmployeeID: line.EmployeeID,
		Period:     periodRange(period),
		Days:       []payroll.TimesheetDay{},
	}

	var total MinuteBuckets
	for _, day := range AggregateDaily(PairEvents(events)) {
		buckets := ClassifyDay(day.Minutes, day.Weekday)
		total = total.Add(buckets)

		resp.Days = append(resp.Days, payroll.TimesheetDay{
			Date:              validator.FormatDate(day.Date),
			Weekday:           day.Weekday.String(),
			WorkedMinutes:     day.Minutes,
			NormalMinutes:     buckets.Normal,
			Premium50Minutes:  buckets.Premium50,
			Premium100Minutes: buckets.Premium100,
		})
	}

	resp.NormalMinutes = total.Normal
	resp.Premium50Minutes = total.Premium50
	resp.Premium100Minutes = total.Premium100

	return resp, nil
}
