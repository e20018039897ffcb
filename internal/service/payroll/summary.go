package payroll

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

// Summary totals the stored figures of every line of a period.
func (s *PayrollServiceImpl) Summary(ctx context.Context, principal user.Principal, payrollID string) (payroll.PeriodSummaryResponse, error) {
	var (
		period payroll.PayrollPeriod
		lines  []payroll.PayrollEmployeeLine
	)

	// The lines query waits for the header to pass the scope check.
	authorized := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		period, err = s.authorizePeriod(gctx, principal, payrollID, user.PermissionPayrollView)
		if err != nil {
			return err
		}
		close(authorized)
		return nil
	})
	g.Go(func() error {
		select {
		case <-authorized:
		case <-gctx.Done():
			return nil
		}
		var err error
		lines, err = s.payrollRepo.ListLinesByPeriod(gctx, period.ID)
		if err != nil {
			return fmt.Errorf("failed to list payroll lines: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return payroll.PeriodSummaryResponse{}, err
	}

	resp := payroll.PeriodSummaryResponse{
		PayrollID:  period.ID,
		CompanyID:  period.CompanyID,
		Competence: period.Competence.String(),
		Status:     string(period.Status),
		Period:     periodRange(period),
		LineCount:  len(lines),
	}
	for _, l := range lines {
		if l.InconsistencyCount > 0 {
			resp.InconsistentLines++
		}
		resp.NormalHours = resp.NormalHours.Add(l.NormalHours)
		resp.Premium50Hours = resp.Premium50Hours.Add(l.Premium50Hours)
		resp.Premium100Hours = resp.Premium100Hours.Add(l.Premium100Hours)
		resp.NormalPay = resp.NormalPay.Add(l.NormalPay)
		resp.Premium50Pay = resp.Premium50Pay.Add(l.Premium50Pay)
		resp.Premium100Pay = resp.Premium100Pay.Add(l.Premium100Pay)
		resp.EarningsTotal = resp.EarningsTotal.Add(l.EarningsTotal)
		resp.DeductionsTotal = resp.DeductionsTotal.Add(l.DeductionsTotal)
		resp.NetTotal = resp.NetTotal.Add(l.NetTotal)
	}

	return resp, nil
}
