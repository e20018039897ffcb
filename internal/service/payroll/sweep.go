package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
)

// sweepBatchSize bounds the lines picked up by one sweep run.
const sweepBatchSize = 5000

var systemPrincipal = user.Principal{
	UserID:       "system:inconsistency-sweep",
	Role:         user.RoleOwner,
	CrossCompany: true,
}

// RecalculateInconsistent runs the regular recalculation over every flagged
// line of open periods, one period at a time. A failing period does not stop
// the others; all failures are returned together.
func (s *PayrollServiceImpl) RecalculateInconsistent(ctx context.Context) (int, error) {
	lines, err := s.payrollRepo.ListInconsistentLines(ctx, sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list inconsistent lines: %w", err)
	}

	var (
		order    []string
		byPeriod = make(map[string][]string)
	)
	for _, l := range lines {
		if _, seen := byPeriod[l.PayrollID]; !seen {
			order = append(order, l.PayrollID)
		}
		byPeriod[l.PayrollID] = append(byPeriod[l.PayrollID], l.ID)
	}

	var (
		written int
		errs    []error
	)
	for _, payrollID := range order {
		ids := byPeriod[payrollID]
		for start := 0; start < len(ids); start += payroll.MaxRecalculationTargets {
			end := min(start+payroll.MaxRecalculationTargets, len(ids))
			resp, err := s.Recalculate(ctx, systemPrincipal, payrollID, payroll.RecalculateRequest{LineIDs: ids[start:end]})
			if err != nil {
				errs = append(errs, fmt.Errorf("payroll %s: %w", payrollID, err))
				break
			}
			written += resp.Count
		}
	}

	if len(lines) > 0 {
		slog.Info("Inconsistency sweep finished", "flagged", len(lines), "periods", len(order), "updated", written, "failed_periods", len(errs))
	}
	return written, errors.Join(errs...)
}
