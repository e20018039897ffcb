package employee

import "context"

type EmployeeRepository interface {
	// GetCompensationByIDs returns the employees of companyID among ids.
	// Unknown or foreign ids are omitted, not reported as errors.
	GetCompensationByIDs(ctx context.Context, companyID string, ids []string) ([]Employee, error)
}
