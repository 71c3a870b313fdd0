package employee_dashboard

import "context"

// EmployeeDashboardService defines the interface for employee dashboard operations
type EmployeeDashboardService interface {
	// GetMonthlySummary folds the authenticated employee's records for a month
	GetMonthlySummary(ctx context.Context, req MonthlySummaryRequest) (*MonthlySummaryResponse, error)
}
