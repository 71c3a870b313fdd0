package employee

import (
	"context"
)

type EmployeeService interface {
	// GetProfile returns the authenticated employee
	GetProfile(ctx context.Context) (EmployeeResponse, error)

	// ListActive returns active employees, used by report filters (admin)
	ListActive(ctx context.Context) ([]EmployeeResponse, error)

	// CreateEmployee registers an employee and seeds this year's leave quota (admin)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee changes profile fields (admin)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeactivateEmployee sets is_active=false; attendance history is kept (admin)
	DeactivateEmployee(ctx context.Context, req DeactivateEmployeeRequest) (EmployeeResponse, error)
}
