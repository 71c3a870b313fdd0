package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	CountActive(ctx context.Context) (int64, error)
	ListActive(ctx context.Context) ([]Employee, error)

	// Create assigns the ID and timestamps. A duplicate employee number or
	// email returns ErrEmployeeExists.
	Create(ctx context.Context, emp Employee) (Employee, error)

	// Update writes the profile columns of emp.ID.
	Update(ctx context.Context, emp Employee) error

	// SetActive flips is_active; records are never deleted.
	SetActive(ctx context.Context, id string, active bool) error
}
