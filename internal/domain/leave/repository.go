package leave

import (
	"context"
	"errors"
)

type LeaveQuotaRepository interface {
	// Create stores a quota. A quota that already exists for the employee
	// and year is left untouched and returned as is.
	Create(ctx context.Context, quota LeaveQuota) (LeaveQuota, error)

	// GetByEmployeeAndYear returns ErrQuotaNotFound when no quota was seeded.
	GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) (LeaveQuota, error)

	// DecrementQuota moves days from remaining to used. It returns
	// ErrQuotaExhausted instead of overdrawing.
	DecrementQuota(ctx context.Context, employeeID string, year int, days int) error

	// RestoreQuota gives back days previously taken, never below zero used.
	// A missing quota is not an error.
	RestoreQuota(ctx context.Context, employeeID string, year int, days int) error
}

// Ensure returns the employee's quota for year, seeding it with totalDays
// when none exists yet.
func Ensure(ctx context.Context, repo LeaveQuotaRepository, employeeID string, year, totalDays int) (LeaveQuota, error) {
	quota, err := repo.GetByEmployeeAndYear(ctx, employeeID, year)
	if err == nil {
		return quota, nil
	}
	if !errors.Is(err, ErrQuotaNotFound) {
		return LeaveQuota{}, err
	}
	return repo.Create(ctx, LeaveQuota{
		EmployeeID: employeeID,
		Year:       year,
		TotalDays:  totalDays,
	})
}
