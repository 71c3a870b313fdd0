package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Storage failures are returned as *database.StorageError.
type AttendanceRepository interface {
	// Create inserts a new record. A second record for the same employee and
	// date fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves a record joined with the employee profile
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil, nil when the employee has no record for date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update writes the mutable columns of an existing record
	Update(ctx context.Context, attendance Attendance) error

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByRange returns every record between start and end inclusive.
	// A nil employeeID means all employees.
	ListByRange(ctx context.Context, employeeID *string, start, end time.Time) ([]Attendance, error)

	// ListEmployeesWithoutRecord returns active employees that have no record for date
	ListEmployeesWithoutRecord(ctx context.Context, date time.Time) ([]string, error)
}
