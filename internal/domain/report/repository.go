package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
)

// ReportQuery is a validated filter with resolved dates.
type ReportQuery struct {
	StartDate  time.Time
	EndDate    time.Time
	EmployeeID *string
	Status     *string
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// ListAttendance returns records joined with employee profiles, newest first
	ListAttendance(ctx context.Context, query ReportQuery) ([]attendance.Attendance, error)
}
