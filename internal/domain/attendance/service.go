package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the authenticated employee
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record for the authenticated employee
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetToday returns today's record and which actions are currently allowed
	GetToday(ctx context.Context) (TodayResponse, error)

	// GetMyAttendance retrieves attendance records for authenticated employee
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID (admin)
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// OverrideStatus assigns a status to an employee's day (admin)
	OverrideStatus(ctx context.Context, req OverrideStatusRequest) (AttendanceResponse, error)

	// ReconcileAbsences marks active employees without a record on date as absent.
	// It returns how many records were created.
	ReconcileAbsences(ctx context.Context, date string) (int, error)
}
