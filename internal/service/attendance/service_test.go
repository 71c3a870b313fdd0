package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/absensi-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	empID   = "0193a1b2-0000-7000-8000-000000000001"
	otherID = "0193a1b2-0000-7000-8000-000000000002"
	adminID = "0193a1b2-0000-7000-8000-0000000000ad"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

type fixture struct {
	svc         attendance.AttendanceService
	attendances *servicetest.Attendances
	employees   *servicetest.Employees
	settings    *servicetest.Settings
	audit       *servicetest.Audit
	quotas      *servicetest.LeaveQuotas
	now         time.Time
}

// newFixture starts the clock on Monday 2026-03-09 at 08:05 Jakarta time.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	title := "Engineer"
	f := &fixture{
		employees: servicetest.NewEmployees(
			employee.Employee{ID: empID, Name: "Budi Santoso", EmployeeNumber: "EMP-001", Title: &title, Role: employee.RoleEmployee, IsActive: true},
			employee.Employee{ID: otherID, Name: "Siti Aminah", EmployeeNumber: "EMP-002", Role: employee.RoleEmployee, IsActive: true},
			employee.Employee{ID: adminID, Name: "Admin", EmployeeNumber: "ADM-001", Role: employee.RoleAdmin, IsActive: true},
		),
		settings: servicetest.NewSettings(policy.Default()),
		audit:    &servicetest.Audit{},
		quotas:   servicetest.NewLeaveQuotas(),
		now:      time.Date(2026, 3, 9, 8, 5, 0, 0, jakarta),
	}
	f.attendances = servicetest.NewAttendances(f.employees)
	f.svc = NewAttendanceService(&servicetest.Transactor{}, f.attendances, f.employees, f.settings, f.audit, f.quotas, func() time.Time { return f.now })
	return f
}

func (f *fixture) at(h, m int) {
	f.now = time.Date(2026, 3, 9, h, m, 0, 0, jakarta)
}

func employeeContext(id string) context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{EmployeeID: id, Role: employee.RoleEmployee})
}

func adminContext() context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{EmployeeID: adminID, Role: employee.RoleAdmin})
}

func office() attendance.LocationPayload {
	lat, lng := -6.2088, 106.8456
	return attendance.LocationPayload{Latitude: &lat, Longitude: &lng}
}

func TestAttendanceService_CheckIn(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{LocationPayload: office(), IPAddress: "10.0.0.7"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "2026-03-09", resp.Date)
	assert.Equal(t, "Monday", resp.DayOfWeek)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "08:05:00", *resp.CheckInTime)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Nil(t, resp.LateMinutes)
	require.NotNil(t, resp.CheckInLocation)
	assert.Equal(t, "-6.2088,106.8456", *resp.CheckInLocation)
	require.NotNil(t, resp.EmployeeName)
	assert.Equal(t, "Budi Santoso", *resp.EmployeeName)

	events := f.audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionCheckIn, events[0].Action)
	assert.Equal(t, empID, events[0].ActorID)
	assert.Equal(t, "Check-in at 08:05:00", events[0].Detail)
	require.NotNil(t, events[0].IPAddress)
	assert.Equal(t, "10.0.0.7", *events[0].IPAddress)
}

func TestAttendanceService_CheckIn_UsesPolicyTimezone(t *testing.T) {
	f := newFixture(t)
	// 01:20 UTC is 08:20 in Jakarta, past the 15 minute threshold
	f.now = time.Date(2026, 3, 9, 1, 20, 0, 0, time.UTC)

	resp, err := f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{LocationPayload: office()})
	require.NoError(t, err)
	assert.Equal(t, "08:20:00", *resp.CheckInTime)
	assert.Equal(t, attendance.StatusLate, resp.Status)
	require.NotNil(t, resp.LateMinutes)
	assert.Equal(t, 20, *resp.LateMinutes)

	today, err := f.svc.GetToday(employeeContext(empID))
	require.NoError(t, err)
	require.NotNil(t, today.Attendance)
	require.NotNil(t, today.Attendance.LateMinutes)
	assert.Equal(t, 20, *today.Attendance.LateMinutes)
}

func TestAttendanceService_CheckIn_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := employeeContext(empID)

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationPayload: office()})
	require.NoError(t, err)

	f.at(9, 0)
	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationPayload: office()})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, err, attendance.ErrInvalidState)
	assert.Len(t, f.attendances.All(), 1)
	assert.Len(t, f.audit.Events(), 1)
}

func TestAttendanceService_CheckIn_LocationRequired(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrLocationRequired)
	assert.Empty(t, f.attendances.All())
	assert.Empty(t, f.audit.Events())
}

func TestAttendanceService_CheckIn_LocationOptional(t *testing.T) {
	f := newFixture(t)
	p := policy.Default()
	p.GPSRequired = false
	require.NoError(t, f.settings.Upsert(context.Background(), policy.ToSettings(p)))

	resp, err := f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.CheckInLocation)
	assert.Equal(t, attendance.LocationUnavailable, *resp.CheckInLocation)
}

func TestAttendanceService_CheckIn_InvalidPayload(t *testing.T) {
	f := newFixture(t)
	lat := 123.0

	_, err := f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{
		LocationPayload: attendance.LocationPayload{Latitude: &lat},
	})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

func TestAttendanceService_CheckIn_InactiveEmployee(t *testing.T) {
	f := newFixture(t)
	f.employees = servicetest.NewEmployees(employee.Employee{ID: empID, Name: "Budi", IsActive: false})
	f.svc = NewAttendanceService(&servicetest.Transactor{}, f.attendances, f.employees, f.settings, f.audit, f.quotas, func() time.Time { return f.now })

	_, err := f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{LocationPayload: office()})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestAttendanceService_CheckIn_StorageError(t *testing.T) {
	f := newFixture(t)
	f.attendances.Err = &database.StorageError{Op: "get attendance", Err: errors.New("connection reset")}

	_, err := f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{LocationPayload: office()})
	var storageErr *database.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Empty(t, f.audit.Events())
}

func TestAttendanceService_CheckOut_FullDay(t *testing.T) {
	f := newFixture(t)
	ctx := employeeContext(empID)

	_, err := f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationPayload: office()})
	require.NoError(t, err)

	f.at(17, 0)
	resp, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{LocationPayload: office(), IPAddress: "10.0.0.7"})
	require.NoError(t, err)

	assert.Equal(t, "08:05:00", *resp.CheckInTime)
	assert.Equal(t, "17:00:00", *resp.CheckOutTime)
	require.NotNil(t, resp.WorkedMinutes)
	assert.Equal(t, 535, *resp.WorkedMinutes)
	assert.Equal(t, "08:55", *resp.TotalTime)
	assert.Equal(t, attendance.StatusPresent, resp.Status)

	stored := f.attendances.All()
	require.Len(t, stored, 1)
	assert.Equal(t, 535, *stored[0].WorkedMinutes)

	events := f.audit.Events()
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionCheckOut, events[1].Action)
	assert.Equal(t, "Check-out at 17:00:00", events[1].Detail)
}

func TestAttendanceService_CheckOut_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := employeeContext(empID)

	_, err := f.svc.CheckOut(ctx, attendance.CheckOutRequest{LocationPayload: office()})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationPayload: office()})
	require.NoError(t, err)

	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrLocationRequired)

	f.at(17, 0)
	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{LocationPayload: office()})
	require.NoError(t, err)

	f.at(18, 0)
	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{LocationPayload: office()})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	assert.ErrorIs(t, err, attendance.ErrInvalidState)
}

func TestAttendanceService_GetToday(t *testing.T) {
	f := newFixture(t)
	ctx := employeeContext(empID)

	today, err := f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.True(t, today.CanCheckIn)
	assert.False(t, today.CanCheckOut)
	assert.Nil(t, today.Attendance)
	assert.True(t, today.GPSRequired)
	assert.Equal(t, "2026-03-09", today.Date)

	_, err = f.svc.CheckIn(ctx, attendance.CheckInRequest{LocationPayload: office()})
	require.NoError(t, err)

	today, err = f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.False(t, today.CanCheckIn)
	assert.True(t, today.CanCheckOut)
	require.NotNil(t, today.Attendance)

	f.at(17, 0)
	_, err = f.svc.CheckOut(ctx, attendance.CheckOutRequest{LocationPayload: office()})
	require.NoError(t, err)

	today, err = f.svc.GetToday(ctx)
	require.NoError(t, err)
	assert.False(t, today.CanCheckIn)
	assert.False(t, today.CanCheckOut)
	assert.Equal(t, "Attendance for today is complete", today.Message)
}

func TestAttendanceService_GetMyAttendance_Pagination(t *testing.T) {
	f := newFixture(t)
	for i := range 25 {
		_, err := f.attendances.Create(context.Background(), attendance.Attendance{
			EmployeeID: empID,
			Date:       time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Status:     attendance.StatusPresent,
		})
		require.NoError(t, err)
	}
	_, err := f.attendances.Create(context.Background(), attendance.Attendance{
		EmployeeID: otherID,
		Date:       time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusLate,
	})
	require.NoError(t, err)

	resp, err := f.svc.GetMyAttendance(employeeContext(empID), attendance.MyAttendanceFilter{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(25), resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, "11-20 of 25", resp.Showing)
	require.Len(t, resp.Attendances, 10)
	for _, a := range resp.Attendances {
		assert.Equal(t, empID, a.EmployeeID)
	}
	// newest first by default
	assert.Equal(t, "2026-02-15", resp.Attendances[0].Date)
}

func TestAttendanceService_ListAttendance(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{LocationPayload: office()})
	require.NoError(t, err)
	f.at(8, 30)
	_, err = f.svc.CheckIn(employeeContext(otherID), attendance.CheckInRequest{LocationPayload: office()})
	require.NoError(t, err)

	late := string(attendance.StatusLate)
	resp, err := f.svc.ListAttendance(adminContext(), attendance.AttendanceFilter{Status: &late})
	require.NoError(t, err)
	require.Len(t, resp.Attendances, 1)
	assert.Equal(t, otherID, resp.Attendances[0].EmployeeID)
	assert.Equal(t, "1-1 of 1", resp.Showing)

	_, err = f.svc.ListAttendance(adminContext(), attendance.AttendanceFilter{Limit: 500})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

func TestAttendanceService_GetAttendance(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetAttendance(adminContext(), "not-a-uuid")
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)

	_, err = f.svc.GetAttendance(adminContext(), "0193a1b2-0000-7000-8000-00000000ffff")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceService_OverrideStatus(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.OverrideStatus(adminContext(), attendance.OverrideStatusRequest{
		EmployeeID: empID,
		Date:       "2026-03-10",
		Status:     string(attendance.StatusSickLeave),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusSickLeave, resp.Status)
	assert.Equal(t, "Tuesday", resp.DayOfWeek)
	assert.Nil(t, resp.CheckInTime)
	assert.Nil(t, resp.WorkedMinutes)

	resp, err = f.svc.OverrideStatus(adminContext(), attendance.OverrideStatusRequest{
		EmployeeID: empID,
		Date:       "2026-03-10",
		Status:     string(attendance.StatusExcusedLeave),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusExcusedLeave, resp.Status)
	assert.Len(t, f.attendances.All(), 1)

	events := f.audit.Events()
	require.Len(t, events, 2)
	assert.Equal(t, adminID, events[1].ActorID)
	assert.Equal(t, audit.ActionOverrideStatus, events[1].Action)
	assert.Contains(t, events[1].Detail, "(was sick_leave)")

	// the employee cannot check in on a day already recorded
	f.now = time.Date(2026, 3, 10, 8, 0, 0, 0, jakarta)
	_, err = f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{LocationPayload: office()})
	assert.ErrorIs(t, err, attendance.ErrDayAlreadyRecorded)
}

func TestAttendanceService_OverrideStatus_ChargesLeaveQuota(t *testing.T) {
	f := newFixture(t)
	override := func(date string, status attendance.Status) error {
		_, err := f.svc.OverrideStatus(adminContext(), attendance.OverrideStatusRequest{
			EmployeeID: empID,
			Date:       date,
			Status:     string(status),
		})
		return err
	}

	require.NoError(t, override("2026-03-10", attendance.StatusExcusedLeave))
	quota, err := f.quotas.GetByEmployeeAndYear(context.Background(), empID, 2026)
	require.NoError(t, err)
	assert.Equal(t, policy.Default().DefaultAnnualLeaveDays, quota.TotalDays)
	assert.Equal(t, 1, quota.UsedDays)

	// same status again does not charge twice
	require.NoError(t, override("2026-03-10", attendance.StatusExcusedLeave))
	quota, _ = f.quotas.GetByEmployeeAndYear(context.Background(), empID, 2026)
	assert.Equal(t, 1, quota.UsedDays)

	require.NoError(t, override("2026-03-10", attendance.StatusSickLeave))
	quota, _ = f.quotas.GetByEmployeeAndYear(context.Background(), empID, 2026)
	assert.Equal(t, 0, quota.UsedDays)
}

func TestAttendanceService_OverrideStatus_LeaveQuotaExhausted(t *testing.T) {
	f := newFixture(t)
	f.quotas = servicetest.NewLeaveQuotas(leave.LeaveQuota{EmployeeID: empID, Year: 2026, TotalDays: 2, UsedDays: 2})
	f.svc = NewAttendanceService(&servicetest.Transactor{}, f.attendances, f.employees, f.settings, f.audit, f.quotas, func() time.Time { return f.now })

	_, err := f.svc.OverrideStatus(adminContext(), attendance.OverrideStatusRequest{
		EmployeeID: empID,
		Date:       "2026-03-10",
		Status:     string(attendance.StatusExcusedLeave),
	})
	assert.ErrorIs(t, err, leave.ErrQuotaExhausted)
}

func TestAttendanceService_OverrideStatus_KeepsTimes(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CheckIn(employeeContext(empID), attendance.CheckInRequest{LocationPayload: office()})
	require.NoError(t, err)

	resp, err := f.svc.OverrideStatus(adminContext(), attendance.OverrideStatusRequest{
		EmployeeID: empID,
		Date:       "2026-03-09",
		Status:     string(attendance.StatusLate),
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "08:05:00", *resp.CheckInTime)
}

func TestAttendanceService_OverrideStatus_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.OverrideStatus(adminContext(), attendance.OverrideStatusRequest{
		EmployeeID: "0193a1b2-0000-7000-8000-00000000ffff",
		Date:       "2026-03-10",
		Status:     string(attendance.StatusAbsent),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_ReconcileAbsences(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2026, 3, 10, 1, 0, 0, 0, jakarta)

	_, err := f.attendances.Create(context.Background(), attendance.Attendance{
		EmployeeID: empID,
		Date:       time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	created, err := f.svc.ReconcileAbsences(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	var absent []string
	for _, r := range f.attendances.All() {
		if r.Status == attendance.StatusAbsent {
			assert.Equal(t, "2026-03-09", r.Date.Format("2006-01-02"))
			absent = append(absent, r.EmployeeID)
		}
	}
	assert.ElementsMatch(t, []string{otherID, adminID}, absent)

	for _, e := range f.audit.Events() {
		assert.Equal(t, audit.ActionMarkAbsent, e.Action)
		assert.Empty(t, e.ActorID)
	}

	// running again is a no-op
	created, err = f.svc.ReconcileAbsences(context.Background(), "2026-03-09")
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestShowing(t *testing.T) {
	tests := []struct {
		page, limit, count int
		total              int64
		want               string
	}{
		{1, 20, 20, 57, "1-20 of 57"},
		{3, 20, 17, 57, "41-57 of 57"},
		{4, 20, 0, 57, "0-0 of 57"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.page), func(t *testing.T) {
			assert.Equal(t, tt.want, showing(tt.page, tt.limit, tt.count, tt.total))
		})
	}
	assert.Equal(t, 3, totalPages(57, 20))
	assert.Equal(t, 0, totalPages(0, 20))
}
