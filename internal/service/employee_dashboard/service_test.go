package employee_dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	empDashboard "github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee_dashboard"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/absensi-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func ctxFor(id string) context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{EmployeeID: id, Role: employee.RoleEmployee})
}

func newService(records ...attendance.Attendance) empDashboard.EmployeeDashboardService {
	p := policy.Default()
	p.Timezone = "UTC"
	return NewEmployeeDashboardService(
		servicetest.NewAttendances(nil, records...),
		servicetest.NewSettings(p),
		servicetest.Clock(time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)),
	)
}

func TestGetMonthlySummary(t *testing.T) {
	svc := newService(
		attendance.Attendance{EmployeeID: "emp-1", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), CheckInTime: strPtr("08:00:00"), CheckOutTime: strPtr("17:00:00"), WorkedMinutes: intPtr(540), Status: attendance.StatusPresent},
		attendance.Attendance{EmployeeID: "emp-1", Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), CheckInTime: strPtr("08:31:00"), Status: attendance.StatusLate},
		attendance.Attendance{EmployeeID: "emp-1", Date: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), Status: attendance.StatusSickLeave},
		attendance.Attendance{EmployeeID: "emp-1", Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), CheckInTime: strPtr("07:00:00"), Status: attendance.StatusPresent},
		attendance.Attendance{EmployeeID: "emp-2", Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), CheckInTime: strPtr("10:00:00"), Status: attendance.StatusLate},
	)

	resp, err := svc.GetMonthlySummary(ctxFor("emp-1"), empDashboard.MonthlySummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2026-03", resp.Month)
	assert.Equal(t, 2, resp.PresentCount)
	assert.Equal(t, 1, resp.LateCount)
	assert.Equal(t, 540, resp.TotalWorkedMinutes)
	assert.Equal(t, "09:00", resp.TotalWorkedTime)
	assert.Equal(t, 9.0, resp.TotalHours)
	require.NotNil(t, resp.AverageCheckIn)
	// (480 + 511) / 2 = 495.5, rounded to 496
	assert.Equal(t, "08:16", *resp.AverageCheckIn)
	assert.Equal(t, "08:00", resp.Policy.WorkStartTime)
}

func TestGetMonthlySummary_EmptyMonth(t *testing.T) {
	svc := newService()

	resp, err := svc.GetMonthlySummary(ctxFor("emp-1"), empDashboard.MonthlySummaryRequest{Month: "2025-12"})
	require.NoError(t, err)
	assert.Equal(t, "2025-12", resp.Month)
	assert.Zero(t, resp.PresentCount)
	assert.Nil(t, resp.AverageCheckIn)
	assert.Equal(t, "00:00", resp.TotalWorkedTime)
}

func TestGetMonthlySummary_InvalidMonth(t *testing.T) {
	svc := newService()

	_, err := svc.GetMonthlySummary(ctxFor("emp-1"), empDashboard.MonthlySummaryRequest{Month: "03-2026"})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}
