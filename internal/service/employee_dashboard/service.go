package employee_dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	empDashboard "github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee_dashboard"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

type EmployeeDashboardServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	settingsRepo   policy.SettingsRepository
	clock          func() time.Time
}

func NewEmployeeDashboardService(
	attendanceRepo attendance.AttendanceRepository,
	settingsRepo policy.SettingsRepository,
	clock func() time.Time,
) empDashboard.EmployeeDashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &EmployeeDashboardServiceImpl{
		attendanceRepo: attendanceRepo,
		settingsRepo:   settingsRepo,
		clock:          clock,
	}
}

// GetMonthlySummary implements empDashboard.EmployeeDashboardService.
func (s *EmployeeDashboardServiceImpl) GetMonthlySummary(ctx context.Context, req empDashboard.MonthlySummaryRequest) (*empDashboard.MonthlySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	p, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	var month time.Time
	if req.Month == "" {
		today := attendance.DateOf(s.clock().In(p.Location()))
		month = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		month, _ = validator.IsValidMonth(req.Month)
	}
	monthEnd := month.AddDate(0, 1, -1)

	records, err := s.attendanceRepo.ListByRange(ctx, &claims.EmployeeID, month, monthEnd)
	if err != nil {
		return nil, err
	}

	summary, err := attendance.Summarize(records)
	if err != nil {
		return nil, err
	}

	resp := &empDashboard.MonthlySummaryResponse{
		Month:              month.Format("2006-01"),
		PresentCount:       summary.PresentCount,
		LateCount:          summary.LateCount,
		TotalWorkedMinutes: summary.TotalWorkedMinutes,
		TotalWorkedTime:    timeofday.FormatDuration(summary.TotalWorkedMinutes),
		TotalHours:         timeofday.Hours(summary.TotalWorkedMinutes),
		AverageWorkHours:   timeofday.Hours(summary.AverageWorkedMinutes()),
		Policy: empDashboard.PolicyInfo{
			WorkStartTime: p.WorkStartTime,
			WorkEndTime:   p.WorkEndTime,
			BreakStart:    p.BreakStartTime,
			BreakEnd:      p.BreakEndTime,
			LateThreshold: p.LateThresholdMinutes,
		},
	}
	if summary.AverageCheckInMinutesOfDay != nil {
		avg := timeofday.FormatDuration(*summary.AverageCheckInMinutesOfDay)
		resp.AverageCheckIn = &avg
	}

	return resp, nil
}
