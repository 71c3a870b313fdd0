package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 10

type DashboardServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	settingsRepo   policy.SettingsRepository
	clock          func() time.Time
}

func NewDashboardService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo policy.SettingsRepository,
	clock func() time.Time,
) dashboard.DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		settingsRepo:   settingsRepo,
		clock:          clock,
	}
}

// GetDashboard returns combined dashboard data. The three reads are
// independent and run in parallel.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	p, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	now := s.clock().In(p.Location())
	today := attendance.DateOf(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		totalEmployees int64
		todayRecords   []attendance.Attendance
		monthRecords   []attendance.Attendance
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Active employees
	g.Go(func() error {
		count, err := s.employeeRepo.CountActive(gCtx)
		if err != nil {
			return err
		}
		totalEmployees = count
		return nil
	})

	// 2. Today's records
	g.Go(func() error {
		records, err := s.attendanceRepo.ListByRange(gCtx, nil, today, today)
		if err != nil {
			return err
		}
		todayRecords = records
		return nil
	})

	// 3. Month to date
	g.Go(func() error {
		records, err := s.attendanceRepo.ListByRange(gCtx, nil, monthStart, today)
		if err != nil {
			return err
		}
		monthRecords = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	todaySummary, err := attendance.Summarize(todayRecords)
	if err != nil {
		return nil, err
	}
	monthSummary, err := attendance.Summarize(monthRecords)
	if err != nil {
		return nil, err
	}

	present := int64(todaySummary.PresentCount)
	return &dashboard.DashboardResponse{
		TotalEmployees:   totalEmployees,
		PresentToday:     present,
		LateToday:        int64(todaySummary.LateCount),
		NotCheckedIn:     max(totalEmployees-present, 0),
		AverageWorkHours: timeofday.Hours(monthSummary.AverageWorkedMinutes()),
		Date:             today.Format("2006-01-02"),
		Month:            today.Format("2006-01"),
		Recent:           recentCheckIns(todayRecords),
	}, nil
}

// recentCheckIns lists the latest check-ins, records arrive newest first.
func recentCheckIns(records []attendance.Attendance) []dashboard.AttendanceRecordItem {
	items := make([]dashboard.AttendanceRecordItem, 0, recentLimit)
	for _, r := range records {
		if !r.HasCheckedIn() {
			continue
		}
		name := ""
		if r.EmployeeName != nil {
			name = *r.EmployeeName
		}
		items = append(items, dashboard.AttendanceRecordItem{
			No:           len(items) + 1,
			EmployeeName: name,
			Status:       string(r.Status),
			CheckIn:      r.CheckInTime,
		})
		if len(items) == recentLimit {
			break
		}
	}
	return items
}
