package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	settingsRepo   policy.SettingsRepository
	auditRepo      audit.Repository
	quotaRepo      leave.LeaveQuotaRepository
	clock          func() time.Time
}

// NewAttendanceService wires the attendance use cases. clock defaults to time.Now.
func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo policy.SettingsRepository,
	auditRepo audit.Repository,
	quotaRepo leave.LeaveQuotaRepository,
	clock func() time.Time,
) attendance.AttendanceService {
	if clock == nil {
		clock = time.Now
	}
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		settingsRepo:   settingsRepo,
		auditRepo:      auditRepo,
		quotaRepo:      quotaRepo,
		clock:          clock,
	}
}

// activeEmployee resolves the caller from the token and makes sure they may
// still record attendance.
func (s *AttendanceServiceImpl) activeEmployee(ctx context.Context) (employee.Employee, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

// apply performs the writes of a transition in order. The caller owns the
// transaction.
func (s *AttendanceServiceImpl) apply(ctx context.Context, t attendance.Transition, ipAddress string) (attendance.Attendance, error) {
	record := t.Record
	for _, effect := range t.Effects {
		switch effect.Kind {
		case attendance.EffectInsertRecord:
			created, err := s.attendanceRepo.Create(ctx, effect.Record)
			if err != nil {
				return attendance.Attendance{}, err
			}
			record = created
		case attendance.EffectUpdateRecord:
			if err := s.attendanceRepo.Update(ctx, effect.Record); err != nil {
				return attendance.Attendance{}, err
			}
		case attendance.EffectAppendAudit:
			event := effect.Audit
			if ipAddress != "" {
				event.IPAddress = &ipAddress
			}
			if err := s.auditRepo.Append(ctx, event); err != nil {
				return attendance.Attendance{}, err
			}
		case attendance.EffectConsumeLeave:
			if err := s.consumeLeave(ctx, effect.Record); err != nil {
				return attendance.Attendance{}, err
			}
		case attendance.EffectRestoreLeave:
			if err := s.quotaRepo.RestoreQuota(ctx, effect.Record.EmployeeID, effect.Record.Date.Year(), 1); err != nil {
				return attendance.Attendance{}, err
			}
		default:
			return attendance.Attendance{}, fmt.Errorf("unknown effect kind %q", effect.Kind)
		}
	}
	return record, nil
}

// consumeLeave charges one day of r's year, seeding the quota from policy
// for employees that have none yet.
func (s *AttendanceServiceImpl) consumeLeave(ctx context.Context, r attendance.Attendance) error {
	p, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}
	year := r.Date.Year()
	if _, err := leave.Ensure(ctx, s.quotaRepo, r.EmployeeID, year, p.DefaultAnnualLeaveDays); err != nil {
		return err
	}
	return s.quotaRepo.DecrementQuota(ctx, r.EmployeeID, year, 1)
}

func withEmployee(a attendance.Attendance, emp employee.Employee) attendance.Attendance {
	a.EmployeeName = &emp.Name
	a.EmployeeNumber = &emp.EmployeeNumber
	a.EmployeeTitle = emp.Title
	a.EmployeeDivision = emp.Division
	return a
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.activeEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	p, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load policy: %w", err)
	}
	now := s.clock().In(p.Location())

	var result attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.attendanceRepo.GetByEmployeeAndDate(txCtx, emp.ID, attendance.DateOf(now))
		if err != nil {
			return err
		}

		t, err := attendance.CheckIn(current, emp.ID, now, req.Location(), p)
		if err != nil {
			return err
		}

		result, err = s.apply(txCtx, t, req.IPAddress)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("employee checked in", "employee_id", emp.ID, "status", result.Status, "time", *result.CheckInTime)
	resp := attendance.NewAttendanceResponse(withEmployee(result, emp))
	resp.SetLateMinutes(result, p)
	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.activeEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	p, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load policy: %w", err)
	}
	now := s.clock().In(p.Location())

	var result attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.attendanceRepo.GetByEmployeeAndDate(txCtx, emp.ID, attendance.DateOf(now))
		if err != nil {
			return err
		}

		t, err := attendance.CheckOut(current, now, req.Location(), p)
		if err != nil {
			return err
		}

		result, err = s.apply(txCtx, t, req.IPAddress)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("employee checked out", "employee_id", emp.ID, "worked_minutes", *result.WorkedMinutes)
	resp := attendance.NewAttendanceResponse(withEmployee(result, emp))
	resp.SetLateMinutes(result, p)
	return resp, nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	emp, err := s.activeEmployee(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	p, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to load policy: %w", err)
	}
	now := s.clock().In(p.Location())
	today := attendance.DateOf(now)

	current, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	resp := attendance.TodayResponse{
		Date:          today.Format("2006-01-02"),
		DayOfWeek:     now.Weekday().String(),
		GPSRequired:   p.GPSRequired,
		WorkStartTime: p.WorkStartTime,
		WorkEndTime:   p.WorkEndTime,
		LateThreshold: p.LateThresholdMinutes,
	}

	switch {
	case current == nil:
		resp.CanCheckIn = true
		resp.Message = "You have not checked in today"
	case !current.HasCheckedIn():
		resp.Message = "Today is recorded as " + string(current.Status)
	case !current.HasCheckedOut():
		resp.CanCheckOut = true
		resp.Message = "Checked in at " + *current.CheckInTime
	default:
		resp.Message = "Attendance for today is complete"
	}

	if current != nil {
		r := attendance.NewAttendanceResponse(withEmployee(*current, emp))
		r.SetLateMinutes(*current, p)
		resp.Attendance = &r
	}

	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return s.list(ctx, filter.ToFilter(claims.EmployeeID))
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	return s.list(ctx, filter)
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	items := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		items = append(items, attendance.NewAttendanceResponse(r))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages(total, filter.Limit),
		Showing:     showing(filter.Page, filter.Limit, len(items), total),
		Attendances: items,
	}, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// showing renders "from-to of total", e.g. "21-40 of 57".
func showing(page, limit, count int, total int64) string {
	if count == 0 {
		return fmt.Sprintf("0-0 of %d", total)
	}
	from := (page-1)*limit + 1
	return fmt.Sprintf("%d-%d of %d", from, from+count-1, total)
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	if !validator.IsValidUUID(id) {
		var errs validator.ValidationErrors
		errs.Add("id", "id must be a valid UUID")
		return attendance.AttendanceResponse{}, errs
	}

	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(record), nil
}

// OverrideStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) OverrideStatus(ctx context.Context, req attendance.OverrideStatusRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	date = attendance.DateOf(date)
	now := s.clock()

	var result attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.attendanceRepo.GetByEmployeeAndDate(txCtx, emp.ID, date)
		if err != nil {
			return err
		}

		t, err := attendance.OverrideStatus(current, emp.ID, date, attendance.Status(req.Status), claims.EmployeeID, now)
		if err != nil {
			return err
		}

		result, err = s.apply(txCtx, t, req.IPAddress)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("attendance status overridden",
		"employee_id", emp.ID,
		"date", req.Date,
		"status", req.Status,
		"actor_id", claims.EmployeeID,
	)
	return attendance.NewAttendanceResponse(withEmployee(result, emp)), nil
}

// ReconcileAbsences implements attendance.AttendanceService. An empty date
// means the previous day in the policy timezone. Each employee is written in
// its own transaction; a record created concurrently is skipped.
func (s *AttendanceServiceImpl) ReconcileAbsences(ctx context.Context, date string) (int, error) {
	p, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return 0, fmt.Errorf("failed to load policy: %w", err)
	}
	now := s.clock().In(p.Location())

	var day time.Time
	if date == "" {
		day = attendance.DateOf(now).AddDate(0, 0, -1)
	} else {
		parsed, ok := validator.IsValidDate(date)
		if !ok {
			var errs validator.ValidationErrors
			errs.Add("date", "date must be in YYYY-MM-DD format")
			return 0, errs
		}
		day = attendance.DateOf(parsed)
	}

	ids, err := s.attendanceRepo.ListEmployeesWithoutRecord(ctx, day)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, id := range ids {
		t := attendance.MarkAbsent(id, day, now)
		err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			_, err := s.apply(txCtx, t, "")
			return err
		})
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to mark employee %s absent: %w", id, err)
		}
		created++
	}

	return created, nil
}
