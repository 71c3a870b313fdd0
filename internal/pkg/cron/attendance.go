package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
)

const reconcileAbsencesJob = "reconcile_absences"

// AbsenceJobs marks employees absent for the previous working day.
type AbsenceJobs struct {
	attendanceService attendance.AttendanceService
	settingsRepo      policy.SettingsRepository
	skipWeekends      bool
	clock             func() time.Time
}

func NewAbsenceJobs(
	attendanceService attendance.AttendanceService,
	settingsRepo policy.SettingsRepository,
	skipWeekends bool,
	clock func() time.Time,
) *AbsenceJobs {
	if clock == nil {
		clock = time.Now
	}
	return &AbsenceJobs{
		attendanceService: attendanceService,
		settingsRepo:      settingsRepo,
		skipWeekends:      skipWeekends,
		clock:             clock,
	}
}

func (j *AbsenceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(reconcileAbsencesJob, interval, j.ReconcileAbsences)
}

// ReconcileAbsences runs for yesterday in the policy timezone. Repeated runs
// for the same day create nothing new.
func (j *AbsenceJobs) ReconcileAbsences(ctx context.Context) error {
	p, err := policy.Load(ctx, j.settingsRepo)
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}

	yesterday := j.clock().In(p.Location()).AddDate(0, 0, -1)
	if j.skipWeekends && isWeekend(yesterday.Weekday()) {
		slog.Debug("Cron: skipping absence reconciliation for weekend", "date", yesterday.Format("2006-01-02"))
		return nil
	}

	created, err := j.attendanceService.ReconcileAbsences(ctx, yesterday.Format("2006-01-02"))
	if err != nil {
		return fmt.Errorf("failed to reconcile absences: %w", err)
	}

	if created > 0 {
		slog.Info("Cron: marked employees absent", "date", yesterday.Format("2006-01-02"), "count", created)
	}
	return nil
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}
