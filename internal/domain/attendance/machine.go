package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
)

type EffectKind string

const (
	EffectInsertRecord EffectKind = "insert_record"
	EffectUpdateRecord EffectKind = "update_record"
	EffectAppendAudit  EffectKind = "append_audit"
	EffectConsumeLeave EffectKind = "consume_leave"
	EffectRestoreLeave EffectKind = "restore_leave"
)

// Effect is a write the caller must perform for a transition to take place.
// Record is set for insert/update and leave effects, Audit for append effects.
// Leave effects charge one day against the quota of Record's year.
type Effect struct {
	Kind   EffectKind
	Record Attendance
	Audit  audit.Event
}

// Transition is the outcome of a state machine step: the record as it should
// look afterwards and the writes that get it there, in order.
type Transition struct {
	Record  Attendance
	Effects []Effect
}

// DateOf returns the calendar date of t in t's own location, normalised to
// midnight UTC so it compares equal to dates read back from storage.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckIn opens the day for employeeID. current is today's record, nil when
// none exists yet. now is converted to the policy timezone before use.
func CheckIn(current *Attendance, employeeID string, now time.Time, loc *Location, p policy.Snapshot) (Transition, error) {
	if current != nil {
		if current.HasCheckedIn() {
			return Transition{}, ErrAlreadyCheckedIn
		}
		return Transition{}, ErrDayAlreadyRecorded
	}
	if p.GPSRequired && loc == nil {
		return Transition{}, ErrLocationRequired
	}

	now = now.In(p.Location())
	checkInTime := now.Format(timeofday.Layout)

	status, err := Classify(checkInTime, p)
	if err != nil {
		return Transition{}, err
	}

	record := Attendance{
		EmployeeID:      employeeID,
		Date:            DateOf(now),
		DayOfWeek:       now.Weekday().String(),
		CheckInTime:     &checkInTime,
		CheckInLocation: loc,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	return Transition{
		Record: record,
		Effects: []Effect{
			{Kind: EffectInsertRecord, Record: record},
			{Kind: EffectAppendAudit, Audit: audit.Event{
				ActorID:   employeeID,
				Action:    audit.ActionCheckIn,
				Detail:    "Check-in at " + checkInTime,
				Timestamp: now,
			}},
		},
	}, nil
}

// CheckOut seals the day. The check-in side of the record is left untouched.
func CheckOut(current *Attendance, now time.Time, loc *Location, p policy.Snapshot) (Transition, error) {
	if !current.HasCheckedIn() {
		return Transition{}, ErrNotCheckedIn
	}
	if current.HasCheckedOut() {
		return Transition{}, ErrAlreadyCheckedOut
	}
	if p.GPSRequired && loc == nil {
		return Transition{}, ErrLocationRequired
	}

	now = now.In(p.Location())
	checkOutTime := now.Format(timeofday.Layout)

	worked, err := timeofday.Duration(*current.CheckInTime, checkOutTime)
	if err != nil {
		if errors.Is(err, timeofday.ErrNegativeSpan) {
			return Transition{}, ErrCheckOutBeforeCheckIn
		}
		return Transition{}, fmt.Errorf("failed to compute worked duration: %w", err)
	}

	record := *current
	record.CheckOutTime = &checkOutTime
	record.CheckOutLocation = loc
	record.WorkedMinutes = &worked
	record.UpdatedAt = now

	return Transition{
		Record: record,
		Effects: []Effect{
			{Kind: EffectUpdateRecord, Record: record},
			{Kind: EffectAppendAudit, Audit: audit.Event{
				ActorID:   record.EmployeeID,
				Action:    audit.ActionCheckOut,
				Detail:    "Check-out at " + checkOutTime,
				Timestamp: now,
			}},
		},
	}, nil
}

// OverrideStatus is the administrative path for assigning a status to a day.
// Times, locations and worked duration are never touched; a record without
// times is created when the employee has none for that date.
func OverrideStatus(current *Attendance, employeeID string, date time.Time, status Status, actorID string, now time.Time) (Transition, error) {
	if !status.IsValid() {
		return Transition{}, ErrInvalidStatus
	}

	kind := EffectUpdateRecord
	var record Attendance
	if current != nil {
		record = *current
	} else {
		kind = EffectInsertRecord
		date = DateOf(date)
		record = Attendance{
			EmployeeID: employeeID,
			Date:       date,
			DayOfWeek:  date.Weekday().String(),
			CreatedAt:  now,
		}
	}
	previous := record.Status
	record.Status = status
	record.UpdatedAt = now

	detail := fmt.Sprintf("Status for %s on %s set to %s", employeeID, record.Date.Format("2006-01-02"), status)
	if previous != "" {
		detail += " (was " + string(previous) + ")"
	}

	effects := []Effect{{Kind: kind, Record: record}}
	switch {
	case status == StatusExcusedLeave && previous != StatusExcusedLeave:
		effects = append(effects, Effect{Kind: EffectConsumeLeave, Record: record})
	case previous == StatusExcusedLeave && status != StatusExcusedLeave:
		effects = append(effects, Effect{Kind: EffectRestoreLeave, Record: record})
	}
	effects = append(effects, Effect{Kind: EffectAppendAudit, Audit: audit.Event{
		ActorID:   actorID,
		Action:    audit.ActionOverrideStatus,
		Detail:    detail,
		Timestamp: now,
	}})

	return Transition{Record: record, Effects: effects}, nil
}

// MarkAbsent materialises an Absent record for a day with no attendance.
// The audit event has no actor.
func MarkAbsent(employeeID string, date time.Time, now time.Time) Transition {
	date = DateOf(date)
	record := Attendance{
		EmployeeID: employeeID,
		Date:       date,
		DayOfWeek:  date.Weekday().String(),
		Status:     StatusAbsent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return Transition{
		Record: record,
		Effects: []Effect{
			{Kind: EffectInsertRecord, Record: record},
			{Kind: EffectAppendAudit, Audit: audit.Event{
				Action:    audit.ActionMarkAbsent,
				Detail:    fmt.Sprintf("Marked %s absent on %s", employeeID, date.Format("2006-01-02")),
				Timestamp: now,
			}},
		},
	}
}
