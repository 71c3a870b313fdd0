package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// ErrInvalidState marks an illegal transition. Clients should refresh
	// today's record and retry.
	ErrInvalidState = errors.New("invalid attendance state")

	ErrAlreadyCheckedIn      = fmt.Errorf("%w: you have already checked in today", ErrInvalidState)
	ErrNotCheckedIn          = fmt.Errorf("%w: you have not checked in yet", ErrInvalidState)
	ErrAlreadyCheckedOut     = fmt.Errorf("%w: you have already checked out today", ErrInvalidState)
	ErrCheckOutBeforeCheckIn = fmt.Errorf("%w: check-out time is earlier than check-in time", ErrInvalidState)
	ErrDayAlreadyRecorded    = fmt.Errorf("%w: attendance for today was already recorded by an administrator", ErrInvalidState)

	ErrLocationRequired = errors.New("location is required to record attendance")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidStatus      = errors.New("invalid attendance status")
)
