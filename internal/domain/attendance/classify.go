package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
)

// Classify assigns the automatic status for a check-in. Only Present and Late
// are ever produced here; leave and absence come from an administrator.
func Classify(checkInTime string, p policy.Snapshot) (Status, error) {
	checkIn, err := timeofday.ToMinutes(checkInTime)
	if err != nil {
		return "", fmt.Errorf("failed to parse check-in time: %w", err)
	}
	if !p.LateDetectionEnabled {
		return StatusPresent, nil
	}

	workStart, err := timeofday.ToMinutes(p.WorkStartTime)
	if err != nil {
		return "", fmt.Errorf("failed to parse work start time: %w", err)
	}

	if lateMinutes := checkIn - workStart; lateMinutes > p.LateThresholdMinutes {
		return StatusLate, nil
	}
	return StatusPresent, nil
}

// LateMinutes returns how far past the work start checkInTime is, or zero.
func LateMinutes(checkInTime string, p policy.Snapshot) int {
	checkIn, err := timeofday.ToMinutes(checkInTime)
	if err != nil {
		return 0
	}
	workStart, err := timeofday.ToMinutes(p.WorkStartTime)
	if err != nil {
		return 0
	}
	return max(checkIn-workStart, 0)
}
