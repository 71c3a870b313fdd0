package attendance

import (
	"fmt"
	"math"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
)

// Summary is derived on demand from a set of records and never persisted.
type Summary struct {
	PresentCount       int
	LateCount          int
	CompletedCount     int
	TotalWorkedMinutes int

	// AverageCheckInMinutesOfDay is nil when no record has a check-in.
	AverageCheckInMinutesOfDay *int
}

// AverageWorkedMinutes divides total worked time by the records that have a
// worked duration, rounded to the nearest minute.
func (s Summary) AverageWorkedMinutes() int {
	if s.CompletedCount == 0 {
		return 0
	}
	return int(math.Round(float64(s.TotalWorkedMinutes) / float64(s.CompletedCount)))
}

// Summarize folds records into a Summary. Every record is counted on its own,
// so the result does not depend on input order.
func Summarize(records []Attendance) (Summary, error) {
	var (
		s            Summary
		checkInTotal int
	)

	for _, r := range records {
		if r.Status == StatusLate {
			s.LateCount++
		}
		if r.WorkedMinutes != nil {
			s.CompletedCount++
			s.TotalWorkedMinutes += *r.WorkedMinutes
		}
		if r.CheckInTime == nil {
			continue
		}

		minutes, err := timeofday.ToMinutes(*r.CheckInTime)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to summarize record for %s: %w", r.Date.Format("2006-01-02"), err)
		}
		s.PresentCount++
		checkInTotal += minutes
	}

	if s.PresentCount > 0 {
		avg := int(math.Round(float64(checkInTotal) / float64(s.PresentCount)))
		s.AverageCheckInMinutesOfDay = &avg
	}

	return s, nil
}
