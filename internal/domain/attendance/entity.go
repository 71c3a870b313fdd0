package attendance

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusPresent      Status = "present"
	StatusLate         Status = "late"
	StatusExcusedLeave Status = "excused_leave"
	StatusSickLeave    Status = "sick_leave"
	StatusAbsent       Status = "absent"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPresent, StatusLate, StatusExcusedLeave, StatusSickLeave, StatusAbsent}

func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

// LocationUnavailable is persisted when no coordinates were captured.
const LocationUnavailable = "Location not available"

// Location is a captured coordinate pair. A nil *Location means the device
// could not provide one.
type Location struct {
	Latitude  float64
	Longitude float64
}

// FormatLocation renders loc as "lat,lng" or LocationUnavailable.
func FormatLocation(loc *Location) string {
	if loc == nil {
		return LocationUnavailable
	}
	return strconv.FormatFloat(loc.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
}

// ParseLocation is the inverse of FormatLocation. Empty input and the
// unavailable marker both yield nil.
func ParseLocation(value string) (*Location, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == LocationUnavailable {
		return nil, nil
	}
	lat, lng, ok := strings.Cut(value, ",")
	if !ok {
		return nil, fmt.Errorf("invalid location %q", value)
	}
	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in %q: %w", value, err)
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in %q: %w", value, err)
	}
	return &Location{Latitude: latitude, Longitude: longitude}, nil
}

// Attendance is the single record for one employee on one calendar date.
// CheckInTime and CheckOutTime are HH:MM:SS in the policy timezone.
type Attendance struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	DayOfWeek        string
	CheckInTime      *string
	CheckOutTime     *string
	CheckInLocation  *Location
	CheckOutLocation *Location
	WorkedMinutes    *int
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	EmployeeName     *string
	EmployeeNumber   *string
	EmployeeTitle    *string
	EmployeeDivision *string
}

func (a *Attendance) HasCheckedIn() bool {
	return a != nil && a.CheckInTime != nil
}

func (a *Attendance) HasCheckedOut() bool {
	return a != nil && a.CheckOutTime != nil
}
