package timeofday

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormat is returned for anything that is not HH:MM or HH:MM:SS.
	ErrInvalidFormat = errors.New("invalid time of day format")

	// ErrNegativeSpan is returned by Duration when end is earlier than start.
	// Spans crossing midnight are not wrapped.
	ErrNegativeSpan = errors.New("end time is earlier than start time")
)

const (
	MinutesPerDay = 24 * 60

	// Layout is the layout used when persisting a time of day.
	Layout = "15:04:05"
)

// parse returns seconds since midnight.
func parse(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
	}

	limits := []int{23, 59, 59}
	fields := make([]int, 3)
	for i, part := range parts {
		if len(part) != 2 || !isDigit(part[0]) || !isDigit(part[1]) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, value)
		}
		fields[i] = n
	}

	return fields[0]*3600 + fields[1]*60 + fields[2], nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ToMinutes converts HH:MM or HH:MM:SS to minutes since midnight.
// Seconds are truncated.
func ToMinutes(value string) (int, error) {
	secs, err := parse(value)
	if err != nil {
		return 0, err
	}
	return secs / 60, nil
}

// Validate reports whether value is a well-formed time of day.
func Validate(value string) error {
	_, err := parse(value)
	return err
}

// Duration returns the whole minutes elapsed between start and end on the
// same clock day. Seconds take part in the difference and the result is
// floored, so 08:05:30 -> 17:00:10 yields 534.
func Duration(start, end string) (int, error) {
	startSecs, err := parse(start)
	if err != nil {
		return 0, err
	}
	endSecs, err := parse(end)
	if err != nil {
		return 0, err
	}
	if endSecs < startSecs {
		return 0, fmt.Errorf("%w: %s -> %s", ErrNegativeSpan, start, end)
	}
	return (endSecs - startSecs) / 60, nil
}

// FormatDuration renders minutes as zero-padded HH:MM. Hours are not capped
// at 23 so monthly totals render too. Negative input renders as 00:00.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Hours converts minutes to hours rounded to one decimal place.
func Hours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}
