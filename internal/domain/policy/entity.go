package policy

import (
	"time"
	_ "time/tzdata" // policy timezones must resolve on hosts without zoneinfo

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

// Setting keys as stored in system_settings.
const (
	KeyWorkStartTime        = "work_start_time"
	KeyWorkEndTime          = "work_end_time"
	KeyBreakStartTime       = "break_start_time"
	KeyBreakEndTime         = "break_end_time"
	KeyLateThreshold        = "late_threshold"
	KeyDefaultAnnualLeave   = "default_annual_leave"
	KeyCompanyName          = "company_name"
	KeyTimezone             = "timezone"
	KeyLateDetectionEnabled = "late_detection_enabled"
	KeyGPSRequired          = "gps_required"
)

const (
	maxLateThresholdMinutes   = 240
	maxDefaultAnnualLeaveDays = 365
)

// Setting is one key/value row. Exactly one of the value columns is set.
type Setting struct {
	Key       string
	ValueText *string
	ValueInt  *int
	ValueBool *bool
	UpdatedAt time.Time
}

// Snapshot is the policy in force for a single decision. It is read once per
// operation and passed by value; nothing holds on to it.
type Snapshot struct {
	WorkStartTime          string
	WorkEndTime            string
	BreakStartTime         string
	BreakEndTime           string
	LateThresholdMinutes   int
	DefaultAnnualLeaveDays int
	GPSRequired            bool
	LateDetectionEnabled   bool
	CompanyName            string
	Timezone               string
}

// Default returns the policy used before an administrator saves anything.
func Default() Snapshot {
	return Snapshot{
		WorkStartTime:          "08:00",
		WorkEndTime:            "17:00",
		BreakStartTime:         "12:00",
		BreakEndTime:           "13:00",
		LateThresholdMinutes:   15,
		DefaultAnnualLeaveDays: 12,
		GPSRequired:            true,
		LateDetectionEnabled:   true,
		CompanyName:            "PT. Contoh Perusahaan",
		Timezone:               "Asia/Jakarta",
	}
}

// FromSettings overlays stored rows on top of Default. Unknown keys and rows
// whose value column does not match the key's type are ignored.
func FromSettings(rows []Setting) Snapshot {
	s := Default()
	for _, row := range rows {
		switch row.Key {
		case KeyWorkStartTime:
			setText(&s.WorkStartTime, row)
		case KeyWorkEndTime:
			setText(&s.WorkEndTime, row)
		case KeyBreakStartTime:
			setText(&s.BreakStartTime, row)
		case KeyBreakEndTime:
			setText(&s.BreakEndTime, row)
		case KeyCompanyName:
			setText(&s.CompanyName, row)
		case KeyTimezone:
			setText(&s.Timezone, row)
		case KeyLateThreshold:
			if row.ValueInt != nil {
				s.LateThresholdMinutes = *row.ValueInt
			}
		case KeyDefaultAnnualLeave:
			if row.ValueInt != nil {
				s.DefaultAnnualLeaveDays = *row.ValueInt
			}
		case KeyLateDetectionEnabled:
			if row.ValueBool != nil {
				s.LateDetectionEnabled = *row.ValueBool
			}
		case KeyGPSRequired:
			if row.ValueBool != nil {
				s.GPSRequired = *row.ValueBool
			}
		}
	}
	return s
}

func setText(dst *string, row Setting) {
	if row.ValueText != nil && *row.ValueText != "" {
		*dst = *row.ValueText
	}
}

// ToSettings is the inverse of FromSettings.
func ToSettings(s Snapshot) []Setting {
	text := func(key, v string) Setting { return Setting{Key: key, ValueText: &v} }
	integer := func(key string, v int) Setting { return Setting{Key: key, ValueInt: &v} }
	boolean := func(key string, v bool) Setting { return Setting{Key: key, ValueBool: &v} }

	return []Setting{
		text(KeyWorkStartTime, s.WorkStartTime),
		text(KeyWorkEndTime, s.WorkEndTime),
		text(KeyBreakStartTime, s.BreakStartTime),
		text(KeyBreakEndTime, s.BreakEndTime),
		text(KeyCompanyName, s.CompanyName),
		text(KeyTimezone, s.Timezone),
		integer(KeyLateThreshold, s.LateThresholdMinutes),
		integer(KeyDefaultAnnualLeave, s.DefaultAnnualLeaveDays),
		boolean(KeyLateDetectionEnabled, s.LateDetectionEnabled),
		boolean(KeyGPSRequired, s.GPSRequired),
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (s Snapshot) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s Snapshot) Validate() error {
	var errs validator.ValidationErrors

	times := []struct {
		field, value string
	}{
		{KeyWorkStartTime, s.WorkStartTime},
		{KeyWorkEndTime, s.WorkEndTime},
		{KeyBreakStartTime, s.BreakStartTime},
		{KeyBreakEndTime, s.BreakEndTime},
	}
	minutes := make(map[string]int, len(times))
	for _, t := range times {
		m, err := timeofday.ToMinutes(t.value)
		if err != nil {
			errs.Add(t.field, t.field+" must be in HH:MM format")
			continue
		}
		minutes[t.field] = m
	}

	if len(errs) == 0 {
		if minutes[KeyWorkEndTime] <= minutes[KeyWorkStartTime] {
			errs.Add(KeyWorkEndTime, "work_end_time must be after work_start_time")
		}
		if minutes[KeyBreakEndTime] < minutes[KeyBreakStartTime] {
			errs.Add(KeyBreakEndTime, "break_end_time must not be before break_start_time")
		}
		if minutes[KeyBreakStartTime] < minutes[KeyWorkStartTime] || minutes[KeyBreakEndTime] > minutes[KeyWorkEndTime] {
			errs.Add(KeyBreakStartTime, "break must fall within working hours")
		}
	}

	if s.LateThresholdMinutes < 0 || s.LateThresholdMinutes > maxLateThresholdMinutes {
		errs.Add(KeyLateThreshold, "late_threshold must be between 0 and 240 minutes")
	}
	if s.DefaultAnnualLeaveDays < 0 || s.DefaultAnnualLeaveDays > maxDefaultAnnualLeaveDays {
		errs.Add(KeyDefaultAnnualLeave, "default_annual_leave must be between 0 and 365 days")
	}
	if validator.IsEmpty(s.CompanyName) {
		errs.Add(KeyCompanyName, "company_name is required")
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil || validator.IsEmpty(s.Timezone) {
		errs.Add(KeyTimezone, "timezone must be a valid IANA zone name")
	}

	return errs.Err()
}

// ChangedKeys lists the setting keys whose values differ between a and b.
func ChangedKeys(a, b Snapshot) []string {
	before := ToSettings(a)
	after := ToSettings(b)
	var keys []string
	for i := range before {
		if !sameValue(before[i], after[i]) {
			keys = append(keys, before[i].Key)
		}
	}
	return keys
}

func sameValue(a, b Setting) bool {
	switch {
	case a.ValueText != nil:
		return b.ValueText != nil && *a.ValueText == *b.ValueText
	case a.ValueInt != nil:
		return b.ValueInt != nil && *a.ValueInt == *b.ValueInt
	default:
		return a.ValueBool != nil && b.ValueBool != nil && *a.ValueBool == *b.ValueBool
	}
}
