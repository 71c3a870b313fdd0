package policy

import (
	"testing"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSettings_DefaultsWhenEmpty(t *testing.T) {
	assert.Equal(t, Default(), FromSettings(nil))
}

func TestFromSettings_OverlaysStoredRows(t *testing.T) {
	start := "07:30"
	threshold := 5
	gps := false
	rows := []Setting{
		{Key: KeyWorkStartTime, ValueText: &start},
		{Key: KeyLateThreshold, ValueInt: &threshold},
		{Key: KeyGPSRequired, ValueBool: &gps},
		{Key: "unknown_key", ValueText: &start},
		// wrong column for the key is ignored
		{Key: KeyLateDetectionEnabled, ValueInt: &threshold},
	}

	s := FromSettings(rows)

	assert.Equal(t, "07:30", s.WorkStartTime)
	assert.Equal(t, 5, s.LateThresholdMinutes)
	assert.False(t, s.GPSRequired)
	assert.True(t, s.LateDetectionEnabled)
	assert.Equal(t, Default().WorkEndTime, s.WorkEndTime)
}

func TestToSettings_RoundTrip(t *testing.T) {
	s := Default()
	s.WorkStartTime = "09:00"
	s.WorkEndTime = "18:00"
	s.LateThresholdMinutes = 30
	s.LateDetectionEnabled = false
	s.Timezone = "UTC"

	assert.Equal(t, s, FromSettings(ToSettings(s)))
}

func TestSnapshot_Validate(t *testing.T) {
	require.NoError(t, Default().Validate())

	s := Default()
	s.WorkStartTime = "8am"
	s.LateThresholdMinutes = -1
	s.Timezone = "Mars/Olympus"
	s.CompanyName = " "

	err := s.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, KeyWorkStartTime)
	assert.Contains(t, fields, KeyLateThreshold)
	assert.Contains(t, fields, KeyTimezone)
	assert.Contains(t, fields, KeyCompanyName)
}

func TestSnapshot_Validate_RejectsSignedTimes(t *testing.T) {
	tests := []struct {
		name  string
		field string
		set   func(s *Snapshot)
	}{
		{"plus hour", KeyWorkStartTime, func(s *Snapshot) { s.WorkStartTime = "+8:00" }},
		{"minus hour", KeyWorkStartTime, func(s *Snapshot) { s.WorkStartTime = "-0:00" }},
		{"signed minute", KeyWorkEndTime, func(s *Snapshot) { s.WorkEndTime = "17:+0" }},
		{"negative minute", KeyBreakStartTime, func(s *Snapshot) { s.BreakStartTime = "12:-0" }},
		{"signed seconds", KeyBreakEndTime, func(s *Snapshot) { s.BreakEndTime = "13:00:+1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.set(&s)

			var errs validator.ValidationErrors
			require.ErrorAs(t, s.Validate(), &errs)
			assert.Contains(t, errs.ToMap(), tt.field)
		})
	}
}

func TestSnapshot_Validate_WorkWindow(t *testing.T) {
	s := Default()
	s.WorkEndTime = "07:00"
	err := s.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), KeyWorkEndTime)

	s = Default()
	s.BreakStartTime = "07:00"
	err = s.Validate()
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), KeyBreakStartTime)
}

func TestSnapshot_Location(t *testing.T) {
	assert.Equal(t, "Asia/Jakarta", Default().Location().String())

	s := Default()
	s.Timezone = "not/a-zone"
	assert.Equal(t, "UTC", s.Location().String())
}

func TestUpdatePolicyRequest_Apply(t *testing.T) {
	threshold := 20
	name := "PT. Maju Jaya"
	req := UpdatePolicyRequest{LateThreshold: &threshold, CompanyName: &name}

	next := req.Apply(Default())

	assert.Equal(t, 20, next.LateThresholdMinutes)
	assert.Equal(t, "PT. Maju Jaya", next.CompanyName)
	assert.Equal(t, Default().WorkStartTime, next.WorkStartTime)
}

func TestChangedKeys(t *testing.T) {
	a := Default()
	assert.Empty(t, ChangedKeys(a, a))

	b := a
	b.LateThresholdMinutes = 10
	b.GPSRequired = false
	assert.Equal(t, []string{KeyLateThreshold, KeyGPSRequired}, ChangedKeys(a, b))
}
