package attendance

import (
	"testing"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() policy.Snapshot {
	p := policy.Default()
	p.Timezone = "UTC"
	return p
}

func TestClassify(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name    string
		checkIn string
		mutate  func(*policy.Snapshot)
		want    Status
	}{
		{name: "before start", checkIn: "07:45", want: StatusPresent},
		{name: "inside threshold", checkIn: "08:10", want: StatusPresent},
		{name: "exactly at threshold", checkIn: "08:15:59", want: StatusPresent},
		{name: "past threshold", checkIn: "08:20", want: StatusLate},
		{name: "first late minute", checkIn: "08:16", want: StatusLate},
		{
			name:    "late detection disabled",
			checkIn: "10:00",
			mutate:  func(s *policy.Snapshot) { s.LateDetectionEnabled = false },
			want:    StatusPresent,
		},
		{
			name:    "zero threshold",
			checkIn: "08:01",
			mutate:  func(s *policy.Snapshot) { s.LateThresholdMinutes = 0 },
			want:    StatusLate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := p
			if tt.mutate != nil {
				tt.mutate(&snapshot)
			}
			got, err := Classify(tt.checkIn, snapshot)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_InvalidTime(t *testing.T) {
	_, err := Classify("8:10", testPolicy())
	assert.ErrorIs(t, err, timeofday.ErrInvalidFormat)

	p := testPolicy()
	p.WorkStartTime = "noon"
	_, err = Classify("08:10", p)
	assert.ErrorIs(t, err, timeofday.ErrInvalidFormat)
}

func TestLateMinutes(t *testing.T) {
	p := testPolicy()
	assert.Equal(t, 0, LateMinutes("07:30:00", p))
	assert.Equal(t, 20, LateMinutes("08:20:45", p))
	assert.Equal(t, 0, LateMinutes("bad", p))
}
