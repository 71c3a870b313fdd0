package employee_dashboard

import "github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"

// ========== MONTHLY SUMMARY ==========

type MonthlySummaryRequest struct {
	Month string `json:"month"` // Format: "YYYY-MM", default current month
}

func (r *MonthlySummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Month != "" {
		if _, ok := validator.IsValidMonth(r.Month); !ok {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}
	return errs.Err()
}

// MonthlySummaryResponse is the employee's own summary for one month
type MonthlySummaryResponse struct {
	Month              string  `json:"month"`
	PresentCount       int     `json:"present_count"`
	LateCount          int     `json:"late_count"`
	TotalWorkedMinutes int     `json:"total_worked_minutes"`
	TotalWorkedTime    string  `json:"total_worked_time"` // Format: "HH:MM"
	TotalHours         float64 `json:"total_hours"`       // one decimal
	AverageWorkHours   float64 `json:"average_work_hours"`
	AverageCheckIn     *string `json:"average_check_in"` // Format: "HH:MM", null without check-ins

	Policy PolicyInfo `json:"policy"`
}

// PolicyInfo is the part of the policy shown next to the summary
type PolicyInfo struct {
	WorkStartTime string `json:"work_start_time"`
	WorkEndTime   string `json:"work_end_time"`
	BreakStart    string `json:"break_start_time"`
	BreakEnd      string `json:"break_end_time"`
	LateThreshold int    `json:"late_threshold"`
}
