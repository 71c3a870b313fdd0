package dashboard

// ========== ADMIN DASHBOARD ==========

// DashboardResponse is the combined response for the admin dashboard endpoint
type DashboardResponse struct {
	TotalEmployees   int64                  `json:"total_employees"`
	PresentToday     int64                  `json:"present_today"`
	LateToday        int64                  `json:"late_today"`
	NotCheckedIn     int64                  `json:"not_checked_in"`
	AverageWorkHours float64                `json:"average_work_hours"` // this month, one decimal
	Date             string                 `json:"date"`               // Format: "YYYY-MM-DD"
	Month            string                 `json:"month"`              // Format: "YYYY-MM"
	Recent           []AttendanceRecordItem `json:"recent"`             // Latest check-ins today
}

// AttendanceRecordItem represents a single attendance record in the list
type AttendanceRecordItem struct {
	No           int     `json:"no"`
	EmployeeName string  `json:"employee_name"`
	Status       string  `json:"status"`
	CheckIn      *string `json:"check_in,omitempty"` // Format: "HH:MM:SS"
}
