package leave

type LeaveQuotaResponse struct {
	EmployeeID    string `json:"employee_id"`
	Year          int    `json:"year"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
}

func NewLeaveQuotaResponse(q LeaveQuota) LeaveQuotaResponse {
	return LeaveQuotaResponse{
		EmployeeID:    q.EmployeeID,
		Year:          q.Year,
		TotalDays:     q.TotalDays,
		UsedDays:      q.UsedDays,
		RemainingDays: q.Remaining(),
	}
}
