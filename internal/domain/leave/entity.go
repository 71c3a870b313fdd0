package leave

import "time"

// LeaveQuota is an employee's annual leave allowance for one calendar year.
type LeaveQuota struct {
	ID         string
	EmployeeID string
	Year       int
	TotalDays  int
	UsedDays   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Remaining never goes below zero even if the total was lowered after use.
func (q LeaveQuota) Remaining() int {
	return max(q.TotalDays-q.UsedDays, 0)
}
