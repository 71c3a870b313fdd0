package policy

// ========================================
// POLICY DTOs
// ========================================

type PolicyResponse struct {
	WorkStartTime        string `json:"work_start_time"`
	WorkEndTime          string `json:"work_end_time"`
	BreakStartTime       string `json:"break_start_time"`
	BreakEndTime         string `json:"break_end_time"`
	LateThreshold        int    `json:"late_threshold"`
	DefaultAnnualLeave   int    `json:"default_annual_leave"`
	GPSRequired          bool   `json:"gps_required"`
	LateDetectionEnabled bool   `json:"late_detection_enabled"`
	CompanyName          string `json:"company_name"`
	Timezone             string `json:"timezone"`
}

// UpdatePolicyRequest replaces the whole policy. Omitted fields keep the
// currently stored value.
type UpdatePolicyRequest struct {
	WorkStartTime        *string `json:"work_start_time,omitempty"`
	WorkEndTime          *string `json:"work_end_time,omitempty"`
	BreakStartTime       *string `json:"break_start_time,omitempty"`
	BreakEndTime         *string `json:"break_end_time,omitempty"`
	LateThreshold        *int    `json:"late_threshold,omitempty"`
	DefaultAnnualLeave   *int    `json:"default_annual_leave,omitempty"`
	GPSRequired          *bool   `json:"gps_required,omitempty"`
	LateDetectionEnabled *bool   `json:"late_detection_enabled,omitempty"`
	CompanyName          *string `json:"company_name,omitempty"`
	Timezone             *string `json:"timezone,omitempty"`
	IPAddress            string  `json:"-"`
}

// Apply merges the request into current.
func (r UpdatePolicyRequest) Apply(current Snapshot) Snapshot {
	next := current
	if r.WorkStartTime != nil {
		next.WorkStartTime = *r.WorkStartTime
	}
	if r.WorkEndTime != nil {
		next.WorkEndTime = *r.WorkEndTime
	}
	if r.BreakStartTime != nil {
		next.BreakStartTime = *r.BreakStartTime
	}
	if r.BreakEndTime != nil {
		next.BreakEndTime = *r.BreakEndTime
	}
	if r.LateThreshold != nil {
		next.LateThresholdMinutes = *r.LateThreshold
	}
	if r.DefaultAnnualLeave != nil {
		next.DefaultAnnualLeaveDays = *r.DefaultAnnualLeave
	}
	if r.GPSRequired != nil {
		next.GPSRequired = *r.GPSRequired
	}
	if r.LateDetectionEnabled != nil {
		next.LateDetectionEnabled = *r.LateDetectionEnabled
	}
	if r.CompanyName != nil {
		next.CompanyName = *r.CompanyName
	}
	if r.Timezone != nil {
		next.Timezone = *r.Timezone
	}
	return next
}

func NewPolicyResponse(s Snapshot) PolicyResponse {
	return PolicyResponse{
		WorkStartTime:        s.WorkStartTime,
		WorkEndTime:          s.WorkEndTime,
		BreakStartTime:       s.BreakStartTime,
		BreakEndTime:         s.BreakEndTime,
		LateThreshold:        s.LateThresholdMinutes,
		DefaultAnnualLeave:   s.DefaultAnnualLeaveDays,
		GPSRequired:          s.GPSRequired,
		LateDetectionEnabled: s.LateDetectionEnabled,
		CompanyName:          s.CompanyName,
		Timezone:             s.Timezone,
	}
}
