package attendance

import (
	"strings"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// LocationPayload carries optional device coordinates. Both must be sent
// together or not at all.
type LocationPayload struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (p LocationPayload) Location() *Location {
	if p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &Location{Latitude: *p.Latitude, Longitude: *p.Longitude}
}

func (p LocationPayload) validate(errs *validator.ValidationErrors) {
	if (p.Latitude == nil) != (p.Longitude == nil) {
		errs.Add("location", "latitude and longitude must be sent together")
		return
	}
	if p.Latitude != nil && !validator.IsValidLatitude(*p.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if p.Longitude != nil && !validator.IsValidLongitude(*p.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
}

type CheckInRequest struct {
	LocationPayload
	IPAddress string `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	r.LocationPayload.validate(&errs)
	return errs.Err()
}

type CheckOutRequest struct {
	LocationPayload
	IPAddress string `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors
	r.LocationPayload.validate(&errs)
	return errs.Err()
}

type AttendanceResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     *string `json:"employee_name,omitempty"`
	EmployeeNumber   *string `json:"employee_number,omitempty"`
	Title            *string `json:"title,omitempty"`
	Division         *string `json:"division,omitempty"`
	Date             string  `json:"date"`
	DayOfWeek        string  `json:"day_of_week"`
	CheckInTime      *string `json:"check_in_time"`
	CheckOutTime     *string `json:"check_out_time"`
	CheckInLocation  *string `json:"check_in_location"`
	CheckOutLocation *string `json:"check_out_location"`
	TotalTime        *string `json:"total_time"` // HH:MM
	WorkedMinutes    *int    `json:"worked_minutes"`
	LateMinutes      *int    `json:"late_minutes,omitempty"`
	Status           Status  `json:"status"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// NewAttendanceResponse maps an entity for the API.
func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		EmployeeName:   a.EmployeeName,
		EmployeeNumber: a.EmployeeNumber,
		Title:          a.EmployeeTitle,
		Division:       a.EmployeeDivision,
		Date:           a.Date.Format("2006-01-02"),
		DayOfWeek:      a.DayOfWeek,
		CheckInTime:    a.CheckInTime,
		CheckOutTime:   a.CheckOutTime,
		WorkedMinutes:  a.WorkedMinutes,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.HasCheckedIn() {
		loc := FormatLocation(a.CheckInLocation)
		resp.CheckInLocation = &loc
	}
	if a.HasCheckedOut() {
		loc := FormatLocation(a.CheckOutLocation)
		resp.CheckOutLocation = &loc
	}
	if a.WorkedMinutes != nil {
		total := timeofday.FormatDuration(*a.WorkedMinutes)
		resp.TotalTime = &total
	}
	return resp
}

// SetLateMinutes reports how late a Late check-in was under p.
func (r *AttendanceResponse) SetLateMinutes(a Attendance, p policy.Snapshot) {
	if a.Status != StatusLate || !a.HasCheckedIn() {
		return
	}
	late := LateMinutes(*a.CheckInTime, p)
	r.LateMinutes = &late
}

// TodayResponse drives the check-in screen.
type TodayResponse struct {
	Date          string              `json:"date"`
	DayOfWeek     string              `json:"day_of_week"`
	Attendance    *AttendanceResponse `json:"attendance"`
	CanCheckIn    bool                `json:"can_check_in"`
	CanCheckOut   bool                `json:"can_check_out"`
	GPSRequired   bool                `json:"gps_required"`
	WorkStartTime string              `json:"work_start_time"`
	WorkEndTime   string              `json:"work_end_time"`
	LateThreshold int                 `json:"late_threshold"`
	Message       string              `json:"message"`
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

var (
	adminSortFields = []string{"date", "employee_name", "check_in_time", "check_out_time", "status"}
	mySortFields    = []string{"date", "check_in_time", "check_out_time", "status"}
)

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	validatePage(&errs, &f.Page, &f.Limit)
	validateStatus(&errs, f.Status)
	validateDates(&errs, f.Date, f.StartDate, f.EndDate)
	validateSort(&errs, &f.SortBy, &f.SortOrder, adminSortFields)

	return errs.Err()
}

type MyAttendanceFilter struct {
	// Search & Filter (no employee filters)
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	validatePage(&errs, &f.Page, &f.Limit)
	validateStatus(&errs, f.Status)
	validateDates(&errs, f.Date, f.StartDate, f.EndDate)
	validateSort(&errs, &f.SortBy, &f.SortOrder, mySortFields)

	return errs.Err()
}

// ToFilter scopes the personal filter to one employee.
func (f MyAttendanceFilter) ToFilter(employeeID string) AttendanceFilter {
	return AttendanceFilter{
		EmployeeID: &employeeID,
		Date:       f.Date,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		Status:     f.Status,
		Page:       f.Page,
		Limit:      f.Limit,
		SortBy:     f.SortBy,
		SortOrder:  f.SortOrder,
	}
}

func validatePage(errs *validator.ValidationErrors, page, limit *int) {
	if *page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if *page == 0 {
		*page = 1
	}

	if *limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if *limit == 0 {
		*limit = 20
	}
	if *limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
}

func validateStatus(errs *validator.ValidationErrors, status *string) {
	if status != nil && !Status(*status).IsValid() {
		errs.Add("status", "status must be one of: "+statusList())
	}
}

func validateDates(errs *validator.ValidationErrors, date, startDate, endDate *string) {
	fields := []struct {
		name  string
		value *string
	}{
		{"date", date},
		{"start_date", startDate},
		{"end_date", endDate},
	}
	for _, f := range fields {
		if f.value == nil || *f.value == "" {
			continue
		}
		if _, valid := validator.IsValidDate(*f.value); !valid {
			errs.Add(f.name, f.name+" must be in YYYY-MM-DD format")
		}
	}

	if startDate != nil && endDate != nil && *startDate != "" && *endDate != "" {
		start, okStart := validator.IsValidDate(*startDate)
		end, okEnd := validator.IsValidDate(*endDate)
		if okStart && okEnd && end.Before(start) {
			errs.Add("end_date", "end_date must not be before start_date")
		}
	}
}

func validateSort(errs *validator.ValidationErrors, sortBy, sortOrder *string, allowed []string) {
	if *sortBy == "" {
		*sortBy = "date"
	} else if !validator.IsInSlice(*sortBy, allowed) {
		errs.Add("sort_by", "sort_by must be one of: "+strings.Join(allowed, ", "))
	}

	if *sortOrder == "" {
		*sortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(*sortOrder), []string{"asc", "desc"}) {
		errs.Add("sort_order", "sort_order must be one of: asc, desc")
	}
	*sortOrder = strings.ToLower(*sortOrder)
}

func statusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// OverrideStatusRequest lets an administrator assign leave, sickness or
// absence to a day.
type OverrideStatusRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Status     string `json:"status"`
	IPAddress  string `json:"-"`
}

func (r *OverrideStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if validator.IsEmpty(r.Status) {
		errs.Add("status", "status is required")
	} else if !Status(r.Status).IsValid() {
		errs.Add("status", "status must be one of: "+statusList())
	}

	return errs.Err()
}
