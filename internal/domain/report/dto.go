package report

import (
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE REPORT
// ========================================

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ReportFilter selects records for the report. Empty dates default to the
// current month in the policy timezone.
type ReportFilter struct {
	StartDate  string  `json:"start_date"` // YYYY-MM-DD
	EndDate    string  `json:"end_date"`   // YYYY-MM-DD
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors
	f.validate(&errs)
	return errs.Err()
}

func (f *ReportFilter) validate(errs *validator.ValidationErrors) {
	start, okStart := validator.IsValidDate(f.StartDate)
	if f.StartDate != "" && !okStart {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, okEnd := validator.IsValidDate(f.EndDate)
	if f.EndDate != "" && !okEnd {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if (f.StartDate == "") != (f.EndDate == "") {
		errs.Add("end_date", "start_date and end_date must be sent together")
	}
	if okStart && okEnd && end.Before(start) {
		errs.Add("end_date", ErrInvalidDateRange.Error())
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}
	if f.Status != nil && !attendance.Status(*f.Status).IsValid() {
		errs.Add("status", "status is not a valid attendance status")
	}
}

type ExportRequest struct {
	ReportFilter
	Format Format `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors
	r.ReportFilter.validate(&errs)
	if r.Format == "" {
		r.Format = FormatCSV
	}
	if r.Format != FormatCSV && r.Format != FormatXLSX {
		errs.Add("format", "format must be one of: csv, xlsx")
	}
	return errs.Err()
}

type AttendanceReport struct {
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	GeneratedAt string        `json:"generated_at"`
	Summary     ReportSummary `json:"summary"`
	Rows        []ReportRow   `json:"rows"`
}

type ReportSummary struct {
	TotalRecords     int     `json:"total_records"`
	Present          int     `json:"present"`
	Late             int     `json:"late"`
	ExcusedLeave     int     `json:"excused_leave"`
	SickLeave        int     `json:"sick_leave"`
	Absent           int     `json:"absent"`
	TotalWorkHours   float64 `json:"total_work_hours"`
	AverageWorkHours float64 `json:"average_work_hours"`
}

type ReportRow struct {
	Date           string  `json:"date"`
	DayOfWeek      string  `json:"day_of_week"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	EmployeeNumber string  `json:"employee_number"`
	Title          string  `json:"title"`
	Division       string  `json:"division"`
	CheckIn        *string `json:"check_in"`
	CheckOut       *string `json:"check_out"`
	TotalTime      *string `json:"total_time"` // HH:MM
	Status         string  `json:"status"`
}

// ExportFile is a rendered report ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
