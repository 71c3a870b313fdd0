package http

import (
	"net/http"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Attendance report as JSON
	GetAttendanceReport(w http.ResponseWriter, r *http.Request)

	// Attendance report as a CSV or XLSX download
	ExportAttendanceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func reportFilter(r *http.Request) report.ReportFilter {
	return report.ReportFilter{
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
		EmployeeID: queryString(r, "employee_id"),
		Status:     queryString(r, "status"),
	}
}

// GetAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GenerateAttendanceReport(r.Context(), reportFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportAttendanceReport handles GET /reports/attendance/export?format=csv|xlsx
func (h *reportHandlerImpl) ExportAttendanceReport(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		ReportFilter: reportFilter(r),
		Format:       report.Format(r.URL.Query().Get("format")),
	}

	file, err := h.reportService.ExportAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data)
}
