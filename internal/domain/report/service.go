package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// GenerateAttendanceReport returns report rows with a status breakdown
	GenerateAttendanceReport(ctx context.Context, filter ReportFilter) (AttendanceReport, error)

	// ExportAttendanceReport renders the same rows as CSV or XLSX
	ExportAttendanceReport(ctx context.Context, req ExportRequest) (ExportFile, error)
}
