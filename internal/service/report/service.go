package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/timeofday"
	"github.com/xuri/excelize/v2"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Attendance"

	// missingValue fills empty cells in exported files
	missingValue = "-"
)

var exportHeaders = []string{
	"Date", "Name", "Employee Number", "Title", "Division",
	"Check In", "Check Out", "Total Time", "Status",
}

type ReportServiceImpl struct {
	reportRepo   report.ReportRepository
	settingsRepo policy.SettingsRepository
	clock        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, settingsRepo policy.SettingsRepository, clock func() time.Time) report.ReportService {
	if clock == nil {
		clock = time.Now
	}
	return &ReportServiceImpl{
		reportRepo:   reportRepo,
		settingsRepo: settingsRepo,
		clock:        clock,
	}
}

// resolveQuery fills in the current month when no dates are given.
func (s *ReportServiceImpl) resolveQuery(ctx context.Context, filter report.ReportFilter) (report.ReportQuery, error) {
	query := report.ReportQuery{
		EmployeeID: filter.EmployeeID,
		Status:     filter.Status,
	}

	if filter.StartDate != "" {
		// already validated
		query.StartDate, _ = time.Parse("2006-01-02", filter.StartDate)
		query.EndDate, _ = time.Parse("2006-01-02", filter.EndDate)
		return query, nil
	}

	p, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return report.ReportQuery{}, fmt.Errorf("failed to load policy: %w", err)
	}
	today := attendance.DateOf(s.clock().In(p.Location()))
	query.StartDate = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	query.EndDate = query.StartDate.AddDate(0, 1, -1)
	return query, nil
}

// GenerateAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateAttendanceReport(ctx context.Context, filter report.ReportFilter) (report.AttendanceReport, error) {
	if err := filter.Validate(); err != nil {
		return report.AttendanceReport{}, err
	}
	return s.generate(ctx, filter)
}

func (s *ReportServiceImpl) generate(ctx context.Context, filter report.ReportFilter) (report.AttendanceReport, error) {
	query, err := s.resolveQuery(ctx, filter)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	records, err := s.reportRepo.ListAttendance(ctx, query)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	summary, err := summarize(records)
	if err != nil {
		return report.AttendanceReport{}, err
	}

	rows := make([]report.ReportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, toRow(r))
	}

	return report.AttendanceReport{
		StartDate:   query.StartDate.Format("2006-01-02"),
		EndDate:     query.EndDate.Format("2006-01-02"),
		GeneratedAt: s.clock().UTC().Format(time.RFC3339),
		Summary:     summary,
		Rows:        rows,
	}, nil
}

func summarize(records []attendance.Attendance) (report.ReportSummary, error) {
	totals, err := attendance.Summarize(records)
	if err != nil {
		return report.ReportSummary{}, err
	}

	summary := report.ReportSummary{
		TotalRecords:     len(records),
		TotalWorkHours:   timeofday.Hours(totals.TotalWorkedMinutes),
		AverageWorkHours: timeofday.Hours(totals.AverageWorkedMinutes()),
	}
	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			summary.Present++
		case attendance.StatusLate:
			summary.Late++
		case attendance.StatusExcusedLeave:
			summary.ExcusedLeave++
		case attendance.StatusSickLeave:
			summary.SickLeave++
		case attendance.StatusAbsent:
			summary.Absent++
		}
	}
	return summary, nil
}

func toRow(a attendance.Attendance) report.ReportRow {
	row := report.ReportRow{
		Date:           a.Date.Format("2006-01-02"),
		DayOfWeek:      a.DayOfWeek,
		EmployeeID:     a.EmployeeID,
		EmployeeName:   deref(a.EmployeeName),
		EmployeeNumber: deref(a.EmployeeNumber),
		Title:          deref(a.EmployeeTitle),
		Division:       deref(a.EmployeeDivision),
		CheckIn:        a.CheckInTime,
		CheckOut:       a.CheckOutTime,
		Status:         string(a.Status),
	}
	if a.WorkedMinutes != nil {
		total := timeofday.FormatDuration(*a.WorkedMinutes)
		row.TotalTime = &total
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ExportAttendanceReport implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendanceReport(ctx context.Context, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	rep, err := s.generate(ctx, req.ReportFilter)
	if err != nil {
		return report.ExportFile{}, err
	}

	filename := fmt.Sprintf("attendance-report-%s-to-%s.%s", rep.StartDate, rep.EndDate, req.Format)

	switch req.Format {
	case report.FormatCSV:
		data, err := writeCSV(rep.Rows)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
		}
		return report.ExportFile{Filename: filename, ContentType: contentTypeCSV, Data: data}, nil
	case report.FormatXLSX:
		data, err := writeXLSX(rep.Rows)
		if err != nil {
			return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
		}
		return report.ExportFile{Filename: filename, ContentType: contentTypeXLSX, Data: data}, nil
	default:
		return report.ExportFile{}, report.ErrUnsupportedFormat
	}
}

// exportRecord renders a row for file output, with missingValue for blanks.
func exportRecord(r report.ReportRow) []string {
	orMissing := func(s string) string {
		if s == "" {
			return missingValue
		}
		return s
	}
	return []string{
		r.Date,
		r.EmployeeName,
		r.EmployeeNumber,
		orMissing(r.Title),
		orMissing(r.Division),
		orMissing(deref(r.CheckIn)),
		orMissing(deref(r.CheckOut)),
		orMissing(deref(r.TotalTime)),
		r.Status,
	}
}

func writeCSV(rows []report.ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(exportRecord(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXLSX(rows []report.ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(exportHeaders))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		record := exportRecord(r)
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
