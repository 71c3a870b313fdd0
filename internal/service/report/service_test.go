package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/absensi-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeReportRepo struct {
	records []attendance.Attendance
	err     error
	query   report.ReportQuery
}

func (f *fakeReportRepo) ListAttendance(_ context.Context, q report.ReportQuery) ([]attendance.Attendance, error) {
	f.query = q
	return f.records, f.err
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func sampleRecords() []attendance.Attendance {
	return []attendance.Attendance{
		{
			EmployeeID:       "emp-1",
			Date:             time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			DayOfWeek:        "Tuesday",
			CheckInTime:      strPtr("08:05:00"),
			CheckOutTime:     strPtr("17:00:00"),
			WorkedMinutes:    intPtr(535),
			Status:           attendance.StatusPresent,
			EmployeeName:     strPtr("Budi Santoso"),
			EmployeeNumber:   strPtr("EMP-001"),
			EmployeeTitle:    strPtr("Engineer, Backend"),
			EmployeeDivision: strPtr("Technology"),
		},
		{
			EmployeeID:     "emp-2",
			Date:           time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			DayOfWeek:      "Monday",
			Status:         attendance.StatusSickLeave,
			EmployeeName:   strPtr("Siti Aminah"),
			EmployeeNumber: strPtr("EMP-002"),
		},
	}
}

func newService(repo *fakeReportRepo) report.ReportService {
	p := policy.Default()
	p.Timezone = "UTC"
	return NewReportService(repo, servicetest.NewSettings(p), servicetest.Clock(time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)))
}

func TestGenerateAttendanceReport(t *testing.T) {
	repo := &fakeReportRepo{records: sampleRecords()}
	svc := newService(repo)

	rep, err := svc.GenerateAttendanceReport(context.Background(), report.ReportFilter{})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", rep.StartDate)
	assert.Equal(t, "2026-03-31", rep.EndDate)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), repo.query.EndDate)

	assert.Equal(t, 2, rep.Summary.TotalRecords)
	assert.Equal(t, 1, rep.Summary.Present)
	assert.Equal(t, 1, rep.Summary.SickLeave)
	assert.Equal(t, 8.9, rep.Summary.TotalWorkHours)

	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "08:55", *rep.Rows[0].TotalTime)
	assert.Nil(t, rep.Rows[1].CheckIn)
}

func TestGenerateAttendanceReport_ExplicitRange(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := newService(repo)
	status := string(attendance.StatusLate)

	_, err := svc.GenerateAttendanceReport(context.Background(), report.ReportFilter{
		StartDate: "2026-01-01",
		EndDate:   "2026-01-15",
		Status:    &status,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), repo.query.StartDate)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), repo.query.EndDate)
	assert.Equal(t, &status, repo.query.Status)
}

func TestGenerateAttendanceReport_Invalid(t *testing.T) {
	svc := newService(&fakeReportRepo{})

	_, err := svc.GenerateAttendanceReport(context.Background(), report.ReportFilter{
		StartDate: "2026-02-10",
		EndDate:   "2026-02-01",
	})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "end_date")
}

func TestGenerateAttendanceReport_StorageError(t *testing.T) {
	svc := newService(&fakeReportRepo{err: &database.StorageError{Op: "list report", Err: errors.New("down")}})

	_, err := svc.GenerateAttendanceReport(context.Background(), report.ReportFilter{})
	var storageErr *database.StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestExportAttendanceReport_CSV(t *testing.T) {
	svc := newService(&fakeReportRepo{records: sampleRecords()})

	file, err := svc.ExportAttendanceReport(context.Background(), report.ExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, "attendance-report-2026-03-01-to-2026-03-31.csv", file.Filename)
	assert.Equal(t, contentTypeCSV, file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeaders, records[0])
	// embedded comma survives the round trip
	assert.Equal(t, []string{"2026-03-10", "Budi Santoso", "EMP-001", "Engineer, Backend", "Technology", "08:05:00", "17:00:00", "08:55", "present"}, records[1])
	assert.Equal(t, []string{"2026-03-09", "Siti Aminah", "EMP-002", "-", "-", "-", "-", "-", "sick_leave"}, records[2])
}

func TestExportAttendanceReport_XLSX(t *testing.T) {
	svc := newService(&fakeReportRepo{records: sampleRecords()})

	file, err := svc.ExportAttendanceReport(context.Background(), report.ExportRequest{Format: report.FormatXLSX})
	require.NoError(t, err)
	assert.Equal(t, contentTypeXLSX, file.ContentType)

	book, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "Budi Santoso", rows[1][1])
	assert.Equal(t, "-", rows[2][5])
}

func TestExportAttendanceReport_UnknownFormat(t *testing.T) {
	svc := newService(&fakeReportRepo{})

	_, err := svc.ExportAttendanceReport(context.Background(), report.ExportRequest{Format: "pdf"})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "format")
}
