package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db database.Pool
}

func NewReportRepository(db database.Pool) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListAttendance implements report.ReportRepository.
func (r *reportRepositoryImpl) ListAttendance(ctx context.Context, query report.ReportQuery) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	builder := psql.
		Select(append(append([]string{}, attendanceColumns...), employeeColumns...)...).
		From("attendances a").
		Join("employees e ON e.id = a.employee_id").
		Where(sq.GtOrEq{"a.date": query.StartDate}).
		Where(sq.LtOrEq{"a.date": query.EndDate}).
		OrderBy("a.date DESC", "e.name ASC")
	if query.EmployeeID != nil {
		builder = builder.Where(sq.Eq{"a.employee_id": *query.EmployeeID})
	}
	if query.Status != nil {
		builder = builder.Where(sq.Eq{"a.status": *query.Status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build report query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, database.Wrap("query attendance report", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows, true)
		if err != nil {
			return nil, database.Wrap("scan attendance report row", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("iterate attendance report", err)
	}

	return records, nil
}
