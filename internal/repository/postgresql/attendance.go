package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var attendanceColumns = []string{
	"a.id", "a.employee_id", "a.date", "a.day_of_week",
	"a.check_in_time::text", "a.check_out_time::text",
	"a.check_in_location", "a.check_out_location",
	"a.worked_minutes", "a.status", "a.created_at", "a.updated_at",
}

var employeeColumns = []string{
	"e.name", "e.employee_number", "e.title", "e.division",
}

var attendanceSortColumns = map[string]string{
	"date":           "a.date",
	"employee_name":  "e.name",
	"check_in_time":  "a.check_in_time",
	"check_out_time": "a.check_out_time",
	"status":         "a.status",
}

type attendanceRepository struct {
	db database.Pool
}

func NewAttendanceRepository(db database.Pool) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// scanAttendance reads attendanceColumns, followed by employeeColumns when
// withEmployee is set.
func scanAttendance(row pgx.Row, withEmployee bool) (attendance.Attendance, error) {
	var (
		att                     attendance.Attendance
		status                  string
		inLocation, outLocation *string
	)
	dest := []any{
		&att.ID, &att.EmployeeID, &att.Date, &att.DayOfWeek,
		&att.CheckInTime, &att.CheckOutTime,
		&inLocation, &outLocation,
		&att.WorkedMinutes, &status, &att.CreatedAt, &att.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &att.EmployeeName, &att.EmployeeNumber, &att.EmployeeTitle, &att.EmployeeDivision)
	}
	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}

	att.Status = attendance.Status(status)
	var err error
	if inLocation != nil {
		if att.CheckInLocation, err = attendance.ParseLocation(*inLocation); err != nil {
			return attendance.Attendance{}, err
		}
	}
	if outLocation != nil {
		if att.CheckOutLocation, err = attendance.ParseLocation(*outLocation); err != nil {
			return attendance.Attendance{}, err
		}
	}
	return att, nil
}

// locationColumn stores the unavailable marker only when the matching time is set.
func locationColumn(recorded *string, loc *attendance.Location) any {
	if recorded == nil {
		return nil
	}
	return attendance.FormatLocation(loc)
}

func nullableText(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if newAttendance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		newAttendance.ID = id.String()
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date, day_of_week,
			check_in_time, check_in_location, status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5::time, $6, $7, $8, $9
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.DayOfWeek,
		nullableText(newAttendance.CheckInTime),
		locationColumn(newAttendance.CheckInTime, newAttendance.CheckInLocation),
		string(newAttendance.Status),
		newAttendance.CreatedAt,
		newAttendance.UpdatedAt,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, database.Wrap("create attendance", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query, args, err := psql.
		Select(append(append([]string{}, attendanceColumns...), employeeColumns...)...).
		From("attendances a").
		LeftJoin("employees e ON e.id = a.employee_id").
		Where(sq.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to build query: %w", err)
	}

	att, err := scanAttendance(q.QueryRow(ctx, query, args...), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, database.Wrap("get attendance by id", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query, args, err := psql.
		Select(attendanceColumns...).
		From("attendances a").
		Where(sq.Eq{"a.employee_id": employeeID, "a.date": date}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	att, err := scanAttendance(q.QueryRow(ctx, query, args...), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, database.Wrap("get attendance by employee and date", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			check_out_time = $2::time,
			check_out_location = $3,
			worked_minutes = $4,
			status = $5,
			updated_at = $6
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		nullableText(att.CheckOutTime),
		locationColumn(att.CheckOutTime, att.CheckOutLocation),
		nullableInt(att.WorkedMinutes),
		string(att.Status),
		att.UpdatedAt,
	)
	if err != nil {
		return database.Wrap("update attendance", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	where := sq.And{}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where = append(where, sq.Eq{"a.employee_id": *filter.EmployeeID})
	}
	if filter.Date != nil && *filter.Date != "" {
		where = append(where, sq.Eq{"a.date": *filter.Date})
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		where = append(where, sq.GtOrEq{"a.date": *filter.StartDate})
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		where = append(where, sq.LtOrEq{"a.date": *filter.EndDate})
	}
	if filter.Status != nil && *filter.Status != "" {
		where = append(where, sq.Eq{"a.status": *filter.Status})
	}

	countQuery, countArgs, err := psql.
		Select("COUNT(*)").
		From("attendances a").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, database.Wrap("count attendances", err)
	}

	orderBy, ok := attendanceSortColumns[filter.SortBy]
	if !ok {
		orderBy = "a.date"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := max(filter.Page, 1)

	selectQuery, args, err := psql.
		Select(append(append([]string{}, attendanceColumns...), employeeColumns...)...).
		From("attendances a").
		LeftJoin("employees e ON e.id = a.employee_id").
		Where(where).
		OrderBy(orderBy+" "+direction, "a.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	attendances, err := a.query(ctx, q, selectQuery, args, true)
	if err != nil {
		return nil, 0, database.Wrap("list attendances", err)
	}

	return attendances, total, nil
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, employeeID *string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	builder := psql.
		Select(append(append([]string{}, attendanceColumns...), employeeColumns...)...).
		From("attendances a").
		LeftJoin("employees e ON e.id = a.employee_id").
		Where(sq.GtOrEq{"a.date": start}).
		Where(sq.LtOrEq{"a.date": end}).
		OrderBy("a.date DESC", "a.check_in_time DESC NULLS LAST")
	if employeeID != nil {
		builder = builder.Where(sq.Eq{"a.employee_id": *employeeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	attendances, err := a.query(ctx, q, query, args, true)
	if err != nil {
		return nil, database.Wrap("list attendances by range", err)
	}
	return attendances, nil
}

// ListEmployeesWithoutRecord implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListEmployeesWithoutRecord(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT e.id
		FROM employees e
		WHERE e.is_active = TRUE
		  AND NOT EXISTS (
			SELECT 1 FROM attendances a
			WHERE a.employee_id = e.id AND a.date = $1
		  )
		ORDER BY e.id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, database.Wrap("list employees without attendance", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, database.Wrap("scan employee id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("iterate employee ids", err)
	}

	return ids, nil
}

func (a *attendanceRepository) query(ctx context.Context, q database.Querier, query string, args []any, withEmployee bool) ([]attendance.Attendance, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendances := []attendance.Attendance{}
	for rows.Next() {
		att, err := scanAttendance(rows, withEmployee)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attendances, nil
}
