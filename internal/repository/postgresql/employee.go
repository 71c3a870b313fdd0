package postgresql

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db database.Pool
}

func NewEmployeeRepository(db database.Pool) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT id, name, employee_number, title, division, email, role, is_active, created_at, updated_at
	FROM employees
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp  employee.Employee
		role string
	)
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.EmployeeNumber, &emp.Title, &emp.Division,
		&emp.Email, &role, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	emp.Role = employee.Role(role)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, employeeSelect+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, database.Wrap("get employee", err)
	}

	return emp, nil
}

// CountActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, e.db)

	var count int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM employees WHERE is_active = TRUE").Scan(&count); err != nil {
		return 0, database.Wrap("count active employees", err)
	}
	return count, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, employeeSelect+" WHERE is_active = TRUE ORDER BY name")
	if err != nil {
		return nil, database.Wrap("list active employees", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, database.Wrap("scan employee", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("iterate employees", err)
	}

	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if emp.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		emp.ID = id.String()
	}

	query := `
		INSERT INTO employees (id, name, employee_number, title, division, email, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.ID,
		emp.Name,
		emp.EmployeeNumber,
		nullableText(emp.Title),
		nullableText(emp.Division),
		emp.Email,
		string(emp.Role),
		emp.IsActive,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmployeeExists
		}
		return employee.Employee{}, database.Wrap("create employee", err)
	}

	return emp, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, e.db)

	query, args, err := psql.
		Update("employees").
		SetMap(map[string]any{
			"name":            emp.Name,
			"employee_number": emp.EmployeeNumber,
			"title":           nullableText(emp.Title),
			"division":        nullableText(emp.Division),
			"email":           emp.Email,
			"role":            string(emp.Role),
			"updated_at":      sq.Expr("NOW()"),
		}).
		Where(sq.Eq{"id": emp.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return employee.ErrEmployeeExists
		}
		return database.Wrap("update employee", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// SetActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, "UPDATE employees SET is_active = $2, updated_at = NOW() WHERE id = $1", id, active)
	if err != nil {
		return database.Wrap("set employee active", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
