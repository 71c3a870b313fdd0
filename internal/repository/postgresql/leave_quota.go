package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveQuotaRepositoryImpl struct {
	db database.Pool
}

func NewLeaveQuotaRepository(db database.Pool) leave.LeaveQuotaRepository {
	return &leaveQuotaRepositoryImpl{db: db}
}

const leaveQuotaSelect = `
	SELECT id, employee_id, year, total_days, used_days, created_at, updated_at
	FROM leave_quotas
`

func scanLeaveQuota(row pgx.Row) (leave.LeaveQuota, error) {
	var quota leave.LeaveQuota
	err := row.Scan(
		&quota.ID, &quota.EmployeeID, &quota.Year,
		&quota.TotalDays, &quota.UsedDays,
		&quota.CreatedAt, &quota.UpdatedAt,
	)
	return quota, err
}

// Create implements leave.LeaveQuotaRepository.
func (r *leaveQuotaRepositoryImpl) Create(ctx context.Context, quota leave.LeaveQuota) (leave.LeaveQuota, error) {
	q := GetQuerier(ctx, r.db)

	if quota.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return leave.LeaveQuota{}, fmt.Errorf("failed to generate leave quota id: %w", err)
		}
		quota.ID = id.String()
	}

	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO leave_quotas (id, employee_id, year, total_days, used_days)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, year) DO UPDATE SET employee_id = EXCLUDED.employee_id
		RETURNING id, employee_id, year, total_days, used_days, created_at, updated_at
	`

	created, err := scanLeaveQuota(q.QueryRow(ctx, query,
		quota.ID, quota.EmployeeID, quota.Year, quota.TotalDays, quota.UsedDays,
	))
	if err != nil {
		return leave.LeaveQuota{}, database.Wrap("create leave quota", err)
	}
	return created, nil
}

// GetByEmployeeAndYear implements leave.LeaveQuotaRepository.
func (r *leaveQuotaRepositoryImpl) GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) (leave.LeaveQuota, error) {
	q := GetQuerier(ctx, r.db)

	quota, err := scanLeaveQuota(q.QueryRow(ctx, leaveQuotaSelect+" WHERE employee_id = $1 AND year = $2", employeeID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveQuota{}, leave.ErrQuotaNotFound
		}
		return leave.LeaveQuota{}, database.Wrap("get leave quota", err)
	}
	return quota, nil
}

// DecrementQuota implements leave.LeaveQuotaRepository.
func (r *leaveQuotaRepositoryImpl) DecrementQuota(ctx context.Context, employeeID string, year int, days int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_quotas
		SET used_days = used_days + $3, updated_at = NOW()
		WHERE employee_id = $1 AND year = $2 AND total_days - used_days >= $3
	`

	tag, err := q.Exec(ctx, query, employeeID, year, days)
	if err != nil {
		return database.Wrap("decrement leave quota", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing matched: tell a missing quota apart from an exhausted one.
	if _, err := r.GetByEmployeeAndYear(ctx, employeeID, year); err != nil {
		return err
	}
	return leave.ErrQuotaExhausted
}

// RestoreQuota implements leave.LeaveQuotaRepository.
func (r *leaveQuotaRepositoryImpl) RestoreQuota(ctx context.Context, employeeID string, year int, days int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_quotas
		SET used_days = GREATEST(used_days - $3, 0), updated_at = NOW()
		WHERE employee_id = $1 AND year = $2
	`

	if _, err := q.Exec(ctx, query, employeeID, year, days); err != nil {
		return database.Wrap("restore leave quota", err)
	}
	return nil
}
