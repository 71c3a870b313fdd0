package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
)

type LeaveServiceImpl struct {
	quotaRepo    leave.LeaveQuotaRepository
	settingsRepo policy.SettingsRepository
	clock        func() time.Time
}

func NewLeaveService(quotaRepo leave.LeaveQuotaRepository, settingsRepo policy.SettingsRepository, clock func() time.Time) leave.LeaveService {
	if clock == nil {
		clock = time.Now
	}
	return &LeaveServiceImpl{
		quotaRepo:    quotaRepo,
		settingsRepo: settingsRepo,
		clock:        clock,
	}
}

// GetMyQuota implements leave.LeaveService. An employee without a quota for
// the year sees the policy default with nothing used; nothing is written.
func (s *LeaveServiceImpl) GetMyQuota(ctx context.Context) (leave.LeaveQuotaResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveQuotaResponse{}, err
	}

	p, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return leave.LeaveQuotaResponse{}, fmt.Errorf("failed to load policy: %w", err)
	}
	year := s.clock().In(p.Location()).Year()

	quota, err := s.quotaRepo.GetByEmployeeAndYear(ctx, claims.EmployeeID, year)
	switch {
	case err == nil:
	case errors.Is(err, leave.ErrQuotaNotFound):
		quota = leave.LeaveQuota{EmployeeID: claims.EmployeeID, Year: year, TotalDays: p.DefaultAnnualLeaveDays}
	default:
		return leave.LeaveQuotaResponse{}, err
	}

	return leave.NewLeaveQuotaResponse(quota), nil
}
