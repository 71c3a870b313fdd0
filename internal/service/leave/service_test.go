package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/absensi-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const empID = "0193a1b2-0000-7000-8000-000000000001"

func employeeContext() context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{EmployeeID: empID, Role: employee.RoleEmployee})
}

func TestLeaveService_GetMyQuota(t *testing.T) {
	quotas := servicetest.NewLeaveQuotas(
		leave.LeaveQuota{EmployeeID: empID, Year: 2025, TotalDays: 12, UsedDays: 12},
		leave.LeaveQuota{EmployeeID: empID, Year: 2026, TotalDays: 12, UsedDays: 3},
	)
	// 2026 already in Jakarta
	clock := servicetest.Clock(time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC))
	svc := NewLeaveService(quotas, servicetest.NewSettings(policy.Default()), clock)

	resp, err := svc.GetMyQuota(employeeContext())
	require.NoError(t, err)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 12, resp.TotalDays)
	assert.Equal(t, 3, resp.UsedDays)
	assert.Equal(t, 9, resp.RemainingDays)
}

func TestLeaveService_GetMyQuota_DefaultsWhenUnseeded(t *testing.T) {
	p := policy.Default()
	p.DefaultAnnualLeaveDays = 14
	clock := servicetest.Clock(time.Date(2026, 3, 9, 1, 0, 0, 0, time.UTC))
	quotas := servicetest.NewLeaveQuotas()
	svc := NewLeaveService(quotas, servicetest.NewSettings(p), clock)

	resp, err := svc.GetMyQuota(employeeContext())
	require.NoError(t, err)
	assert.Equal(t, 14, resp.TotalDays)
	assert.Equal(t, 14, resp.RemainingDays)

	_, err = quotas.GetByEmployeeAndYear(context.Background(), empID, 2026)
	assert.ErrorIs(t, err, leave.ErrQuotaNotFound)
}

func TestLeaveService_GetMyQuota_Errors(t *testing.T) {
	quotas := servicetest.NewLeaveQuotas()
	svc := NewLeaveService(quotas, servicetest.NewSettings(policy.Default()), nil)

	_, err := svc.GetMyQuota(context.Background())
	assert.ErrorIs(t, err, jwt.ErrMissingClaims)

	boom := errors.New("connection refused")
	quotas.Err = boom
	_, err = svc.GetMyQuota(employeeContext())
	assert.ErrorIs(t, err, boom)
}
