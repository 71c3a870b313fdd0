package policy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
)

type PolicyServiceImpl struct {
	tx           database.Transactor
	settingsRepo policy.SettingsRepository
	auditRepo    audit.Repository
}

func NewPolicyService(tx database.Transactor, settingsRepo policy.SettingsRepository, auditRepo audit.Repository) policy.PolicyService {
	return &PolicyServiceImpl{
		tx:           tx,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
	}
}

// GetPolicy implements policy.PolicyService.
func (s *PolicyServiceImpl) GetPolicy(ctx context.Context) (policy.PolicyResponse, error) {
	snapshot, err := policy.Load(ctx, s.settingsRepo)
	if err != nil {
		return policy.PolicyResponse{}, fmt.Errorf("failed to load policy: %w", err)
	}
	return policy.NewPolicyResponse(snapshot), nil
}

// UpdatePolicy implements policy.PolicyService.
func (s *PolicyServiceImpl) UpdatePolicy(ctx context.Context, req policy.UpdatePolicyRequest) (policy.PolicyResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return policy.PolicyResponse{}, err
	}

	var next policy.Snapshot
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := policy.Load(txCtx, s.settingsRepo)
		if err != nil {
			return fmt.Errorf("failed to load policy: %w", err)
		}

		next = req.Apply(current)
		if err := next.Validate(); err != nil {
			return err
		}

		changed := policy.ChangedKeys(current, next)
		if len(changed) == 0 {
			return nil
		}

		if err := s.settingsRepo.Upsert(txCtx, policy.ToSettings(next)); err != nil {
			return fmt.Errorf("failed to save policy: %w", err)
		}

		event := audit.Event{
			ActorID:   claims.EmployeeID,
			Action:    audit.ActionUpdateSettings,
			Detail:    "Updated settings: " + strings.Join(changed, ", "),
			Timestamp: time.Now(),
		}
		if req.IPAddress != "" {
			event.IPAddress = &req.IPAddress
		}
		if err := s.auditRepo.Append(txCtx, event); err != nil {
			return fmt.Errorf("failed to append audit event: %w", err)
		}
		return nil
	})
	if err != nil {
		return policy.PolicyResponse{}, err
	}

	return policy.NewPolicyResponse(next), nil
}
