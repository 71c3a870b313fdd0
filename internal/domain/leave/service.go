package leave

import "context"

type LeaveService interface {
	// GetMyQuota returns the caller's quota for the current year in the
	// policy timezone.
	GetMyQuota(ctx context.Context) (LeaveQuotaResponse, error)
}
