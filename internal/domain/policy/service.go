package policy

import "context"

// PolicyService exposes the administrator-configured policy.
type PolicyService interface {
	// GetPolicy reads a fresh snapshot
	GetPolicy(ctx context.Context) (PolicyResponse, error)

	// UpdatePolicy validates and stores a new policy (admin)
	UpdatePolicy(ctx context.Context, req UpdatePolicyRequest) (PolicyResponse, error)
}
