package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns combined dashboard data, querying concurrently
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
}
