package http

import (
	"net/http"

	empDashboard "github.com/cmlabs-hris/absensi-backend-go/internal/domain/employee_dashboard"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
)

type EmployeeDashboardHandler interface {
	// GetMonthlySummary returns the caller's summary for a month
	GetMonthlySummary(w http.ResponseWriter, r *http.Request)
}

type employeeDashboardHandlerImpl struct {
	service empDashboard.EmployeeDashboardService
}

func NewEmployeeDashboardHandler(service empDashboard.EmployeeDashboardService) EmployeeDashboardHandler {
	return &employeeDashboardHandlerImpl{service: service}
}

// GetMonthlySummary handles GET /attendance/my/summary
// Query params:
//   - month: YYYY-MM (default: current month)
func (h *employeeDashboardHandlerImpl) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	req := empDashboard.MonthlySummaryRequest{Month: r.URL.Query().Get("month")}

	result, err := h.service.GetMonthlySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
