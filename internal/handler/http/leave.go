package http

import (
	"net/http"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	GetMyQuota(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

// GetMyQuota handles GET /leave/quota/me
func (h *leaveHandlerImpl) GetMyQuota(w http.ResponseWriter, r *http.Request) {
	result, err := h.leaveService.GetMyQuota(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
