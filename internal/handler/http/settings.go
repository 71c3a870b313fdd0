package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/absensi-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	policyService policy.PolicyService
}

func NewSettingsHandler(policyService policy.PolicyService) SettingsHandler {
	return &settingsHandlerImpl{policyService: policyService}
}

// Get handles GET /settings
func (h *settingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.policyService.GetPolicy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update handles PUT /settings
func (h *settingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req policy.UpdatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.IPAddress = clientIP(r)

	result, err := h.policyService.UpdatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Settings updated", result)
}
