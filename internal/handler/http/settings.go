package http

import (
	"encoding/json"
	"net/http"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
	"github.com/presenza-hq/presenza-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetPolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{
		settingsService: settingsService,
	}
}

// GetPolicy implements SettingsHandler.
func (h *settingsHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetPolicy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdatePolicy implements SettingsHandler.
func (h *settingsHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingsService.UpdatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance policy updated", result)
}
