package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/presenza-hq/presenza-backend-go/internal/handler/http/middleware"
	"github.com/presenza-hq/presenza-backend-go/internal/handler/http/response"
)

type TrackingHandler interface {
	Ping(w http.ResponseWriter, r *http.Request)
	LiveStatus(w http.ResponseWriter, r *http.Request)
	CheckGeofence(w http.ResponseWriter, r *http.Request)
	ListFences(w http.ResponseWriter, r *http.Request)
	CreateFence(w http.ResponseWriter, r *http.Request)
	UpdateFence(w http.ResponseWriter, r *http.Request)
	DeleteFence(w http.ResponseWriter, r *http.Request)
}

type trackingHandlerImpl struct {
	trackingService tracking.TrackingService
}

func NewTrackingHandler(trackingService tracking.TrackingService) TrackingHandler {
	return &trackingHandlerImpl{
		trackingService: trackingService,
	}
}

// Ping implements TrackingHandler.
func (h *trackingHandlerImpl) Ping(w http.ResponseWriter, r *http.Request) {
	var req tracking.PingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if req.EmployeeID == "" {
		req.EmployeeID = middleware.EmployeeID(r)
	}

	result, err := h.trackingService.HandlePing(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// LiveStatus implements TrackingHandler.
func (h *trackingHandlerImpl) LiveStatus(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID = middleware.EmployeeID(r)
	}
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	result, err := h.trackingService.GetLiveStatus(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckGeofence implements TrackingHandler.
func (h *trackingHandlerImpl) CheckGeofence(w http.ResponseWriter, r *http.Request) {
	var req tracking.GeofenceCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.trackingService.CheckGeofence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListFences implements TrackingHandler.
func (h *trackingHandlerImpl) ListFences(w http.ResponseWriter, r *http.Request) {
	result, err := h.trackingService.ListFences(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateFence implements TrackingHandler.
func (h *trackingHandlerImpl) CreateFence(w http.ResponseWriter, r *http.Request) {
	var req tracking.UpsertFenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.trackingService.CreateFence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Fence created", result)
}

// UpdateFence implements TrackingHandler.
func (h *trackingHandlerImpl) UpdateFence(w http.ResponseWriter, r *http.Request) {
	var req tracking.UpsertFenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "fenceID")

	result, err := h.trackingService.UpdateFence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Fence updated", result)
}

// DeleteFence implements TrackingHandler.
func (h *trackingHandlerImpl) DeleteFence(w http.ResponseWriter, r *http.Request) {
	fenceID := chi.URLParam(r, "fenceID")

	if err := h.trackingService.DeleteFence(r.Context(), fenceID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Fence deleted", nil)
}
