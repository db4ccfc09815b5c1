package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/attendance"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/jackc/pgx/v5"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/database"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/geo"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/sse"
	"github.com/presenza-hq/presenza-backend-go/internal/repository/postgresql"
)

type TrackingServiceImpl struct {
	db           *database.DB
	sessionRepo  attendance.SessionRepository
	stateRepo    tracking.TrackingStateRepository
	pingRepo     tracking.PingRepository
	fenceRepo    tracking.FenceRepository
	employeeRepo employee.EmployeeRepository
	settingsRepo settings.SettingsRepository
	hub          *sse.Hub
	now          func() time.Time
	inTx         func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewTrackingService(
	db *database.DB,
	sessionRepo attendance.SessionRepository,
	stateRepo tracking.TrackingStateRepository,
	pingRepo tracking.PingRepository,
	fenceRepo tracking.FenceRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
	hub *sse.Hub,
) tracking.TrackingService {
	return &TrackingServiceImpl{
		db:           db,
		sessionRepo:  sessionRepo,
		stateRepo:    stateRepo,
		pingRepo:     pingRepo,
		fenceRepo:    fenceRepo,
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		hub:          hub,
		now:          time.Now,
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
				return fn(context.WithValue(ctx, "tx", tx))
			})
		},
	}
}

// HandlePing implements tracking.TrackingService. Whether the employee is
// tracking at all is derived from the existence of an open session; there is
// no separate stored flag to drift out of sync. Every processed ping is
// persisted before the state transition, so the log is complete even when
// the ping triggers an auto-checkout.
func (s *TrackingServiceImpl) HandlePing(ctx context.Context, req tracking.PingRequest) (tracking.PingResult, error) {
	if err := req.Validate(); err != nil {
		return tracking.PingResult{}, err
	}

	recordedAt := s.now()
	if req.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			return tracking.PingResult{}, fmt.Errorf("failed to parse ping timestamp: %w", err)
		}
		recordedAt = t
	}

	session, err := s.sessionRepo.GetOpenSession(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenSession) {
			return tracking.PingResult{
				Tracking: false,
				Message:  "employee is not currently tracking",
			}, nil
		}
		return tracking.PingResult{}, fmt.Errorf("failed to get open session: %w", err)
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return tracking.PingResult{}, err
	}

	inside, distance, _, err := s.evaluateFences(ctx, emp.BranchID, req.Latitude, req.Longitude)
	if err != nil {
		return tracking.PingResult{}, err
	}

	if err := s.pingRepo.Append(ctx, tracking.Ping{
		EmployeeID:     req.EmployeeID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		InsideFence:    inside,
		DistanceMeters: distance,
		RecordedAt:     recordedAt,
	}); err != nil {
		return tracking.PingResult{}, err
	}

	state, err := s.stateRepo.Get(ctx, req.EmployeeID)
	if err != nil {
		if !errors.Is(err, tracking.ErrNotTracking) {
			return tracking.PingResult{}, err
		}
		// First ping of the session; start from a fresh counter.
		state = tracking.TrackingState{EmployeeID: req.EmployeeID}
	}

	state.LastLatitude = req.Latitude
	state.LastLongitude = req.Longitude
	state.LastPingAt = recordedAt
	state.InsideGeofence = inside

	if inside {
		state.OutsideGeofenceCount = 0
		if err := s.stateRepo.Upsert(ctx, state); err != nil {
			return tracking.PingResult{}, err
		}
		return tracking.PingResult{
			Tracking:       true,
			InsideFence:    true,
			DistanceMeters: distance,
		}, nil
	}

	state.OutsideGeofenceCount++

	policy := s.policy(ctx)
	if state.OutsideGeofenceCount >= policy.OutsidePingThreshold {
		if err := s.forceCheckout(ctx, session, recordedAt); err != nil {
			return tracking.PingResult{}, err
		}
		return tracking.PingResult{
			Tracking:       false,
			AutoCheckedOut: true,
			InsideFence:    false,
			DistanceMeters: distance,
			OutsideCount:   state.OutsideGeofenceCount,
			Message:        "auto checked out after leaving the geofence",
		}, nil
	}

	if err := s.stateRepo.Upsert(ctx, state); err != nil {
		return tracking.PingResult{}, err
	}

	return tracking.PingResult{
		Tracking:       true,
		InsideFence:    false,
		DistanceMeters: distance,
		OutsideCount:   state.OutsideGeofenceCount,
	}, nil
}

// forceCheckout closes the open session and removes the tracking counters in
// one transaction, then notifies dashboard subscribers.
func (s *TrackingServiceImpl) forceCheckout(ctx context.Context, session attendance.Session, checkOut time.Time) error {
	reason := attendance.ReasonOutsideGeofence

	err := s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.sessionRepo.Close(txCtx, session.ID, checkOut, attendance.StatusAutoClosed, &reason); err != nil {
			return err
		}
		return s.stateRepo.Delete(txCtx, session.EmployeeID)
	})
	if err != nil {
		return fmt.Errorf("failed to force checkout: %w", err)
	}

	s.hub.Publish(sse.Event{
		EmployeeID: session.EmployeeID,
		Event:      sse.EventAutoCheckedOut,
		Data: map[string]interface{}{
			"session_id": session.ID,
			"reason":     reason,
			"check_out":  checkOut.Format(time.RFC3339),
		},
	})

	return nil
}

// GetLiveStatus implements tracking.TrackingService. Staleness is a
// read-time correction: a client that stopped pinging reads as not tracking,
// but the open session is left untouched.
func (s *TrackingServiceImpl) GetLiveStatus(ctx context.Context, employeeID string) (tracking.LiveStatusResponse, error) {
	resp := tracking.LiveStatusResponse{EmployeeID: employeeID}

	session, err := s.sessionRepo.GetOpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenSession) {
			return resp, nil
		}
		return tracking.LiveStatusResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	// Before the first ping the check-in itself is the freshness baseline.
	lastPing := session.CheckIn

	state, err := s.stateRepo.Get(ctx, employeeID)
	if err == nil {
		lastPing = state.LastPingAt
		resp.InsideFence = state.InsideGeofence
		resp.OutsideCount = state.OutsideGeofenceCount

		lat, lon := state.LastLatitude, state.LastLongitude
		resp.LastLatitude = &lat
		resp.LastLongitude = &lon
	} else if !errors.Is(err, tracking.ErrNotTracking) {
		return tracking.LiveStatusResponse{}, err
	}

	pingAt := lastPing.Format(time.RFC3339)
	resp.LastPingAt = &pingAt

	policy := s.policy(ctx)
	gap := s.now().Sub(lastPing)

	resp.Stale = gap > policy.StalenessTimeout
	resp.Tracking = !resp.Stale
	resp.Resumable = gap <= policy.ResumeWindow

	return resp, nil
}

// CheckGeofence implements tracking.TrackingService.
func (s *TrackingServiceImpl) CheckGeofence(ctx context.Context, req tracking.GeofenceCheckRequest) (tracking.GeofenceCheckResponse, error) {
	if err := req.Validate(); err != nil {
		return tracking.GeofenceCheckResponse{}, err
	}

	inside, distance, closest, err := s.evaluateFences(ctx, req.BranchID, req.Latitude, req.Longitude)
	if err != nil {
		return tracking.GeofenceCheckResponse{}, err
	}

	return tracking.GeofenceCheckResponse{
		IsWithin:       inside,
		DistanceMeters: distance,
		ClosestFenceID: closest.ID,
		ClosestFence:   closest.Name,
	}, nil
}

// evaluateFences tests a point against every active fence in scope. The
// employee is inside if within any fence; the reported distance and closest
// fence come from the minimum-distance fence regardless of membership.
func (s *TrackingServiceImpl) evaluateFences(ctx context.Context, branchID *string, lat, lon float64) (bool, float64, tracking.Fence, error) {
	fences, err := s.fenceRepo.ListActive(ctx, branchID)
	if err != nil {
		return false, 0, tracking.Fence{}, fmt.Errorf("failed to list active fences: %w", err)
	}
	if len(fences) == 0 {
		return false, 0, tracking.Fence{}, tracking.ErrNoActiveFences
	}

	inside := false
	var closest tracking.Fence
	minDistance := -1.0

	for _, fence := range fences {
		check := geo.CheckFence(lat, lon, fence.Latitude, fence.Longitude, fence.RadiusMeters)
		if check.IsWithin {
			inside = true
		}
		if minDistance < 0 || check.DistanceMeters < minDistance {
			minDistance = check.DistanceMeters
			closest = fence
		}
	}

	return inside, minDistance, closest, nil
}

// ListFences implements tracking.TrackingService.
func (s *TrackingServiceImpl) ListFences(ctx context.Context) ([]tracking.FenceResponse, error) {
	fences, err := s.fenceRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]tracking.FenceResponse, 0, len(fences))
	for _, fence := range fences {
		responses = append(responses, toFenceResponse(fence))
	}

	return responses, nil
}

// CreateFence implements tracking.TrackingService.
func (s *TrackingServiceImpl) CreateFence(ctx context.Context, req tracking.UpsertFenceRequest) (tracking.FenceResponse, error) {
	if err := req.Validate(); err != nil {
		return tracking.FenceResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	fence, err := s.fenceRepo.Create(ctx, tracking.Fence{
		Name:         req.Name,
		BranchID:     req.BranchID,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		IsActive:     isActive,
	})
	if err != nil {
		return tracking.FenceResponse{}, err
	}

	return toFenceResponse(fence), nil
}

// UpdateFence implements tracking.TrackingService.
func (s *TrackingServiceImpl) UpdateFence(ctx context.Context, req tracking.UpsertFenceRequest) (tracking.FenceResponse, error) {
	if err := req.Validate(); err != nil {
		return tracking.FenceResponse{}, err
	}

	fence, err := s.fenceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return tracking.FenceResponse{}, err
	}

	fence.Name = req.Name
	fence.BranchID = req.BranchID
	fence.Latitude = req.Latitude
	fence.Longitude = req.Longitude
	fence.RadiusMeters = req.RadiusMeters
	if req.IsActive != nil {
		fence.IsActive = *req.IsActive
	}

	if err := s.fenceRepo.Update(ctx, fence); err != nil {
		return tracking.FenceResponse{}, err
	}

	return toFenceResponse(fence), nil
}

// DeleteFence implements tracking.TrackingService.
func (s *TrackingServiceImpl) DeleteFence(ctx context.Context, id string) error {
	return s.fenceRepo.Delete(ctx, id)
}

func (s *TrackingServiceImpl) policy(ctx context.Context) settings.AttendancePolicy {
	policy, err := s.settingsRepo.GetAttendancePolicy(ctx)
	if err != nil {
		return settings.Default()
	}
	return policy
}

func toFenceResponse(fence tracking.Fence) tracking.FenceResponse {
	return tracking.FenceResponse{
		ID:           fence.ID,
		Name:         fence.Name,
		BranchID:     fence.BranchID,
		Latitude:     fence.Latitude,
		Longitude:    fence.Longitude,
		RadiusMeters: fence.RadiusMeters,
		IsActive:     fence.IsActive,
	}
}
