package tracking

import "context"

// TrackingService drives the per-employee presence state machine.
type TrackingService interface {
	// HandlePing consumes one location report. A ping for an employee with
	// no open session is a no-op (Tracking=false). An outside-fence ping
	// that reaches the configured consecutive threshold closes the open
	// session and ends tracking.
	HandlePing(ctx context.Context, req PingRequest) (PingResult, error)

	// GetLiveStatus applies the read-time staleness correction: tracking is
	// reported false once the gap since the last ping exceeds the staleness
	// timeout, without closing the open session.
	GetLiveStatus(ctx context.Context, employeeID string) (LiveStatusResponse, error)

	// CheckGeofence tests a point against the active fences in scope and
	// reports the closest fence regardless of membership.
	CheckGeofence(ctx context.Context, req GeofenceCheckRequest) (GeofenceCheckResponse, error)

	// Fence administration.
	ListFences(ctx context.Context) ([]FenceResponse, error)
	CreateFence(ctx context.Context, req UpsertFenceRequest) (FenceResponse, error)
	UpdateFence(ctx context.Context, req UpsertFenceRequest) (FenceResponse, error)
	DeleteFence(ctx context.Context, id string) error
}
