package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/database"
)

type trackingStateRepository struct {
	db *database.DB
}

func NewTrackingStateRepository(db *database.DB) tracking.TrackingStateRepository {
	return &trackingStateRepository{db: db}
}

// Get implements tracking.TrackingStateRepository.
func (r *trackingStateRepository) Get(ctx context.Context, employeeID string) (tracking.TrackingState, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, last_latitude, last_longitude, last_ping_at,
			   inside_geofence, outside_geofence_count, updated_at
		FROM tracking_states
		WHERE employee_id = $1
	`

	var s tracking.TrackingState
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&s.EmployeeID, &s.LastLatitude, &s.LastLongitude, &s.LastPingAt,
		&s.InsideGeofence, &s.OutsideGeofenceCount, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tracking.TrackingState{}, tracking.ErrNotTracking
		}
		return tracking.TrackingState{}, fmt.Errorf("failed to get tracking state: %w", err)
	}

	return s, nil
}

// Upsert implements tracking.TrackingStateRepository.
func (r *trackingStateRepository) Upsert(ctx context.Context, state tracking.TrackingState) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tracking_states (
			employee_id, last_latitude, last_longitude, last_ping_at,
			inside_geofence, outside_geofence_count, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (employee_id) DO UPDATE SET
			last_latitude = EXCLUDED.last_latitude,
			last_longitude = EXCLUDED.last_longitude,
			last_ping_at = EXCLUDED.last_ping_at,
			inside_geofence = EXCLUDED.inside_geofence,
			outside_geofence_count = EXCLUDED.outside_geofence_count,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		state.EmployeeID,
		state.LastLatitude,
		state.LastLongitude,
		state.LastPingAt,
		state.InsideGeofence,
		state.OutsideGeofenceCount,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tracking state: %w", err)
	}

	return nil
}

// Delete implements tracking.TrackingStateRepository.
func (r *trackingStateRepository) Delete(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `DELETE FROM tracking_states WHERE employee_id = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete tracking state: %w", err)
	}

	return nil
}
