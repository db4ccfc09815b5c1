package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/database"
)

type pingRepository struct {
	db *database.DB
}

func NewPingRepository(db *database.DB) tracking.PingRepository {
	return &pingRepository{db: db}
}

// Append implements tracking.PingRepository.
func (r *pingRepository) Append(ctx context.Context, ping tracking.Ping) error {
	q := GetQuerier(ctx, r.db)

	if ping.ID == "" {
		ping.ID = uuid.NewString()
	}

	query := `
		INSERT INTO location_pings (
			id, employee_id, latitude, longitude,
			inside_fence, distance_meters, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		ping.ID,
		ping.EmployeeID,
		ping.Latitude,
		ping.Longitude,
		ping.InsideFence,
		ping.DistanceMeters,
		ping.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append ping: %w", err)
	}

	return nil
}

// ListForDate implements tracking.PingRepository.
func (r *pingRepository) ListForDate(ctx context.Context, employeeID string, date time.Time) ([]tracking.Ping, error) {
	q := GetQuerier(ctx, r.db)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT id, employee_id, latitude, longitude,
			   inside_fence, distance_meters, recorded_at
		FROM location_pings
		WHERE employee_id = $1
		  AND recorded_at >= $2
		  AND recorded_at < $3
		ORDER BY recorded_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list pings: %w", err)
	}
	defer rows.Close()

	var pings []tracking.Ping
	for rows.Next() {
		var p tracking.Ping
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.Latitude, &p.Longitude,
			&p.InsideFence, &p.DistanceMeters, &p.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ping: %w", err)
		}
		pings = append(pings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pings: %w", err)
	}

	return pings, nil
}
