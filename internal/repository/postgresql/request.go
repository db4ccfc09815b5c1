package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/request"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/database"
)

type requestRepository struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) request.RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `
	id, employee_id, type, status, date, duration_minutes, leave_type,
	amount, reason, decided_by, decided_at, created_at, updated_at
`

func scanRequest(row pgx.Row) (request.Request, error) {
	var req request.Request
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.Type, &req.Status, &req.Date,
		&req.DurationMinutes, &req.LeaveType, &req.Amount, &req.Reason,
		&req.DecidedBy, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

// Create implements request.RequestRepository.
func (r *requestRepository) Create(ctx context.Context, req request.Request) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	query := `
		INSERT INTO requests (
			id, employee_id, type, status, date,
			duration_minutes, leave_type, amount, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.Type, req.Status, req.Date,
		req.DurationMinutes, req.LeaveType, req.Amount, req.Reason,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return request.Request{}, fmt.Errorf("failed to create request: %w", err)
	}

	return req, nil
}

// GetByID implements request.RequestRepository.
func (r *requestRepository) GetByID(ctx context.Context, id string) (request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.Request{}, request.ErrRequestNotFound
		}
		return request.Request{}, fmt.Errorf("failed to get request: %w", err)
	}

	return req, nil
}

// Decide implements request.RequestRepository. The WHERE clause is
// conditional on PENDING so two concurrent authorizers cannot both win.
func (r *requestRepository) Decide(ctx context.Context, id string, status string, decidedBy string, decidedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE requests
		SET status = $2, decided_by = $3, decided_at = $4, updated_at = NOW()
		WHERE id = $1
		  AND status = $5
	`

	tag, err := q.Exec(ctx, query, id, status, decidedBy, decidedAt, request.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to decide request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either missing or already decided; disambiguate for the caller.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return request.ErrRequestAlreadyProcessed
	}

	return nil
}

// List implements request.RequestRepository.
func (r *requestRepository) List(ctx context.Context, filter request.RequestFilter) ([]request.Request, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.EmployeeID != nil {
		addCondition("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Type != nil {
		addCondition("type = $%d", *filter.Type)
	}
	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}
	if filter.StartDate != nil {
		addCondition("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCondition("date <= $%d", *filter.EndDate)
	}

	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListApprovedForDate implements request.RequestRepository.
func (r *requestRepository) ListApprovedForDate(ctx context.Context, employeeID string, reqType string, date time.Time) ([]request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE employee_id = $1
		  AND type = $2
		  AND status = $3
		  AND date = $4
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, reqType, request.StatusApproved, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListApprovedForDateRange implements request.RequestRepository.
func (r *requestRepository) ListApprovedForDateRange(ctx context.Context, employeeID string, reqType string, start, end time.Time) ([]request.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE employee_id = $1
		  AND type = $2
		  AND status = $3
		  AND date >= $4
		  AND date <= $5
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, reqType, request.StatusApproved, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved requests for range: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]request.Request, error) {
	var requests []request.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}
	return requests, nil
}
