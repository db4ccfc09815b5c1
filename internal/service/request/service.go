package request

import (
	"context"
	"time"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/request"
)

type RequestServiceImpl struct {
	requestRepo  request.RequestRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewRequestService(
	requestRepo request.RequestRepository,
	employeeRepo employee.EmployeeRepository,
) request.RequestService {
	return &RequestServiceImpl{
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// Create implements request.RequestService.
func (s *RequestServiceImpl) Create(ctx context.Context, req request.CreateRequestRequest) (request.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return request.RequestResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return request.RequestResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	created, err := s.requestRepo.Create(ctx, request.Request{
		EmployeeID:      req.EmployeeID,
		Type:            req.Type,
		Status:          request.StatusPending,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		LeaveType:       req.LeaveType,
		Amount:          req.Amount,
		Reason:          req.Reason,
	})
	if err != nil {
		return request.RequestResponse{}, err
	}

	return toRequestResponse(created), nil
}

// Approve implements request.RequestService.
func (s *RequestServiceImpl) Approve(ctx context.Context, req request.DecideRequestRequest) (request.RequestResponse, error) {
	return s.decide(ctx, req, request.StatusApproved)
}

// Reject implements request.RequestService.
func (s *RequestServiceImpl) Reject(ctx context.Context, req request.DecideRequestRequest) (request.RequestResponse, error) {
	return s.decide(ctx, req, request.StatusRejected)
}

// decide performs the single PENDING to APPROVED/REJECTED transition. The
// repository refuses re-decisions, so a decided request stays immutable.
func (s *RequestServiceImpl) decide(ctx context.Context, req request.DecideRequestRequest, status string) (request.RequestResponse, error) {
	if err := s.requestRepo.Decide(ctx, req.ID, status, req.DecidedBy, s.now()); err != nil {
		return request.RequestResponse{}, err
	}

	decided, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return request.RequestResponse{}, err
	}

	return toRequestResponse(decided), nil
}

// List implements request.RequestService.
func (s *RequestServiceImpl) List(ctx context.Context, filter request.RequestFilter) ([]request.RequestResponse, error) {
	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]request.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toRequestResponse(r))
	}

	return responses, nil
}

func toRequestResponse(r request.Request) request.RequestResponse {
	resp := request.RequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Type:            r.Type,
		Status:          r.Status,
		Date:            r.Date.Format("2006-01-02"),
		DurationMinutes: r.DurationMinutes,
		LeaveType:       r.LeaveType,
		Amount:          r.Amount,
		Reason:          r.Reason,
		DecidedBy:       r.DecidedBy,
	}

	if r.DecidedAt != nil {
		decidedAt := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedAt
	}

	return resp
}
