package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/request"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/validator"
)

type fakeRequestRepo struct {
	byID map[string]request.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{byID: make(map[string]request.Request)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, r request.Request) (request.Request, error) {
	r.ID = "req-1"
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (request.Request, error) {
	r, ok := f.byID[id]
	if !ok {
		return request.Request{}, request.ErrRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) Decide(ctx context.Context, id string, status string, decidedBy string, decidedAt time.Time) error {
	r, ok := f.byID[id]
	if !ok {
		return request.ErrRequestNotFound
	}
	if r.Status != request.StatusPending {
		return request.ErrRequestAlreadyProcessed
	}
	r.Status = status
	r.DecidedBy = &decidedBy
	r.DecidedAt = &decidedAt
	f.byID[id] = r
	return nil
}

func (f *fakeRequestRepo) List(ctx context.Context, filter request.RequestFilter) ([]request.Request, error) {
	var out []request.Request
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestRepo) ListApprovedForDate(ctx context.Context, employeeID string, reqType string, date time.Time) ([]request.Request, error) {
	return nil, nil
}

func (f *fakeRequestRepo) ListApprovedForDateRange(ctx context.Context, employeeID string, reqType string, start, end time.Time) ([]request.Request, error) {
	return nil, nil
}

type fakeEmployeeRepo struct{}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if id != "emp-1" {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id, EmploymentStatus: employee.StatusActive}, nil
}

func (f *fakeEmployeeRepo) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error)       { return nil, nil }
func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) { return nil, nil }
func (f *fakeEmployeeRepo) SetFaceEnrolled(ctx context.Context, id string, enrolled bool) error {
	return nil
}

func newService(repo *fakeRequestRepo) *RequestServiceImpl {
	return &RequestServiceImpl{
		requestRepo:  repo,
		employeeRepo: &fakeEmployeeRepo{},
		now:          func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) },
	}
}

func TestCreateRequest(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := newService(repo)

	thirty := 30
	resp, err := svc.Create(context.Background(), request.CreateRequestRequest{
		EmployeeID:      "emp-1",
		Type:            request.TypePermission,
		Date:            "2026-03-05",
		DurationMinutes: &thirty,
	})

	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, resp.Status)
	assert.Equal(t, "2026-03-05", resp.Date)
}

func TestCreatePermissionRequiresDuration(t *testing.T) {
	svc := newService(newFakeRequestRepo())

	_, err := svc.Create(context.Background(), request.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       request.TypePermission,
		Date:       "2026-03-05",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestDecideTransitionsExactlyOnce(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := newService(repo)

	leaveType := "Annual"
	created, err := svc.Create(context.Background(), request.CreateRequestRequest{
		EmployeeID: "emp-1",
		Type:       request.TypeLeave,
		Date:       "2026-03-05",
		LeaveType:  &leaveType,
	})
	require.NoError(t, err)

	decided, err := svc.Approve(context.Background(), request.DecideRequestRequest{
		ID:        created.ID,
		DecidedBy: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, "admin-1", *decided.DecidedBy)

	// A decided request is immutable.
	_, err = svc.Reject(context.Background(), request.DecideRequestRequest{
		ID:        created.ID,
		DecidedBy: "admin-2",
	})
	assert.ErrorIs(t, err, request.ErrRequestAlreadyProcessed)
}
