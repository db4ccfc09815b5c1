package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/attendance"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/sse"
)

const (
	testEmployeeID = "emp-1"
	testSessionID  = "sess-1"

	// Office fence center.
	officeLat = -6.200000
	officeLon = 106.816666
)

// A point well outside the 100m office fence (~15km away).
const (
	outsideLat = -6.3
	outsideLon = 106.9
)

type fakeSessionRepo struct {
	open   *attendance.Session
	closed []closedSession
}

type closedSession struct {
	ID     string
	Status string
	Reason *string
}

func (f *fakeSessionRepo) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	s.ID = testSessionID
	f.open = &s
	return s, nil
}

func (f *fakeSessionRepo) Close(ctx context.Context, sessionID string, checkOut time.Time, status string, reason *string) error {
	if f.open == nil || f.open.ID != sessionID {
		return attendance.ErrSessionNotFound
	}
	f.closed = append(f.closed, closedSession{ID: sessionID, Status: status, Reason: reason})
	f.open = nil
	return nil
}

func (f *fakeSessionRepo) GetOpenSession(ctx context.Context, employeeID string) (attendance.Session, error) {
	if f.open == nil || f.open.EmployeeID != employeeID {
		return attendance.Session{}, attendance.ErrNoOpenSession
	}
	return *f.open, nil
}

func (f *fakeSessionRepo) ListStaleOpenSessions(ctx context.Context, before time.Time) ([]attendance.Session, error) {
	return nil, nil
}

func (f *fakeSessionRepo) ListForDate(ctx context.Context, employeeID string, date time.Time) ([]attendance.Session, error) {
	return nil, nil
}

func (f *fakeSessionRepo) ListForDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Session, error) {
	return nil, nil
}

type fakeStateRepo struct {
	states map[string]tracking.TrackingState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{states: make(map[string]tracking.TrackingState)}
}

func (f *fakeStateRepo) Get(ctx context.Context, employeeID string) (tracking.TrackingState, error) {
	state, ok := f.states[employeeID]
	if !ok {
		return tracking.TrackingState{}, tracking.ErrNotTracking
	}
	return state, nil
}

func (f *fakeStateRepo) Upsert(ctx context.Context, state tracking.TrackingState) error {
	f.states[state.EmployeeID] = state
	return nil
}

func (f *fakeStateRepo) Delete(ctx context.Context, employeeID string) error {
	delete(f.states, employeeID)
	return nil
}

type fakePingRepo struct {
	pings []tracking.Ping
}

func (f *fakePingRepo) Append(ctx context.Context, ping tracking.Ping) error {
	f.pings = append(f.pings, ping)
	return nil
}

func (f *fakePingRepo) ListForDate(ctx context.Context, employeeID string, date time.Time) ([]tracking.Ping, error) {
	return f.pings, nil
}

type fakeFenceRepo struct {
	fences []tracking.Fence
}

func (f *fakeFenceRepo) ListActive(ctx context.Context, branchID *string) ([]tracking.Fence, error) {
	return f.fences, nil
}

func (f *fakeFenceRepo) GetByID(ctx context.Context, id string) (tracking.Fence, error) {
	for _, fence := range f.fences {
		if fence.ID == id {
			return fence, nil
		}
	}
	return tracking.Fence{}, tracking.ErrFenceNotFound
}

func (f *fakeFenceRepo) ListAll(ctx context.Context) ([]tracking.Fence, error) {
	return f.fences, nil
}

func (f *fakeFenceRepo) Create(ctx context.Context, fence tracking.Fence) (tracking.Fence, error) {
	f.fences = append(f.fences, fence)
	return fence, nil
}

func (f *fakeFenceRepo) Update(ctx context.Context, fence tracking.Fence) error { return nil }
func (f *fakeFenceRepo) Delete(ctx context.Context, id string) error            { return nil }

type fakeEmployeeRepo struct {
	emp employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if id != f.emp.ID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return f.emp, nil
}

func (f *fakeEmployeeRepo) GetByEmployeeCode(ctx context.Context, code string) (employee.Employee, error) {
	return f.emp, nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	return []employee.Employee{f.emp}, nil
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return []employee.Employee{f.emp}, nil
}

func (f *fakeEmployeeRepo) SetFaceEnrolled(ctx context.Context, id string, enrolled bool) error {
	return nil
}

type fakeSettingsRepo struct {
	policy settings.AttendancePolicy
}

func (f *fakeSettingsRepo) GetAttendancePolicy(ctx context.Context) (settings.AttendancePolicy, error) {
	return f.policy, nil
}

func (f *fakeSettingsRepo) UpdateAttendancePolicy(ctx context.Context, policy settings.AttendancePolicy) error {
	return nil
}

type trackingFixture struct {
	service  *TrackingServiceImpl
	sessions *fakeSessionRepo
	states   *fakeStateRepo
	pings    *fakePingRepo
}

func newTrackingFixture(t *testing.T) *trackingFixture {
	t.Helper()

	sessions := &fakeSessionRepo{}
	states := newFakeStateRepo()
	pings := &fakePingRepo{}

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	checkIn := now.Add(-time.Hour)
	sessions.open = &attendance.Session{
		ID:         testSessionID,
		EmployeeID: testEmployeeID,
		Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CheckIn:    checkIn,
		Status:     attendance.StatusOpen,
	}

	svc := &TrackingServiceImpl{
		sessionRepo: sessions,
		stateRepo:   states,
		pingRepo:    pings,
		fenceRepo: &fakeFenceRepo{fences: []tracking.Fence{
			{ID: "fence-1", Name: "HQ", Latitude: officeLat, Longitude: officeLon, RadiusMeters: 100, IsActive: true},
		}},
		employeeRepo: &fakeEmployeeRepo{emp: employee.Employee{ID: testEmployeeID, EmploymentStatus: employee.StatusActive}},
		settingsRepo: &fakeSettingsRepo{policy: settings.Default()},
		hub:          sse.NewHub(),
		now:          func() time.Time { return now },
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}

	return &trackingFixture{service: svc, sessions: sessions, states: states, pings: pings}
}

func ping(lat, lon float64) tracking.PingRequest {
	return tracking.PingRequest{
		EmployeeID: testEmployeeID,
		Latitude:   lat,
		Longitude:  lon,
	}
}

func TestHandlePingWithoutOpenSessionIsNoOp(t *testing.T) {
	fx := newTrackingFixture(t)
	fx.sessions.open = nil

	result, err := fx.service.HandlePing(context.Background(), ping(officeLat, officeLon))

	require.NoError(t, err)
	assert.False(t, result.Tracking)
	assert.False(t, result.AutoCheckedOut)
	assert.Empty(t, fx.pings.pings, "unprocessed pings must not be logged")
}

func TestHandlePingInsideFence(t *testing.T) {
	fx := newTrackingFixture(t)

	result, err := fx.service.HandlePing(context.Background(), ping(officeLat, officeLon))

	require.NoError(t, err)
	assert.True(t, result.Tracking)
	assert.True(t, result.InsideFence)
	assert.Zero(t, result.OutsideCount)
	assert.Len(t, fx.pings.pings, 1)

	state, err := fx.states.Get(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.True(t, state.InsideGeofence)
	assert.Zero(t, state.OutsideGeofenceCount)
}

func TestHandlePingAutoCheckoutOnFifthOutsidePing(t *testing.T) {
	fx := newTrackingFixture(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		result, err := fx.service.HandlePing(ctx, ping(outsideLat, outsideLon))
		require.NoError(t, err)
		assert.True(t, result.Tracking, "ping %d must not end tracking", i)
		assert.False(t, result.AutoCheckedOut)
		assert.Equal(t, i, result.OutsideCount)
	}

	result, err := fx.service.HandlePing(ctx, ping(outsideLat, outsideLon))
	require.NoError(t, err)
	assert.False(t, result.Tracking)
	assert.True(t, result.AutoCheckedOut)
	assert.Equal(t, 5, result.OutsideCount)

	require.Len(t, fx.sessions.closed, 1)
	assert.Equal(t, attendance.StatusAutoClosed, fx.sessions.closed[0].Status)
	require.NotNil(t, fx.sessions.closed[0].Reason)
	assert.Equal(t, attendance.ReasonOutsideGeofence, *fx.sessions.closed[0].Reason)

	_, err = fx.states.Get(ctx, testEmployeeID)
	assert.ErrorIs(t, err, tracking.ErrNotTracking)

	// All five pings were persisted, including the one that closed the
	// session.
	assert.Len(t, fx.pings.pings, 5)
}

func TestHandlePingInsideResetsOutsideStreak(t *testing.T) {
	fx := newTrackingFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := fx.service.HandlePing(ctx, ping(outsideLat, outsideLon))
		require.NoError(t, err)
	}

	result, err := fx.service.HandlePing(ctx, ping(officeLat, officeLon))
	require.NoError(t, err)
	assert.True(t, result.Tracking)
	assert.False(t, result.AutoCheckedOut)
	assert.Zero(t, result.OutsideCount)

	assert.Empty(t, fx.sessions.closed, "inside ping must not close the session")

	state, err := fx.states.Get(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Zero(t, state.OutsideGeofenceCount)

	// The streak starts over after the reset.
	for i := 1; i <= 4; i++ {
		result, err := fx.service.HandlePing(ctx, ping(outsideLat, outsideLon))
		require.NoError(t, err)
		assert.Equal(t, i, result.OutsideCount)
		assert.False(t, result.AutoCheckedOut)
	}
}

func TestGetLiveStatusNoOpenSession(t *testing.T) {
	fx := newTrackingFixture(t)
	fx.sessions.open = nil

	status, err := fx.service.GetLiveStatus(context.Background(), testEmployeeID)

	require.NoError(t, err)
	assert.False(t, status.Tracking)
	assert.False(t, status.Stale)
	assert.False(t, status.Resumable)
}

func TestGetLiveStatusStaleness(t *testing.T) {
	tests := []struct {
		name          string
		gap           time.Duration
		wantTracking  bool
		wantStale     bool
		wantResumable bool
	}{
		{"fresh ping", 2 * time.Minute, true, false, true},
		{"just past staleness timeout", 11 * time.Minute, false, true, true},
		{"past resume window", 31 * time.Minute, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newTrackingFixture(t)
			now := fx.service.now()

			fx.states.states[testEmployeeID] = tracking.TrackingState{
				EmployeeID:     testEmployeeID,
				LastPingAt:     now.Add(-tt.gap),
				InsideGeofence: true,
			}

			status, err := fx.service.GetLiveStatus(context.Background(), testEmployeeID)

			require.NoError(t, err)
			assert.Equal(t, tt.wantTracking, status.Tracking)
			assert.Equal(t, tt.wantStale, status.Stale)
			assert.Equal(t, tt.wantResumable, status.Resumable)
		})
	}
}

func TestGetLiveStatusLeavesSessionOpenWhenStale(t *testing.T) {
	fx := newTrackingFixture(t)
	now := fx.service.now()

	fx.states.states[testEmployeeID] = tracking.TrackingState{
		EmployeeID: testEmployeeID,
		LastPingAt: now.Add(-time.Hour),
	}

	_, err := fx.service.GetLiveStatus(context.Background(), testEmployeeID)

	require.NoError(t, err)
	assert.NotNil(t, fx.sessions.open, "staleness is a read-time correction only")
	assert.Empty(t, fx.sessions.closed)
}

func TestCheckGeofenceReportsClosestFence(t *testing.T) {
	fx := newTrackingFixture(t)

	resp, err := fx.service.CheckGeofence(context.Background(), tracking.GeofenceCheckRequest{
		Latitude:  outsideLat,
		Longitude: outsideLon,
	})

	require.NoError(t, err)
	assert.False(t, resp.IsWithin)
	assert.Equal(t, "fence-1", resp.ClosestFenceID)
	assert.Equal(t, "HQ", resp.ClosestFence)
	assert.Greater(t, resp.DistanceMeters, 100.0)
}

func TestCheckGeofenceInside(t *testing.T) {
	fx := newTrackingFixture(t)

	resp, err := fx.service.CheckGeofence(context.Background(), tracking.GeofenceCheckRequest{
		Latitude:  officeLat,
		Longitude: officeLon,
	})

	require.NoError(t, err)
	assert.True(t, resp.IsWithin)
	assert.Equal(t, "fence-1", resp.ClosestFenceID)
}

func TestCheckGeofenceNoActiveFences(t *testing.T) {
	fx := newTrackingFixture(t)
	fx.service.fenceRepo = &fakeFenceRepo{}

	_, err := fx.service.CheckGeofence(context.Background(), tracking.GeofenceCheckRequest{
		Latitude:  officeLat,
		Longitude: officeLon,
	})

	assert.ErrorIs(t, err, tracking.ErrNoActiveFences)
}
