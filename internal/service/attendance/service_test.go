package attendance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presenza-hq/presenza-backend-go/internal/config"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/attendance"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/request"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/facematch"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/sse"
)

const testEmployeeID = "emp-1"

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeSessionRepo struct {
	sessions []attendance.Session
	nextID   int
}

func (f *fakeSessionRepo) Create(ctx context.Context, s attendance.Session) (attendance.Session, error) {
	f.nextID++
	s.ID = fmt.Sprintf("sess-%d", f.nextID)
	f.sessions = append(f.sessions, s)
	return s, nil
}

func (f *fakeSessionRepo) Close(ctx context.Context, sessionID string, checkOut time.Time, status string, reason *string) error {
	for i := range f.sessions {
		if f.sessions[i].ID == sessionID && f.sessions[i].CheckOut == nil {
			out := checkOut
			f.sessions[i].CheckOut = &out
			f.sessions[i].Status = status
			f.sessions[i].CheckOutReason = reason
			return nil
		}
	}
	return attendance.ErrSessionNotFound
}

func (f *fakeSessionRepo) GetOpenSession(ctx context.Context, employeeID string) (attendance.Session, error) {
	for i := range f.sessions {
		if f.sessions[i].EmployeeID == employeeID && f.sessions[i].CheckOut == nil {
			return f.sessions[i], nil
		}
	}
	return attendance.Session{}, attendance.ErrNoOpenSession
}

func (f *fakeSessionRepo) ListStaleOpenSessions(ctx context.Context, before time.Time) ([]attendance.Session, error) {
	var stale []attendance.Session
	for _, s := range f.sessions {
		if s.CheckOut == nil && s.Date.Before(before) {
			stale = append(stale, s)
		}
	}
	return stale, nil
}

func (f *fakeSessionRepo) ListForDate(ctx context.Context, employeeID string, date time.Time) ([]attendance.Session, error) {
	var out []attendance.Session
	for _, s := range f.sessions {
		if s.EmployeeID == employeeID && sameDay(s.Date, date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListForDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Session, error) {
	return f.sessions, nil
}

type fakeStateRepo struct {
	states map[string]tracking.TrackingState
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

type fakeRequestRepo struct {
	approved []request.Request
}

func (f *fakeRequestRepo) Create(ctx context.Context, r request.Request) (request.Request, error) {
	return r, nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (request.Request, error) {
	return request.Request{}, request.ErrRequestNotFound
}

func (f *fakeRequestRepo) Decide(ctx context.Context, id string, status string, decidedBy string, decidedAt time.Time) error {
	return nil
}

func (f *fakeRequestRepo) List(ctx context.Context, filter request.RequestFilter) ([]request.Request, error) {
	return nil, nil
}

func (f *fakeRequestRepo) ListApprovedForDate(ctx context.Context, employeeID string, reqType string, date time.Time) ([]request.Request, error) {
	var out []request.Request
	for _, r := range f.approved {
		if r.EmployeeID == employeeID && r.Type == reqType && sameDay(r.Date, date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) ListApprovedForDateRange(ctx context.Context, employeeID string, reqType string, start, end time.Time) ([]request.Request, error) {
	return nil, nil
}

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

type fakeSettingsRepo struct{}

func (f *fakeSettingsRepo) GetAttendancePolicy(ctx context.Context) (settings.AttendancePolicy, error) {
	return settings.Default(), nil
}

func (f *fakeSettingsRepo) UpdateAttendancePolicy(ctx context.Context, policy settings.AttendancePolicy) error {
	return nil
}

type fakeFaceService struct {
	match facematch.Match
	err   error
}

func (f *fakeFaceService) Identify(ctx context.Context, image io.Reader, filename string) (facematch.Match, error) {
	if f.err != nil {
		return facematch.Match{}, f.err
	}
	return f.match, nil
}

func (f *fakeFaceService) Enroll(ctx context.Context, employeeID string, image io.Reader, filename string) error {
	return nil
}

type fakeFileService struct{}

func (f *fakeFileService) UploadAttendancePhoto(ctx context.Context, employeeID string, date time.Time, file io.Reader, filename string, punch string) (string, error) {
	return "attendance/" + employeeID + "/photo.jpg", nil
}

func (f *fakeFileService) DeleteFile(ctx context.Context, path string) error { return nil }

func (f *fakeFileService) GetFileURL(ctx context.Context, path string) (string, error) {
	return path, nil
}

type fakeFile struct {
	*bytes.Reader
}

func (fakeFile) Close() error { return nil }

func facePhoto() (multipart.File, *multipart.FileHeader) {
	return fakeFile{bytes.NewReader([]byte("jpeg-bytes"))},
		&multipart.FileHeader{Filename: "face.jpg", Size: 1024}
}

type attendanceFixture struct {
	service  *AttendanceServiceImpl
	sessions *fakeSessionRepo
	states   *fakeStateRepo
	requests *fakeRequestRepo
	face     *fakeFaceService
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()

	sessions := &fakeSessionRepo{}
	states := &fakeStateRepo{states: make(map[string]tracking.TrackingState)}
	requests := &fakeRequestRepo{}
	face := &fakeFaceService{match: facematch.Match{EmployeeID: testEmployeeID, Similarity: 0.95}}

	svc := &AttendanceServiceImpl{
		sessionRepo:  sessions,
		stateRepo:    states,
		requestRepo:  requests,
		employeeRepo: &fakeEmployeeRepo{emp: employee.Employee{
			ID:               testEmployeeID,
			FullName:         "Dian Prasetyo",
			EmploymentStatus: employee.StatusActive,
		}},
		settingsRepo: &fakeSettingsRepo{},
		faceService:  face,
		fileService:  &fakeFileService{},
		hub:          sse.NewHub(),
		faceCfg:      config.FaceMatchConfig{SimilarityThreshold: 0.85},
		now:          func() time.Time { return testNow },
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}

	return &attendanceFixture{service: svc, sessions: sessions, states: states, requests: requests, face: face}
}

func checkInRequest() attendance.CheckInRequest {
	file, header := facePhoto()
	return attendance.CheckInRequest{
		Latitude:   -6.2,
		Longitude:  106.8,
		Type:       attendance.TypeOffice,
		File:       file,
		FileHeader: header,
	}
}

func checkOutRequest() attendance.CheckOutRequest {
	file, header := facePhoto()
	return attendance.CheckOutRequest{
		Latitude:   -6.2,
		Longitude:  106.8,
		File:       file,
		FileHeader: header,
	}
}

func TestCheckInCreatesOpenSession(t *testing.T) {
	fx := newAttendanceFixture(t)

	resp, err := fx.service.CheckIn(context.Background(), checkInRequest())

	require.NoError(t, err)
	assert.Equal(t, testEmployeeID, resp.EmployeeID)
	assert.Equal(t, attendance.StatusOpen, resp.Status)
	assert.Equal(t, 0.95, resp.Similarity)
	assert.NotNil(t, resp.CheckInPhotoURL)

	open, err := fx.sessions.GetOpenSession(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, attendance.TypeOffice, open.Type)
}

func TestCheckInRejectsDuplicateSameDay(t *testing.T) {
	fx := newAttendanceFixture(t)

	_, err := fx.service.CheckIn(context.Background(), checkInRequest())
	require.NoError(t, err)

	_, err = fx.service.CheckIn(context.Background(), checkInRequest())
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckInSelfHealsStaleSession(t *testing.T) {
	fx := newAttendanceFixture(t)

	// An open session left over from the previous day.
	yesterday := testNow.AddDate(0, 0, -1)
	fx.sessions.sessions = append(fx.sessions.sessions, attendance.Session{
		ID:         "sess-old",
		EmployeeID: testEmployeeID,
		Date:       time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC),
		CheckIn:    yesterday,
		Status:     attendance.StatusOpen,
	})

	resp, err := fx.service.CheckIn(context.Background(), checkInRequest())
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOpen, resp.Status)

	// The stale session was auto-closed at its own day's shift end.
	old := fx.sessions.sessions[0]
	require.NotNil(t, old.CheckOut)
	assert.Equal(t, attendance.StatusAutoClosed, old.Status)
	require.NotNil(t, old.CheckOutReason)
	assert.Equal(t, attendance.ReasonStaleSession, *old.CheckOutReason)
	assert.False(t, old.CheckOut.Before(old.CheckIn))

	// And exactly one session is open afterwards.
	open, err := fx.sessions.GetOpenSession(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.True(t, sameDay(open.Date, testNow))
}

func TestCheckInClearsGhostTrackingState(t *testing.T) {
	fx := newAttendanceFixture(t)

	// Tracking counters without any open session: the ghost-state case.
	fx.states.states[testEmployeeID] = tracking.TrackingState{
		EmployeeID:           testEmployeeID,
		OutsideGeofenceCount: 3,
	}

	_, err := fx.service.CheckIn(context.Background(), checkInRequest())
	require.NoError(t, err)

	_, err = fx.states.Get(context.Background(), testEmployeeID)
	assert.ErrorIs(t, err, tracking.ErrNotTracking)
}

func TestCheckInFaceNotMatched(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.face.err = facematch.ErrNoMatch

	_, err := fx.service.CheckIn(context.Background(), checkInRequest())
	assert.ErrorIs(t, err, attendance.ErrFaceNotMatched)
}

func TestCheckInLowSimilarity(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.face.match.Similarity = 0.5

	_, err := fx.service.CheckIn(context.Background(), checkInRequest())
	assert.ErrorIs(t, err, attendance.ErrLowSimilarity)
}

func TestCheckInInactiveEmployee(t *testing.T) {
	fx := newAttendanceFixture(t)
	fx.service.employeeRepo = &fakeEmployeeRepo{emp: employee.Employee{
		ID:               testEmployeeID,
		EmploymentStatus: employee.StatusInactive,
	}}

	_, err := fx.service.CheckIn(context.Background(), checkInRequest())
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestCheckOutClosesSession(t *testing.T) {
	fx := newAttendanceFixture(t)

	_, err := fx.service.CheckIn(context.Background(), checkInRequest())
	require.NoError(t, err)

	resp, err := fx.service.CheckOut(context.Background(), checkOutRequest())
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusClosed, resp.Status)
	require.NotNil(t, resp.CheckOutTime)

	_, err = fx.sessions.GetOpenSession(context.Background(), testEmployeeID)
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestCheckOutWithoutOpenSession(t *testing.T) {
	fx := newAttendanceFixture(t)

	_, err := fx.service.CheckOut(context.Background(), checkOutRequest())
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestComputeDurationsSumsSessionsAndPermissions(t *testing.T) {
	fx := newAttendanceFixture(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	nine := day.Add(9 * time.Hour)
	noon := day.Add(12 * time.Hour)
	one := day.Add(13 * time.Hour)
	five := day.Add(17 * time.Hour)

	fx.sessions.sessions = []attendance.Session{
		{ID: "s1", EmployeeID: testEmployeeID, Date: day, CheckIn: nine, CheckOut: &noon, Status: attendance.StatusClosed},
		{ID: "s2", EmployeeID: testEmployeeID, Date: day, CheckIn: one, CheckOut: &five, Status: attendance.StatusClosed},
	}

	thirty := 30
	fx.requests.approved = []request.Request{
		{EmployeeID: testEmployeeID, Type: request.TypePermission, Status: request.StatusApproved, Date: day, DurationMinutes: &thirty},
	}

	resp, err := fx.service.ComputeDurations(context.Background(), testEmployeeID, day)

	require.NoError(t, err)
	assert.Equal(t, 420, resp.AttendanceMinutes)
	assert.Equal(t, 30, resp.PermissionMinutes)
	assert.Equal(t, 450, resp.TotalMinutes)
}

func TestComputeDurationsCountsOpenSessionToNow(t *testing.T) {
	fx := newAttendanceFixture(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Open session started at 08:00; the fixture clock reads 09:00.
	fx.sessions.sessions = []attendance.Session{
		{ID: "s1", EmployeeID: testEmployeeID, Date: day, CheckIn: day.Add(8 * time.Hour), Status: attendance.StatusOpen},
	}

	resp, err := fx.service.ComputeDurations(context.Background(), testEmployeeID, day)

	require.NoError(t, err)
	assert.Equal(t, 60, resp.AttendanceMinutes)
	assert.Equal(t, 60, resp.TotalMinutes)
}
