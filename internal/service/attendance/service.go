package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/presenza-hq/presenza-backend-go/internal/config"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/attendance"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/request"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/tracking"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/database"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/facematch"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/sse"
	"github.com/presenza-hq/presenza-backend-go/internal/repository/postgresql"
	"github.com/presenza-hq/presenza-backend-go/internal/service/file"
)

type AttendanceServiceImpl struct {
	db           *database.DB
	sessionRepo  attendance.SessionRepository
	stateRepo    tracking.TrackingStateRepository
	requestRepo  request.RequestRepository
	employeeRepo employee.EmployeeRepository
	settingsRepo settings.SettingsRepository
	faceService  facematch.Service
	fileService  file.FileService
	hub          *sse.Hub
	faceCfg      config.FaceMatchConfig
	now          func() time.Time
	inTx         func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewAttendanceService(
	db *database.DB,
	sessionRepo attendance.SessionRepository,
	stateRepo tracking.TrackingStateRepository,
	requestRepo request.RequestRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
	faceService facematch.Service,
	fileService file.FileService,
	hub *sse.Hub,
	faceCfg config.FaceMatchConfig,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:           db,
		sessionRepo:  sessionRepo,
		stateRepo:    stateRepo,
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		faceService:  faceService,
		fileService:  fileService,
		hub:          hub,
		faceCfg:      faceCfg,
		now:          time.Now,
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
				return fn(context.WithValue(ctx, "tx", tx))
			})
		},
	}
}

// CheckIn implements attendance.AttendanceService. The employee is never
// named by the client; identity comes from the face match alone.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	// The photo is read twice (identification, then storage), so buffer it.
	photo, err := io.ReadAll(req.File)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to read face photo: %w", err)
	}

	emp, similarity, err := a.identify(ctx, photo, req.FileHeader.Filename)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := a.now()
	today := dayOf(now)

	open, err := a.sessionRepo.GetOpenSession(ctx, emp.ID)
	switch {
	case err == nil && sameDay(open.Date, today):
		return attendance.SessionResponse{}, attendance.ErrAlreadyCheckedIn
	case err == nil:
		// Leftover open session from a prior day; close it transparently
		// instead of blocking the new check-in.
		if err := a.closeStaleSession(ctx, open); err != nil {
			return attendance.SessionResponse{}, err
		}
	case !errors.Is(err, attendance.ErrNoOpenSession):
		return attendance.SessionResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	photoURL, err := a.fileService.UploadAttendancePhoto(ctx, emp.ID, today, bytes.NewReader(photo), req.FileHeader.Filename, "in")
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	session := attendance.Session{
		EmployeeID:       emp.ID,
		Date:             today,
		CheckIn:          now,
		CheckInLatitude:  req.Latitude,
		CheckInLongitude: req.Longitude,
		CheckInPhotoURL:  &photoURL,
		Type:             req.Type,
		Status:           attendance.StatusOpen,
	}

	err = a.inTx(ctx, func(txCtx context.Context) error {
		created, err := a.sessionRepo.Create(txCtx, session)
		if err != nil {
			return err
		}
		session = created

		// Drop any ghost tracking counters from a desynced earlier run; the
		// first ping of this session starts fresh.
		return a.stateRepo.Delete(txCtx, emp.ID)
	})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	a.hub.Publish(sse.Event{
		EmployeeID: emp.ID,
		Event:      sse.EventCheckedIn,
		Data: map[string]interface{}{
			"session_id": session.ID,
			"check_in":   session.CheckIn.Format(time.RFC3339),
		},
	})

	resp := toSessionResponse(session)
	resp.EmployeeName = emp.FullName
	resp.Similarity = similarity

	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	photo, err := io.ReadAll(req.File)
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to read face photo: %w", err)
	}

	emp, similarity, err := a.identify(ctx, photo, req.FileHeader.Filename)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	session, err := a.sessionRepo.GetOpenSession(ctx, emp.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenSession) {
			return attendance.SessionResponse{}, attendance.ErrNoOpenSession
		}
		return attendance.SessionResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	now := a.now()

	err = a.inTx(ctx, func(txCtx context.Context) error {
		if err := a.sessionRepo.Close(txCtx, session.ID, now, attendance.StatusClosed, nil); err != nil {
			return err
		}
		return a.stateRepo.Delete(txCtx, emp.ID)
	})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	a.hub.Publish(sse.Event{
		EmployeeID: emp.ID,
		Event:      sse.EventCheckedOut,
		Data: map[string]interface{}{
			"session_id": session.ID,
			"check_out":  now.Format(time.RFC3339),
		},
	})

	session.CheckOut = &now
	session.Status = attendance.StatusClosed

	resp := toSessionResponse(session)
	resp.EmployeeName = emp.FullName
	resp.Similarity = similarity

	return resp, nil
}

// ComputeDurations implements attendance.AttendanceService. Open sessions
// count up to now; approved permission minutes for the date are added on
// top.
func (a *AttendanceServiceImpl) ComputeDurations(ctx context.Context, employeeID string, date time.Time) (attendance.DurationResponse, error) {
	day := dayOf(date)

	sessions, err := a.sessionRepo.ListForDate(ctx, employeeID, day)
	if err != nil {
		return attendance.DurationResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	now := a.now()
	attendanceMinutes := 0
	for _, session := range sessions {
		attendanceMinutes += session.DurationMinutes(now)
	}

	permissions, err := a.requestRepo.ListApprovedForDate(ctx, employeeID, request.TypePermission, day)
	if err != nil {
		return attendance.DurationResponse{}, fmt.Errorf("failed to list permissions: %w", err)
	}

	permissionMinutes := 0
	for _, p := range permissions {
		if p.DurationMinutes != nil {
			permissionMinutes += *p.DurationMinutes
		}
	}

	return attendance.DurationResponse{
		EmployeeID:        employeeID,
		Date:              day.Format("2006-01-02"),
		AttendanceMinutes: attendanceMinutes,
		PermissionMinutes: permissionMinutes,
		TotalMinutes:      attendanceMinutes + permissionMinutes,
	}, nil
}

// ListSessions implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListSessions(ctx context.Context, employeeID string, date time.Time) ([]attendance.SessionResponse, error) {
	sessions, err := a.sessionRepo.ListForDate(ctx, employeeID, dayOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]attendance.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, toSessionResponse(session))
	}

	return responses, nil
}

// identify resolves the employee from a face photo and enforces the
// similarity threshold and employment status.
func (a *AttendanceServiceImpl) identify(ctx context.Context, photo []byte, filename string) (employee.Employee, float64, error) {
	match, err := a.faceService.Identify(ctx, bytes.NewReader(photo), filename)
	if err != nil {
		if errors.Is(err, facematch.ErrNoMatch) {
			return employee.Employee{}, 0, attendance.ErrFaceNotMatched
		}
		return employee.Employee{}, 0, fmt.Errorf("failed to identify face: %w", err)
	}

	if match.Similarity < a.faceCfg.SimilarityThreshold {
		return employee.Employee{}, 0, attendance.ErrLowSimilarity
	}

	emp, err := a.employeeRepo.GetByID(ctx, match.EmployeeID)
	if err != nil {
		return employee.Employee{}, 0, err
	}

	if emp.EmploymentStatus != employee.StatusActive {
		return employee.Employee{}, 0, employee.ErrEmployeeInactive
	}

	return emp, match.Similarity, nil
}

// closeStaleSession auto-closes a prior-day session at that day's shift end,
// clamped so the check-out never precedes the check-in.
func (a *AttendanceServiceImpl) closeStaleSession(ctx context.Context, session attendance.Session) error {
	policy, err := a.settingsRepo.GetAttendancePolicy(ctx)
	if err != nil {
		policy = settings.Default()
	}

	day := dayOf(session.Date)
	closeAt := day.Add(time.Duration(policy.WorkEndMinutes()) * time.Minute)
	if closeAt.Before(session.CheckIn) {
		closeAt = session.CheckIn
	}

	reason := attendance.ReasonStaleSession

	err = a.inTx(ctx, func(txCtx context.Context) error {
		if err := a.sessionRepo.Close(txCtx, session.ID, closeAt, attendance.StatusAutoClosed, &reason); err != nil {
			return err
		}
		return a.stateRepo.Delete(txCtx, session.EmployeeID)
	})
	if err != nil {
		return fmt.Errorf("failed to close stale session: %w", err)
	}

	return nil
}

func toSessionResponse(session attendance.Session) attendance.SessionResponse {
	resp := attendance.SessionResponse{
		ID:               session.ID,
		EmployeeID:       session.EmployeeID,
		Date:             session.Date.Format("2006-01-02"),
		CheckInTime:      session.CheckIn.Format("2006-01-02 15:04:05"),
		CheckInLatitude:  session.CheckInLatitude,
		CheckInLongitude: session.CheckInLongitude,
		CheckInPhotoURL:  session.CheckInPhotoURL,
		Type:             session.Type,
		Status:           session.Status,
		CheckOutReason:   session.CheckOutReason,
	}

	if session.CheckOut != nil {
		out := session.CheckOut.Format("2006-01-02 15:04:05")
		resp.CheckOutTime = &out
	}

	return resp
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
