package report

import (
	"context"
	"fmt"
	"time"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/attendance"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/report"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/request"
	"github.com/presenza-hq/presenza-backend-go/internal/domain/settings"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/validator"
)

type ReportServiceImpl struct {
	sessionRepo  attendance.SessionRepository
	requestRepo  request.RequestRepository
	employeeRepo employee.EmployeeRepository
	settingsRepo settings.SettingsRepository
	now          func() time.Time
}

func NewReportService(
	sessionRepo attendance.SessionRepository,
	requestRepo request.RequestRepository,
	employeeRepo employee.EmployeeRepository,
	settingsRepo settings.SettingsRepository,
) report.ReportService {
	return &ReportServiceImpl{
		sessionRepo:  sessionRepo,
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

// GetDailyStatus implements report.ReportService.
func (s *ReportServiceImpl) GetDailyStatus(ctx context.Context, employeeID string, date time.Time) (report.DailyStatus, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return report.DailyStatus{}, err
	}

	day := dayOf(date)

	sessions, err := s.sessionRepo.ListForDate(ctx, employeeID, day)
	if err != nil {
		return report.DailyStatus{}, fmt.Errorf("failed to load sessions: %w", err)
	}

	leave, permission, err := s.approvedRequests(ctx, employeeID, day)
	if err != nil {
		return report.DailyStatus{}, err
	}

	status := ResolveDailyStatus(StatusInput{
		Date:       day,
		Now:        s.now(),
		CheckIn:    envelopeIn(sessions),
		CheckOut:   envelopeOut(sessions),
		Leave:      leave,
		Permission: permission,
		Policy:     s.policy(ctx),
	})
	status.EmployeeID = emp.ID
	status.EmployeeName = emp.FullName

	return status, nil
}

// GetRangeReport implements report.ReportService. Each employee's sessions
// and requests are fetched once for the whole range, then classified day by
// day.
func (s *ReportServiceImpl) GetRangeReport(ctx context.Context, filter report.RangeFilter) ([]report.DailyStatus, error) {
	start, end, err := parseRange(filter)
	if err != nil {
		return nil, err
	}

	employees, err := s.scopedEmployees(ctx, filter.EmployeeID)
	if err != nil {
		return nil, err
	}

	policy := s.policy(ctx)
	now := s.now()

	var results []report.DailyStatus
	for _, emp := range employees {
		sessions, err := s.sessionRepo.ListForDateRange(ctx, emp.ID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load sessions for range: %w", err)
		}
		leaves, err := s.requestRepo.ListApprovedForDateRange(ctx, emp.ID, request.TypeLeave, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load leave requests: %w", err)
		}
		permissions, err := s.requestRepo.ListApprovedForDateRange(ctx, emp.ID, request.TypePermission, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load permission requests: %w", err)
		}

		sessionsByDay := groupSessionsByDay(sessions)
		leavesByDay := groupRequestsByDay(leaves)
		permissionsByDay := groupRequestsByDay(permissions)

		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			key := day.Format("2006-01-02")
			daySessions := sessionsByDay[key]

			status := ResolveDailyStatus(StatusInput{
				Date:       day,
				Now:        now,
				CheckIn:    envelopeIn(daySessions),
				CheckOut:   envelopeOut(daySessions),
				Leave:      leavesByDay[key],
				Permission: permissionsByDay[key],
				Policy:     policy,
			})
			status.EmployeeID = emp.ID
			status.EmployeeName = emp.FullName

			results = append(results, status)
		}
	}

	return results, nil
}

func (s *ReportServiceImpl) scopedEmployees(ctx context.Context, employeeID string) ([]employee.Employee, error) {
	if employeeID != "" {
		emp, err := s.employeeRepo.GetByID(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		return []employee.Employee{emp}, nil
	}
	return s.employeeRepo.ListActive(ctx)
}

func (s *ReportServiceImpl) approvedRequests(ctx context.Context, employeeID string, day time.Time) (*request.Request, *request.Request, error) {
	leaves, err := s.requestRepo.ListApprovedForDate(ctx, employeeID, request.TypeLeave, day)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load leave requests: %w", err)
	}
	permissions, err := s.requestRepo.ListApprovedForDate(ctx, employeeID, request.TypePermission, day)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load permission requests: %w", err)
	}
	return firstRequest(leaves), firstRequest(permissions), nil
}

// policy loads the stored attendance policy, falling back to the built-in
// default so a report never hard-fails on missing settings.
func (s *ReportServiceImpl) policy(ctx context.Context) settings.AttendancePolicy {
	policy, err := s.settingsRepo.GetAttendancePolicy(ctx)
	if err != nil {
		return settings.Default()
	}
	return policy
}

func parseRange(filter report.RangeFilter) (time.Time, time.Time, error) {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(filter.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}
	end, ok := validator.IsValidDate(filter.EndDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return time.Time{}, time.Time{}, errs
	}

	return start, end, nil
}

// envelopeIn returns the earliest check-in across the day's sessions.
func envelopeIn(sessions []attendance.Session) *time.Time {
	var first *time.Time
	for i := range sessions {
		t := sessions[i].CheckIn
		if first == nil || t.Before(*first) {
			first = &t
		}
	}
	return first
}

// envelopeOut returns the latest check-out, or nil while any session on the
// day is still open.
func envelopeOut(sessions []attendance.Session) *time.Time {
	if len(sessions) == 0 {
		return nil
	}
	var last *time.Time
	for i := range sessions {
		if sessions[i].CheckOut == nil {
			return nil
		}
		t := *sessions[i].CheckOut
		if last == nil || t.After(*last) {
			last = &t
		}
	}
	return last
}

func groupSessionsByDay(sessions []attendance.Session) map[string][]attendance.Session {
	byDay := make(map[string][]attendance.Session)
	for _, s := range sessions {
		key := s.Date.Format("2006-01-02")
		byDay[key] = append(byDay[key], s)
	}
	return byDay
}

func groupRequestsByDay(requests []request.Request) map[string]*request.Request {
	byDay := make(map[string]*request.Request)
	for i := range requests {
		key := requests[i].Date.Format("2006-01-02")
		if _, ok := byDay[key]; !ok {
			byDay[key] = &requests[i]
		}
	}
	return byDay
}

func firstRequest(requests []request.Request) *request.Request {
	if len(requests) == 0 {
		return nil
	}
	return &requests[0]
}
