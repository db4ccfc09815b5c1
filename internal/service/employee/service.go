package employee

import (
	"context"
	"fmt"

	"github.com/presenza-hq/presenza-backend-go/internal/domain/employee"
	"github.com/presenza-hq/presenza-backend-go/internal/pkg/facematch"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	faceService  facematch.Service
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, faceService facematch.Service) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		faceService:  faceService,
	}
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toEmployeeResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, toEmployeeResponse(emp))
	}

	return responses, nil
}

// EnrollFace implements employee.EmployeeService. Enrollment registers the
// photo with the recognition service first; the enrolled flag is only set
// after that succeeds.
func (s *EmployeeServiceImpl) EnrollFace(ctx context.Context, req employee.EnrollFaceRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.faceService.Enroll(ctx, emp.ID, req.File, req.FileHeader.Filename); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to enroll face: %w", err)
	}

	if err := s.employeeRepo.SetFaceEnrolled(ctx, emp.ID, true); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp.FaceEnrolled = true
	return toEmployeeResponse(emp), nil
}

func toEmployeeResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:               emp.ID,
		FullName:         emp.FullName,
		EmployeeCode:     emp.EmployeeCode,
		Email:            emp.Email,
		Phone:            emp.Phone,
		BranchID:         emp.BranchID,
		Position:         emp.Position,
		FaceEnrolled:     emp.FaceEnrolled,
		EmploymentStatus: emp.EmploymentStatus,
	}
}
