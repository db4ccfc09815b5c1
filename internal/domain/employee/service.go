package employee

import "context"

type EmployeeService interface {
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)

	// EnrollFace registers a face photo with the recognition service and
	// marks the employee as enrolled.
	EnrollFace(ctx context.Context, req EnrollFaceRequest) (EmployeeResponse, error)
}
