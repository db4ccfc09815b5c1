package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeInactive   = errors.New("employee is not active")
	ErrFaceNotEnrolled    = errors.New("employee has no enrolled face")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
)
