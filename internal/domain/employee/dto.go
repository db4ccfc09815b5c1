package employee

import (
	"mime/multipart"
	"strings"

	"github.com/presenza-hq/presenza-backend-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID               string  `json:"id"`
	FullName         string  `json:"full_name"`
	EmployeeCode     string  `json:"employee_code"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	BranchID         *string `json:"branch_id,omitempty"`
	Position         *string `json:"position,omitempty"`
	FaceEnrolled     bool    `json:"face_enrolled"`
	EmploymentStatus string  `json:"employment_status"`
}

type EnrollFaceRequest struct {
	EmployeeID string `json:"-"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *EnrollFaceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "face photo is required",
		})
	} else {
		filename := strings.ToLower(r.FileHeader.Filename)
		if !strings.HasSuffix(filename, ".jpg") && !strings.HasSuffix(filename, ".jpeg") && !strings.HasSuffix(filename, ".png") {
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: "invalid file type: only jpg, jpeg, png allowed",
			})
		} else if r.FileHeader.Size > 10<<20 {
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: "face photo size must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
