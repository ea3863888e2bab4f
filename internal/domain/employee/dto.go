package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,min=6,max=255"`
	// Branch defaults to the admin's own branch when omitted.
	Branch string `json:"branch,omitempty" validate:"omitempty,max=100"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.Branch = strings.TrimSpace(r.Branch)

	errs := validator.Struct(r)
	if !validator.IsEmpty(r.Email) && !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	BranchID  string `json:"branch_id"`
	CreatedAt string `json:"created_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Email:     e.Email,
		BranchID:  e.BranchID,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NormalizeEmail lower-cases and trims an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
