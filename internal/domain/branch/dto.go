package branch

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// BranchResponse represents the response structure for a branch.
type BranchResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

// RegisterBranchRequest represents the request structure for registering a branch.
type RegisterBranchRequest struct {
	Name     string `json:"branch_name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6,max=255"`
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

func (r *RegisterBranchRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Timezone = strings.TrimSpace(r.Timezone)

	errs := validator.Struct(r)
	if strings.ContainsAny(r.Name, "/?#") {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_name",
			Message: "branch_name must not contain '/', '?' or '#'",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func NewBranchResponse(b Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Timezone:  b.Timezone,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
