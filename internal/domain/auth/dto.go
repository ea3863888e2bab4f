package auth

import "github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"

type BranchLoginRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=255"`
}

func (r *BranchLoginRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeLoginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=255"`
}

func (r *EmployeeLoginRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
	SubjectID            string `json:"subject_id"`
	BranchName           string `json:"branch_name"`
}
