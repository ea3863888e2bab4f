package auth

import "time"

type SubjectKind string

const (
	SubjectBranch   SubjectKind = "branch"
	SubjectEmployee SubjectKind = "employee"
)

// Session is the verified identity behind a request. It is built from a
// token by the HTTP layer and handed to every service call explicitly.
type Session struct {
	Kind       SubjectKind
	SubjectID  string
	BranchID   string
	BranchName string
	Email      string
	ExpiresAt  time.Time
}

// RequireBranch fails unless s belongs to a branch admin.
func (s *Session) RequireBranch() error {
	if s == nil {
		return ErrInvalidToken
	}
	if s.Kind != SubjectBranch {
		return ErrBranchAccessOnly
	}
	return nil
}

// RequireEmployee fails unless s belongs to an employee.
func (s *Session) RequireEmployee() error {
	if s == nil {
		return ErrInvalidToken
	}
	if s.Kind != SubjectEmployee {
		return ErrEmployeeAccessOnly
	}
	return nil
}

// AuthorizeBranch allows a branch admin to act on its own branch only.
func (s *Session) AuthorizeBranch(branchName string) error {
	if err := s.RequireBranch(); err != nil {
		return err
	}
	if s.BranchName != branchName {
		return ErrForbidden
	}
	return nil
}

// AuthorizeBranchID is AuthorizeBranch keyed by branch id.
func (s *Session) AuthorizeBranchID(branchID string) error {
	if err := s.RequireBranch(); err != nil {
		return err
	}
	if s.BranchID != branchID {
		return ErrForbidden
	}
	return nil
}
