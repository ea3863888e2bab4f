package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	branch.BranchRepository
	employee.EmployeeRepository
	jwt.Service

	defaultTimezone string
	bcryptCost      int
}

func NewAuthService(branchRepository branch.BranchRepository, employeeRepository employee.EmployeeRepository, jwtService jwt.Service, defaultTimezone string) auth.AuthService {
	return &AuthServiceImpl{
		BranchRepository:   branchRepository,
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
		defaultTimezone:    defaultTimezone,
		bcryptCost:         bcrypt.DefaultCost,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// RegisterBranch implements auth.AuthService.
func (a *AuthServiceImpl) RegisterBranch(ctx context.Context, req branch.RegisterBranchRequest) (branch.BranchResponse, error) {
	if err := req.Validate(); err != nil {
		return branch.BranchResponse{}, err
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return branch.BranchResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return branch.BranchResponse{}, fmt.Errorf("failed to generate branch id: %w", err)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = a.defaultTimezone
	}

	created, err := a.BranchRepository.Create(ctx, branch.Branch{
		ID:           id.String(),
		Name:         req.Name,
		PasswordHash: hashed,
		Timezone:     timezone,
	})
	if err != nil {
		return branch.BranchResponse{}, err
	}

	return branch.NewBranchResponse(created), nil
}

// LoginBranch implements auth.AuthService.
func (a *AuthServiceImpl) LoginBranch(ctx context.Context, req auth.BranchLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	branchData, err := a.BranchRepository.GetByName(ctx, req.Name)
	if err != nil {
		if errors.Is(err, branch.ErrBranchNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get branch by name: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(branchData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateBranchToken(branchData.ID, branchData.Name)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		SubjectID:            branchData.ID,
		BranchName:           branchData.Name,
	}, nil
}

// LoginEmployee implements auth.AuthService.
func (a *AuthServiceImpl) LoginEmployee(ctx context.Context, req auth.EmployeeLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	employeeData, err := a.EmployeeRepository.GetByEmail(ctx, employee.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employeeData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	branchData, err := a.BranchRepository.GetByID(ctx, employeeData.BranchID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee branch: %w", err)
	}

	token, expiresAt, err := a.Service.GenerateEmployeeToken(employeeData.ID, employeeData.Email, branchData.ID, branchData.Name)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		SubjectID:            employeeData.ID,
		BranchName:           branchData.Name,
	}, nil
}
