package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

type authFixture struct {
	svc   *AuthServiceImpl
	jwt   jwt.Service
	store *memory.Store
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp)
	require.NoError(t, err)

	store := memory.NewStore()
	svc := NewAuthService(store.Branches(), store.Employees(), jwtService, "UTC").(*AuthServiceImpl)
	svc.bcryptCost = bcrypt.MinCost

	return authFixture{svc: svc, jwt: jwtService, store: store}
}

func (f authFixture) addEmployee(t *testing.T, branchID, email, password string) employee.Employee {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	e, err := f.store.Employees().Create(context.Background(), employee.Employee{
		ID:           "emp-" + email,
		Email:        email,
		PasswordHash: string(hash),
		BranchID:     branchID,
	})
	require.NoError(t, err)
	return e
}

func TestAuthService_RegisterBranch_Success(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.RegisterBranch(context.Background(), branch.RegisterBranchRequest{
		Name:     "  Pune ",
		Password: "secret1",
		Timezone: "Asia/Kolkata",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Pune", resp.Name)
	assert.Equal(t, "Asia/Kolkata", resp.Timezone)

	stored, err := f.store.Branches().GetByName(context.Background(), "Pune")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestAuthService_RegisterBranch_DefaultTimezone(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.svc.RegisterBranch(context.Background(), branch.RegisterBranchRequest{Name: "Pune", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "UTC", resp.Timezone)
}

func TestAuthService_RegisterBranch_DuplicateName(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterBranch(ctx, branch.RegisterBranchRequest{Name: "Pune", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.RegisterBranch(ctx, branch.RegisterBranchRequest{Name: "Pune", Password: "other12"})
	assert.ErrorIs(t, err, branch.ErrBranchNameExists)
}

func TestAuthService_RegisterBranch_ValidationError(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.RegisterBranch(context.Background(), branch.RegisterBranchRequest{Name: "", Password: "123"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "branch_name")
	assert.Contains(t, verrs.ToMap(), "password")
}

func TestAuthService_LoginBranch_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.svc.RegisterBranch(ctx, branch.RegisterBranchRequest{Name: "Pune", Password: "secret1"})
	require.NoError(t, err)

	resp, err := f.svc.LoginBranch(ctx, auth.BranchLoginRequest{Name: "Pune", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, registered.ID, resp.SubjectID)

	session, err := f.jwt.ParseSession(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.SubjectBranch, session.Kind)
	assert.Equal(t, registered.ID, session.BranchID)
	assert.Equal(t, "Pune", session.BranchName)
}

func TestAuthService_LoginBranch_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterBranch(ctx, branch.RegisterBranchRequest{Name: "Pune", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.LoginBranch(ctx, auth.BranchLoginRequest{Name: "Pune", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.LoginBranch(ctx, auth.BranchLoginRequest{Name: "Mumbai", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_LoginEmployee_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	b, err := f.svc.RegisterBranch(ctx, branch.RegisterBranchRequest{Name: "Pune", Password: "secret1"})
	require.NoError(t, err)
	e := f.addEmployee(t, b.ID, "a@x.io", "pw1234")

	resp, err := f.svc.LoginEmployee(ctx, auth.EmployeeLoginRequest{Email: " A@X.io ", Password: "pw1234"})
	require.NoError(t, err)
	assert.Equal(t, e.ID, resp.SubjectID)
	assert.Equal(t, "Pune", resp.BranchName)

	session, err := f.jwt.ParseSession(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.SubjectEmployee, session.Kind)
	assert.Equal(t, e.ID, session.SubjectID)
	assert.Equal(t, b.ID, session.BranchID)
	assert.Equal(t, "a@x.io", session.Email)
}

func TestAuthService_LoginEmployee_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	b, err := f.svc.RegisterBranch(ctx, branch.RegisterBranchRequest{Name: "Pune", Password: "secret1"})
	require.NoError(t, err)
	f.addEmployee(t, b.ID, "a@x.io", "pw1234")

	_, err = f.svc.LoginEmployee(ctx, auth.EmployeeLoginRequest{Email: "a@x.io", Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.LoginEmployee(ctx, auth.EmployeeLoginRequest{Email: "ghost@x.io", Password: "pw1234"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
