package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type AuthHandler interface {
	LoginBranch(w http.ResponseWriter, r *http.Request)
	LoginEmployee(w http.ResponseWriter, r *http.Request)
	RegisterBranch(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// LoginBranch implements AuthHandler.
func (a *AuthHandlerImpl) LoginBranch(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.BranchLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("LoginBranch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokenResponse, err := a.authService.LoginBranch(r.Context(), loginReq)
	if err != nil {
		slog.Error("LoginBranch service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", tokenResponse)
}

// LoginEmployee implements AuthHandler.
func (a *AuthHandlerImpl) LoginEmployee(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.EmployeeLoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("LoginEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokenResponse, err := a.authService.LoginEmployee(r.Context(), loginReq)
	if err != nil {
		slog.Error("LoginEmployee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", tokenResponse)
}

// RegisterBranch implements AuthHandler.
func (a *AuthHandlerImpl) RegisterBranch(w http.ResponseWriter, r *http.Request) {
	if err := middleware.SessionFrom(r.Context()).RequireBranch(); err != nil {
		response.HandleError(w, err)
		return
	}

	var registerReq branch.RegisterBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		slog.Error("RegisterBranch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := registerReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := a.authService.RegisterBranch(r.Context(), registerReq)
	if err != nil {
		slog.Error("RegisterBranch service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Branch registered successfully", created)
}
