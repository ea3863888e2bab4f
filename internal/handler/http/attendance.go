package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/photo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	photoService "github.com/cmlabs-hris/attendance-backend-go/internal/service/photo"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	// Employee
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	UploadPhoto(w http.ResponseWriter, r *http.Request)

	// Admin
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	ListByBranch(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), middleware.SessionFrom(r.Context()), req)
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), middleware.SessionFrom(r.Context()), req)
	if err != nil {
		slog.Error("CheckOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// GetToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetToday(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		slog.Error("GetToday service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListMyAttendance(r.Context(), middleware.SessionFrom(r.Context()))
	if err != nil {
		slog.Error("ListMyAttendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UploadPhoto implements AttendanceHandler.
func (h *attendanceHandlerImpl) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	const limit = photoService.MaxUploadSize + (1 << 20)
	if r.ContentLength > limit {
		response.HandleError(w, photo.ErrTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(photoService.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.HandleError(w, photo.ErrTooLarge)
			return
		}
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "Photo is required", map[string]string{"photo": "photo is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("UploadPhoto read error", "error", err)
		response.BadRequest(w, "Failed to read photo", nil)
		return
	}

	result, err := h.attendanceService.UploadPhoto(r.Context(), middleware.SessionFrom(r.Context()), data, header.Filename)
	if err != nil {
		slog.Error("UploadPhoto service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Photo uploaded successfully", result)
}

// ListByEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")

	result, err := h.attendanceService.ListEmployeeAttendance(r.Context(), middleware.SessionFrom(r.Context()), employeeID)
	if err != nil {
		slog.Error("ListEmployeeAttendance service error", "error", err, "employee_id", employeeID)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByBranch implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByBranch(w http.ResponseWriter, r *http.Request) {
	branchName := chi.URLParam(r, "branch")

	result, err := h.attendanceService.ListBranchAttendance(r.Context(), middleware.SessionFrom(r.Context()), branchName)
	if err != nil {
		slog.Error("ListBranchAttendance service error", "error", err, "branch", branchName)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "recordId")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.UpdateStatus(r.Context(), middleware.SessionFrom(r.Context()), req)
	if err != nil {
		slog.Error("UpdateStatus service error", "error", err, "record_id", req.ID)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance status updated", result)
}
