package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	ExportEmployeeAttendance(w http.ResponseWriter, r *http.Request)
	ExportBranchAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// ExportEmployeeAttendance implements ReportHandler.
func (h *reportHandlerImpl) ExportEmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")

	file, err := h.reportService.ExportEmployeeAttendance(r.Context(), middleware.SessionFrom(r.Context()), employeeID)
	if err != nil {
		slog.Error("ExportEmployeeAttendance service error", "error", err, "employee_id", employeeID)
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, report.ContentTypeXLSX, file.Data)
}

// ExportBranchAttendance implements ReportHandler.
func (h *reportHandlerImpl) ExportBranchAttendance(w http.ResponseWriter, r *http.Request) {
	branchName := chi.URLParam(r, "branch")

	file, err := h.reportService.ExportBranchAttendance(r.Context(), middleware.SessionFrom(r.Context()), branchName)
	if err != nil {
		slog.Error("ExportBranchAttendance service error", "error", err, "branch", branchName)
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, report.ContentTypeXLSX, file.Data)
}
