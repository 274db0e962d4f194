package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	MonthlySummary(w http.ResponseWriter, r *http.Request)

	// HR
	PeriodReport(w http.ResponseWriter, r *http.Request)
	ExportPeriodReport(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, clock func() time.Time) AttendanceHandler {
	if clock == nil {
		clock = time.Now
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		now:               clock,
	}
}

// decodeRecordRequest fills the parts of the request the client does not own.
func (h *attendanceHandlerImpl) decodeRecordRequest(w http.ResponseWriter, r *http.Request) (attendance.RecordAttendanceRequest, bool) {
	var req attendance.RecordAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode attendance request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}
	req.EmployeeID = middleware.EmployeeID(r.Context())
	req.Timestamp = h.now()
	return req, true
}

// Record implements AttendanceHandler.
func (h *attendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRecordRequest(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if attendance.Action(req.Action) == attendance.ActionCheckIn {
		response.Created(w, "Check in successful", result)
		return
	}
	response.SuccessWithMessage(w, "Check out successful", result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRecordRequest(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRecordRequest(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetToday(r.Context(), middleware.EmployeeID(r.Context()), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	filter := attendance.HistoryFilter{
		StartDate: optionalQueryParam(r, "start_date"),
		EndDate:   optionalQueryParam(r, "end_date"),
		Status:    optionalQueryParam(r, "status"),
		Page:      getIntQueryParam(r, "page", 1),
		Limit:     getIntQueryParam(r, "limit", 20),
	}

	result, err := h.attendanceService.GetHistory(r.Context(), middleware.EmployeeID(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// MonthlySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year := getIntQueryParam(r, "year", now.Year())
	month := getIntQueryParam(r, "month", int(now.Month()))

	result, err := h.attendanceService.GetMonthlySummary(r.Context(), middleware.EmployeeID(r.Context()), year, time.Month(month))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func reportFilterFromQuery(r *http.Request) attendance.ReportFilter {
	query := r.URL.Query()
	return attendance.ReportFilter{
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		EmployeeID: optionalQueryParam(r, "employee_id"),
		Format:     query.Get("format"),
	}
}

// PeriodReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) PeriodReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetPeriodReport(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportPeriodReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) ExportPeriodReport(w http.ResponseWriter, r *http.Request) {
	filter := reportFilterFromQuery(r)

	var buf bytes.Buffer
	if err := h.attendanceService.ExportPeriodReport(r.Context(), filter, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", filter.StartDate, filter.EndDate)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write attendance export", "error", err)
	}
}
