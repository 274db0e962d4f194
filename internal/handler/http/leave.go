package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)

	// HR
	ListRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

func leaveFilterFromQuery(r *http.Request) leave.LeaveRequestFilter {
	return leave.LeaveRequestFilter{
		Status: optionalQueryParam(r, "status"),
		Page:   getIntQueryParam(r, "page", 1),
		Limit:  getIntQueryParam(r, "limit", 20),
	}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = middleware.EmployeeID(r.Context())

	result, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	result, err := l.leaveService.ListMine(r.Context(), middleware.EmployeeID(r.Context()), leaveFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := leaveFilterFromQuery(r)
	filter.EmployeeID = optionalQueryParam(r, "employee_id")

	result, err := l.leaveService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func decodeDecision(w http.ResponseWriter, r *http.Request) (leave.DecideLeaveRequest, bool) {
	var req leave.DecideLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Leave decision decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}
	req.ID = chi.URLParam(r, "id")
	req.ReviewerID = middleware.AdminID(r.Context())
	return req, true
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDecision(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDecision(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}
