package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	// Employee self service
	Me(w http.ResponseWriter, r *http.Request)
	MyBenefits(w http.ResponseWriter, r *http.Request)

	// HR
	List(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	now             func() time.Time
}

func NewEmployeeHandler(employeeService employee.EmployeeService, clock func() time.Time) EmployeeHandler {
	if clock == nil {
		clock = time.Now
	}
	return &employeeHandlerImpl{
		employeeService: employeeService,
		now:             clock,
	}
}

// Me implements EmployeeHandler.
func (h *employeeHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetByID(r.Context(), middleware.EmployeeID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyBenefits implements EmployeeHandler.
func (h *employeeHandlerImpl) MyBenefits(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GetBenefits(r.Context(), middleware.EmployeeID(r.Context()), h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := employee.EmployeeFilter{
		Status: optionalQueryParam(r, "status"),
		Search: optionalQueryParam(r, "search"),
		Page:   getIntQueryParam(r, "page", 1),
		Limit:  getIntQueryParam(r, "limit", 20),
	}

	result, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Employees, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// ListPending implements EmployeeHandler.
func (h *employeeHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.ListPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements EmployeeHandler.
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.employeeService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements EmployeeHandler.
func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode employee update", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.employeeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated", result)
}

// Approve implements EmployeeHandler. The body is optional.
func (h *employeeHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req employee.ApproveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Failed to decode employee approval", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApprovedBy = middleware.AdminID(r.Context())

	result, err := h.employeeService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee approved", result)
}

// Reject implements EmployeeHandler.
func (h *employeeHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req employee.RejectEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode employee rejection", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.employeeService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee rejected", result)
}
