package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/response"
)

type AuthHandler interface {
	Identify(w http.ResponseWriter, r *http.Request)
	AdminLogin(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &authHandlerImpl{
		authService: authService,
	}
}

// Identify implements AuthHandler. A pending registration answers 202 so the
// LIFF app can show the waiting screen.
func (h *authHandlerImpl) Identify(w http.ResponseWriter, r *http.Request) {
	var req auth.IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode identify request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Identify(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Status == employee.StatusPending {
		response.Accepted(w, "Registration is waiting for HR approval", result)
		return
	}
	response.SuccessWithMessage(w, "Identified", result)
}

// AdminLogin implements AuthHandler.
func (h *authHandlerImpl) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode admin login request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.AdminLogin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", result)
}
