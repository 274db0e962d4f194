package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employee.EmployeeRepository
	employee.AdminRepository
	jwt.Service
	verifier auth.LineVerifier
	notifier notification.Service
}

// NewAuthService builds the auth service. With a nil verifier the LINE user id
// sent by the LIFF app is trusted as is.
func NewAuthService(
	employeeRepository employee.EmployeeRepository,
	adminRepository employee.AdminRepository,
	jwtService jwt.Service,
	verifier auth.LineVerifier,
	notifier notification.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		EmployeeRepository: employeeRepository,
		AdminRepository:    adminRepository,
		Service:            jwtService,
		verifier:           verifier,
		notifier:           notifier,
	}
}

// Identify implements auth.AuthService.
func (a *AuthServiceImpl) Identify(ctx context.Context, req auth.IdentifyRequest) (auth.IdentifyResponse, error) {
	if err := req.Validate(a.verifier != nil); err != nil {
		return auth.IdentifyResponse{}, err
	}

	profile, err := a.resolveProfile(ctx, req)
	if err != nil {
		return auth.IdentifyResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByLineUserID(ctx, profile.UserID)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		emp, err = a.register(ctx, profile)
	}
	if err != nil {
		return auth.IdentifyResponse{}, err
	}

	resp := employee.ToResponse(emp)
	switch emp.Status {
	case employee.StatusPending:
		return auth.IdentifyResponse{Status: emp.Status, Employee: &resp}, nil
	case employee.StatusInactive:
		return auth.IdentifyResponse{}, employee.ErrEmployeeInactive
	}

	token, expiresAt, err := a.Service.GenerateEmployeeToken(emp.ID, emp.LineUserID)
	if err != nil {
		return auth.IdentifyResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.IdentifyResponse{
		Status:      emp.Status,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Employee:    &resp,
	}, nil
}

func (a *AuthServiceImpl) resolveProfile(ctx context.Context, req auth.IdentifyRequest) (auth.LineProfile, error) {
	if a.verifier == nil {
		return auth.LineProfile{
			UserID:      strings.TrimSpace(req.LineUserID),
			DisplayName: strings.TrimSpace(req.DisplayName),
			PictureURL:  req.PictureURL,
		}, nil
	}

	profile, err := a.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return auth.LineProfile{}, err
	}
	if profile.DisplayName == "" {
		profile.DisplayName = strings.TrimSpace(req.DisplayName)
	}
	if profile.PictureURL == "" {
		profile.PictureURL = req.PictureURL
	}
	return profile, nil
}

// register creates a pending employee for a first-time LINE user.
func (a *AuthServiceImpl) register(ctx context.Context, profile auth.LineProfile) (employee.Employee, error) {
	name := profile.DisplayName
	if name == "" {
		name = "LINE user"
	}
	newEmployee := employee.Employee{
		LineUserID: profile.UserID,
		Name:       name,
		Status:     employee.StatusPending,
	}
	if profile.DisplayName != "" {
		newEmployee.DisplayName = &profile.DisplayName
	}
	if profile.PictureURL != "" {
		newEmployee.ProfileImageURL = &profile.PictureURL
	}

	created, err := a.EmployeeRepository.Create(ctx, newEmployee)
	if errors.Is(err, employee.ErrLineUserAlreadyExists) {
		// a concurrent identify registered the same user first
		return a.EmployeeRepository.GetByLineUserID(ctx, profile.UserID)
	}
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to register employee: %w", err)
	}

	slog.Info("New employee registered", "employee_id", created.ID, "employee_code", created.EmployeeCode)
	if a.notifier != nil {
		err := a.notifier.Enqueue(notification.Message{
			Type:       notification.TypeEmployeeRegistered,
			EmployeeID: created.ID,
			Title:      "New employee registration",
			Text:       fmt.Sprintf("%s (%s) registered through LINE and is waiting for approval.", created.Name, created.EmployeeCode),
		})
		if err != nil {
			slog.Warn("Failed to enqueue registration notification", "error", err, "employee_id", created.ID)
		}
	}
	return created, nil
}

// AdminLogin implements auth.AuthService.
func (a *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.AdminLoginRequest) (auth.AdminLoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AdminLoginResponse{}, err
	}

	admin, err := a.AdminRepository.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, employee.ErrAdminNotFound) {
			return auth.AdminLoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.AdminLoginResponse{}, fmt.Errorf("failed to get admin by username: %w", err)
	}
	if !admin.IsActive {
		return auth.AdminLoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return auth.AdminLoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAdminToken(admin.ID, admin.Username)
	if err != nil {
		return auth.AdminLoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	if err := a.AdminRepository.TouchLastLogin(ctx, admin.ID); err != nil {
		slog.Warn("Failed to record admin login", "error", err, "admin_id", admin.ID)
	}

	return auth.AdminLoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		AdminID:     admin.ID,
		Username:    admin.Username,
		FullName:    admin.FullName,
	}, nil
}
