package auth

import (
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/validator"
)

// Roles carried in the access token.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// LineProfile is the identity LINE vouches for.
type LineProfile struct {
	UserID      string
	DisplayName string
	PictureURL  string
}

// IdentifyRequest comes from the LIFF app. IDToken is required whenever the
// server has a LINE channel id configured.
type IdentifyRequest struct {
	IDToken     string `json:"id_token,omitempty"`
	LineUserID  string `json:"line_user_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	PictureURL  string `json:"picture_url,omitempty"`
}

func (r *IdentifyRequest) Validate(requireIDToken bool) error {
	var errs validator.ValidationErrors
	if requireIDToken && validator.IsEmpty(r.IDToken) {
		errs.Add("id_token", "id_token is required")
	}
	if !requireIDToken && validator.IsEmpty(r.IDToken) && validator.IsEmpty(r.LineUserID) {
		errs.Add("line_user_id", "line_user_id or id_token is required")
	}
	if !validator.LengthBetween(r.DisplayName, 0, 100) {
		errs.Add("display_name", "display_name must be at most 100 characters")
	}
	return errs.Err()
}

type IdentifyResponse struct {
	Status      employee.Status            `json:"status"`
	AccessToken string                     `json:"access_token,omitempty"`
	ExpiresAt   int64                      `json:"expires_at,omitempty"`
	Employee    *employee.EmployeeResponse `json:"employee,omitempty"`
}

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *AdminLoginRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Username) {
		errs.Add("username", "username is required")
	}
	if r.Password == "" {
		errs.Add("password", "password is required")
	}
	return errs.Err()
}

type AdminLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	AdminID     string `json:"admin_id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
}
