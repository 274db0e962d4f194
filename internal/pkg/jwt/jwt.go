package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateEmployeeToken(employeeID string, lineUserID string) (token string, expiresAt int64, err error)
	GenerateAdminToken(adminID string, username string) (token string, expiresAt int64, err error)
	GenerateSSEToken(adminID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (adminID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	exp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}
	return &JWTService{
		accessTokenExpiration: exp,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateEmployeeToken(employeeID string, lineUserID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"sub":          lineUserID,
		"employee_id":  employeeID,
		"line_user_id": lineUserID,
		"role":         auth.RoleEmployee,
		"type":         "access",
		"exp":          expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) GenerateAdminToken(adminID string, username string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"sub":      adminID,
		"admin_id": adminID,
		"username": username,
		"role":     auth.RoleAdmin,
		"type":     "access",
		"exp":      expiresAt,
	})
	return token, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for the admin event stream,
// which EventSource can only pass as a query parameter
func (j *JWTService) GenerateSSEToken(adminID string) (token string, expiresIn int, err error) {
	expiresIn = 300
	expiresAt := j.now().Add(time.Duration(expiresIn) * time.Second).Unix()

	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"admin_id": adminID,
		"type":     "sse",
		"exp":      expiresAt,
	})
	if err != nil {
		return "", 0, err
	}
	return token, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the admin ID
func (j *JWTService) ValidateSSEToken(tokenString string) (adminID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "sse" {
		return "", auth.ErrInvalidToken
	}

	idVal, ok := token.Get("admin_id")
	if !ok {
		return "", auth.ErrInvalidToken
	}
	adminID, ok = idVal.(string)
	if !ok || adminID == "" {
		return "", auth.ErrInvalidToken
	}
	return adminID, nil
}
