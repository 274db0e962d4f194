package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/line-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// Authenticate verifies the bearer token and admits access tokens only. The
// short-lived SSE tokens are refused here.
func Authenticate(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	verify := jwtauth.Verify(ja, jwtauth.TokenFromHeader)

	return func(next http.Handler) http.Handler {
		check := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			switch {
			case errors.Is(err, jwtauth.ErrExpired):
				response.HandleError(w, auth.ErrTokenExpired)
				return
			case errors.Is(err, jwtauth.ErrNoTokenFound):
				response.Unauthorized(w, "Missing bearer token")
				return
			case err != nil, token == nil:
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if tokenType, _ := claims["type"].(string); tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			next.ServeHTTP(w, r)
		})
		return verify(check)
	}
}

// RequireEmployee admits tokens issued to an identified LINE employee.
func RequireEmployee(next http.Handler) http.Handler {
	return requireRole(auth.RoleEmployee, "employee_id", auth.ErrEmployeeAccessRequired, next)
}

// RequireAdmin admits HR admin tokens.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(auth.RoleAdmin, "admin_id", auth.ErrAdminPrivilegeRequired, next)
}

func requireRole(role, idClaim string, denied error, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if stringClaim(r.Context(), "role") != role || stringClaim(r.Context(), idClaim) == "" {
			response.HandleError(w, denied)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// EmployeeID returns the employee_id claim of the request token.
func EmployeeID(ctx context.Context) string {
	return stringClaim(ctx, "employee_id")
}

// AdminID returns the admin_id claim of the request token.
func AdminID(ctx context.Context) string {
	return stringClaim(ctx, "admin_id")
}

func stringClaim(ctx context.Context, key string) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return ""
	}
	v, _ := claims[key].(string)
	return v
}
