package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService("unit-test-secret", "2h")
	require.NoError(t, err)
	return svc.(*JWTService)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "two hours")
	assert.Error(t, err)
}

func TestGenerateEmployeeToken_Claims(t *testing.T) {
	svc := newService(t)
	fixed := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	token, expiresAt, err := svc.GenerateEmployeeToken("e1", "U1")
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(2*time.Hour).Unix(), expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, auth.RoleEmployee, claims["role"])
	assert.Equal(t, "e1", claims["employee_id"])
	assert.Equal(t, "U1", claims["line_user_id"])
}

func TestGenerateAdminToken_Verifies(t *testing.T) {
	svc := newService(t)

	token, _, err := svc.GenerateAdminToken("a1", "hr")
	require.NoError(t, err)

	verified, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	role, ok := verified.Get("role")
	require.True(t, ok)
	assert.Equal(t, auth.RoleAdmin, role)
}

func TestSSEToken_RoundTrip(t *testing.T) {
	svc := newService(t)

	token, expiresIn, err := svc.GenerateSSEToken("a1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	adminID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", adminID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	svc := newService(t)

	access, _, err := svc.GenerateAdminToken("a1", "hr")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.ValidateSSEToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateSSEToken_Expired(t *testing.T) {
	svc := newService(t)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := svc.GenerateSSEToken("a1")
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateSSEToken_OtherSecret(t *testing.T) {
	other, err := NewJWTService("another-secret", "1h")
	require.NoError(t, err)
	token, _, err := other.GenerateSSEToken("a1")
	require.NoError(t, err)

	_, err = newService(t).ValidateSSEToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

// testContext mirrors testing.T.Context (Go 1.24+): the returned context is
// canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
