package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	byLineID map[string]employee.Employee
	creates  int
	// raceWith is inserted by a "concurrent" request just before Create fails
	raceWith *employee.Employee
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{byLineID: make(map[string]employee.Employee)}
	for _, e := range employees {
		f.byLineID[e.LineUserID] = e
	}
	return f
}

func (f *fakeEmployeeRepo) GetByLineUserID(_ context.Context, lineUserID string) (employee.Employee, error) {
	e, ok := f.byLineID[lineUserID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	if f.raceWith != nil {
		f.byLineID[f.raceWith.LineUserID] = *f.raceWith
		return employee.Employee{}, employee.ErrLineUserAlreadyExists
	}
	f.creates++
	e.ID = "emp-new"
	e.EmployeeCode = "EMP00042"
	f.byLineID[e.LineUserID] = e
	return e, nil
}

type fakeAdminRepo struct {
	admins  map[string]employee.Admin
	touched []string
}

func (f *fakeAdminRepo) GetByUsername(_ context.Context, username string) (employee.Admin, error) {
	a, ok := f.admins[username]
	if !ok {
		return employee.Admin{}, employee.ErrAdminNotFound
	}
	return a, nil
}

func (f *fakeAdminRepo) TouchLastLogin(_ context.Context, id string) error {
	f.touched = append(f.touched, id)
	return nil
}

type fakeVerifier struct {
	profile auth.LineProfile
	err     error
	tokens  []string
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (auth.LineProfile, error) {
	f.tokens = append(f.tokens, idToken)
	return f.profile, f.err
}

type recordingNotifier struct {
	messages []notification.Message
}

func (n *recordingNotifier) Enqueue(msg notification.Message) error {
	n.messages = append(n.messages, msg)
	return nil
}

func (n *recordingNotifier) Close(context.Context) error { return nil }

func newJWT(t *testing.T) jwt.Service {
	t.Helper()
	svc, err := jwt.NewJWTService("test-secret", "1h")
	require.NoError(t, err)
	return svc
}

func TestIdentify_RegistersUnknownUserAsPending(t *testing.T) {
	repo := newFakeEmployeeRepo()
	notifier := &recordingNotifier{}
	svc := NewAuthService(repo, &fakeAdminRepo{}, newJWT(t), nil, notifier)

	resp, err := svc.Identify(context.Background(), auth.IdentifyRequest{
		LineUserID:  " U123 ",
		DisplayName: "Somchai",
		PictureURL:  "https://profile.line-scdn.net/abc",
	})
	require.NoError(t, err)

	assert.Equal(t, employee.StatusPending, resp.Status)
	assert.Empty(t, resp.AccessToken)
	require.NotNil(t, resp.Employee)
	assert.Equal(t, "EMP00042", resp.Employee.EmployeeCode)
	assert.Equal(t, "U123", resp.Employee.LineUserID)
	require.NotNil(t, resp.Employee.ProfileImageURL)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, notification.TypeEmployeeRegistered, notifier.messages[0].Type)

	// a second identify finds the pending record instead of registering again
	resp, err = svc.Identify(context.Background(), auth.IdentifyRequest{LineUserID: "U123"})
	require.NoError(t, err)
	assert.Equal(t, employee.StatusPending, resp.Status)
	assert.Equal(t, 1, repo.creates)
	assert.Len(t, notifier.messages, 1)
}

func TestIdentify_ActiveEmployeeGetsToken(t *testing.T) {
	repo := newFakeEmployeeRepo(employee.Employee{ID: "e1", LineUserID: "U1", Name: "Somchai", Status: employee.StatusActive})
	svc := NewAuthService(repo, &fakeAdminRepo{}, newJWT(t), nil, nil)

	resp, err := svc.Identify(context.Background(), auth.IdentifyRequest{LineUserID: "U1"})
	require.NoError(t, err)
	assert.Equal(t, employee.StatusActive, resp.Status)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotZero(t, resp.ExpiresAt)
}

func TestIdentify_InactiveEmployee(t *testing.T) {
	repo := newFakeEmployeeRepo(employee.Employee{ID: "e1", LineUserID: "U1", Status: employee.StatusInactive})
	svc := NewAuthService(repo, &fakeAdminRepo{}, newJWT(t), nil, nil)

	_, err := svc.Identify(context.Background(), auth.IdentifyRequest{LineUserID: "U1"})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestIdentify_RegistrationRace(t *testing.T) {
	repo := newFakeEmployeeRepo()
	repo.raceWith = &employee.Employee{ID: "winner", LineUserID: "U9", Status: employee.StatusPending}
	notifier := &recordingNotifier{}
	svc := NewAuthService(repo, &fakeAdminRepo{}, newJWT(t), nil, notifier)

	resp, err := svc.Identify(context.Background(), auth.IdentifyRequest{LineUserID: "U9"})
	require.NoError(t, err)
	assert.Equal(t, "winner", resp.Employee.ID)
	assert.Empty(t, notifier.messages)
}

func TestIdentify_UsesVerifiedProfile(t *testing.T) {
	repo := newFakeEmployeeRepo()
	verifier := &fakeVerifier{profile: auth.LineProfile{UserID: "Uverified"}}
	svc := NewAuthService(repo, &fakeAdminRepo{}, newJWT(t), verifier, nil)

	// the client supplied user id is ignored once a verifier is configured
	resp, err := svc.Identify(context.Background(), auth.IdentifyRequest{
		IDToken:     "eyJ.id.token",
		LineUserID:  "Uspoofed",
		DisplayName: "Nok",
	})
	require.NoError(t, err)
	assert.Equal(t, "Uverified", resp.Employee.LineUserID)
	assert.Equal(t, "Nok", resp.Employee.Name)
	assert.Equal(t, []string{"eyJ.id.token"}, verifier.tokens)
}

func TestIdentify_VerifierRequiresIDToken(t *testing.T) {
	verifier := &fakeVerifier{}
	svc := NewAuthService(newFakeEmployeeRepo(), &fakeAdminRepo{}, newJWT(t), verifier, nil)

	_, err := svc.Identify(context.Background(), auth.IdentifyRequest{LineUserID: "U1"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "id_token")
	assert.Empty(t, verifier.tokens)
}

func TestIdentify_InvalidIDToken(t *testing.T) {
	verifier := &fakeVerifier{err: auth.ErrInvalidLineIDToken}
	svc := NewAuthService(newFakeEmployeeRepo(), &fakeAdminRepo{}, newJWT(t), verifier, nil)

	_, err := svc.Identify(context.Background(), auth.IdentifyRequest{IDToken: "expired"})
	assert.ErrorIs(t, err, auth.ErrInvalidLineIDToken)
}

func TestAdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	admins := &fakeAdminRepo{admins: map[string]employee.Admin{
		"hr":       {ID: "a1", Username: "hr", PasswordHash: string(hash), FullName: "HR Team", IsActive: true},
		"disabled": {ID: "a2", Username: "disabled", PasswordHash: string(hash), IsActive: false},
	}}
	svc := NewAuthService(newFakeEmployeeRepo(), admins, newJWT(t), nil, nil)

	resp, err := svc.AdminLogin(context.Background(), auth.AdminLoginRequest{Username: " hr ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "a1", resp.AdminID)
	assert.Equal(t, "HR Team", resp.FullName)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, []string{"a1"}, admins.touched)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "hr", "guess"},
		{"unknown user", "nobody", "s3cret-pass"},
		{"inactive admin", "disabled", "s3cret-pass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AdminLogin(context.Background(), auth.AdminLoginRequest{Username: tt.username, Password: tt.password})
			assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
		})
	}

	_, err = svc.AdminLogin(context.Background(), auth.AdminLoginRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}
