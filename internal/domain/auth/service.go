package auth

import "context"

type AuthService interface {
	// Identify maps a LINE user to an employee, registering unknown users as pending
	Identify(ctx context.Context, req IdentifyRequest) (IdentifyResponse, error)

	AdminLogin(ctx context.Context, req AdminLoginRequest) (AdminLoginResponse, error)
}

// LineVerifier checks a LIFF id token with LINE.
type LineVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (LineProfile, error)
}
