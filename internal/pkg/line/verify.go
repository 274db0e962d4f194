// Package line verifies LIFF id tokens against the LINE Login API.
package line

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
)

const defaultVerifyEndpoint = "https://api.line.me/oauth2/v2.1/verify"

type verifyResponse struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Aud     string `json:"aud"`
}

type Verifier struct {
	channelID string
	endpoint  string
	client    *http.Client
}

func NewVerifier(channelID string) *Verifier {
	return &Verifier{
		channelID: channelID,
		endpoint:  defaultVerifyEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyIDToken implements auth.LineVerifier.
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (auth.LineProfile, error) {
	form := url.Values{}
	form.Set("id_token", idToken)
	form.Set("client_id", v.channelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return auth.LineProfile{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return auth.LineProfile{}, fmt.Errorf("call LINE verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return auth.LineProfile{}, fmt.Errorf("%w: LINE responded %d", auth.ErrInvalidLineIDToken, resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return auth.LineProfile{}, fmt.Errorf("decode LINE verify response: %w", err)
	}
	if body.Sub == "" || (body.Aud != "" && body.Aud != v.channelID) {
		return auth.LineProfile{}, auth.ErrInvalidLineIDToken
	}

	return auth.LineProfile{
		UserID:      body.Sub,
		DisplayName: body.Name,
		PictureURL:  body.Picture,
	}, nil
}
