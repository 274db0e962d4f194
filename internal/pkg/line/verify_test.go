package line

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *Verifier {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	v := NewVerifier("1650000000")
	v.endpoint = srv.URL
	v.client = srv.Client()
	return v
}

func TestVerifyIDToken(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "token-abc", r.PostForm.Get("id_token"))
		assert.Equal(t, "1650000000", r.PostForm.Get("client_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"U1234","name":"Somchai","picture":"https://img","aud":"1650000000"}`))
	})

	profile, err := v.VerifyIDToken(context.Background(), "token-abc")
	require.NoError(t, err)
	assert.Equal(t, auth.LineProfile{UserID: "U1234", DisplayName: "Somchai", PictureURL: "https://img"}, profile)
}

func TestVerifyIDTokenRejected(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_request","error_description":"Invalid IdToken."}`))
	})

	_, err := v.VerifyIDToken(context.Background(), "bad")
	assert.ErrorIs(t, err, auth.ErrInvalidLineIDToken)
}

func TestVerifyIDTokenWrongAudience(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sub":"U1234","aud":"someone-else"}`))
	})

	_, err := v.VerifyIDToken(context.Background(), "token")
	assert.ErrorIs(t, err, auth.ErrInvalidLineIDToken)
}
