package oauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/devlog/pkg/oauth"
)

var _ oauth.Provider = (*oauth.GoogleProvider)(nil)

type googleRewriteTransport struct {
	base    http.RoundTripper
	handler http.Handler
}

func (t *googleRewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.Contains(req.URL.Host, "google") || strings.Contains(req.URL.Host, "googleapis") {
		recorder := httptest.NewRecorder()
		t.handler.ServeHTTP(recorder, req)
		return recorder.Result(), nil
	}
	return t.base.RoundTrip(req)
}

func TestNewGoogleProvider(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     "test-id",
			ClientSecret: "test-secret",
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		require.Equal(t, "google", p.Name())
	})

	t.Run("missing client ID", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewGoogleProvider(oauth.GoogleConfig{ClientSecret: "test-secret"})
		require.ErrorIs(t, err, oauth.ErrMissingClientID)
		require.Nil(t, p)
	})

	t.Run("missing client secret", func(t *testing.T) {
		t.Parallel()
		p, err := oauth.NewGoogleProvider(oauth.GoogleConfig{ClientID: "test-id"})
		require.ErrorIs(t, err, oauth.ErrMissingClientSecret)
		require.Nil(t, p)
	})
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	t.Parallel()

	p, err := oauth.NewGoogleProvider(oauth.GoogleConfig{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		RedirectURL:  "https://example.com/callback",
	})
	require.NoError(t, err)

	u := p.AuthCodeURL("test-state")
	require.Contains(t, u, "state=test-state")
	require.Contains(t, u, "redirect_uri=")
	require.Contains(t, u, "userinfo.email")
}

func TestGoogleProvider_FetchProfile(t *testing.T) {
	t.Parallel()

	newProvider := func(t *testing.T, handler http.Handler) *oauth.GoogleProvider {
		t.Helper()
		p, err := oauth.NewGoogleProvider(
			oauth.GoogleConfig{ClientID: "test-id", ClientSecret: "test-secret"},
			oauth.WithHTTPClient(&http.Client{
				Transport: &googleRewriteTransport{base: http.DefaultTransport, handler: handler},
			}),
		)
		require.NoError(t, err)
		return p
	}

	tok := &oauth2.Token{AccessToken: "test-access-token", TokenType: "Bearer"}

	t.Run("verified email", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":             "g123",
				"email":          "a@x.com",
				"name":           "Alice",
				"picture":        "https://cdn.example.com/a.png",
				"verified_email": true,
			})
		}))

		profile, err := p.FetchProfile(context.Background(), tok)
		require.NoError(t, err)
		require.Equal(t, "g123", profile.ProviderID)
		require.Equal(t, "a@x.com", profile.Email)
		require.True(t, profile.EmailVerified)
		require.Equal(t, "Alice", profile.Name)
	})

	t.Run("unverified email rejected", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":             "g123",
				"email":          "a@x.com",
				"verified_email": false,
			})
		}))

		_, err := p.FetchProfile(context.Background(), tok)
		require.ErrorIs(t, err, oauth.ErrEmailNotVerified)
	})

	t.Run("non-OK status", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := p.FetchProfile(context.Background(), tok)
		require.ErrorIs(t, err, oauth.ErrRequestFailed)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		p := newProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))

		_, err := p.FetchProfile(context.Background(), tok)
		require.ErrorIs(t, err, oauth.ErrDecodeFailed)
	})
}
