package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/devlog/internal/account"
	"github.com/dmitrymomot/devlog/internal/auth"
	"github.com/dmitrymomot/devlog/pkg/oauth"
)

func (s *Server) provider(r *http.Request) (oauth.Provider, error) {
	name, err := account.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		return nil, err
	}
	p, ok := s.deps.Providers[name]
	if !ok {
		return nil, account.ErrUnknownProvider
	}
	return p, nil
}

// handleAuthBegin issues a single-use state and redirects the browser to
// the provider's consent page.
func (s *Server) handleAuthBegin(w http.ResponseWriter, r *http.Request) {
	p, err := s.provider(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	state, err := s.deps.States.Issue(r.Context(), p.Name())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusFound)
}

// handleAuthCallback completes the provider flow: burn the state, exchange
// the code, reconcile the identity, and hand tokens to the frontend via
// cookies plus a needsSetup redirect flag.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	p, err := s.provider(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.deps.States.Consume(r.Context(), p.Name(), r.URL.Query().Get("state")); err != nil {
		s.respondError(w, r, err)
		return
	}

	tok, err := p.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.respondError(w, r, errors.Join(auth.ErrInvalidCredential, err))
		return
	}

	profile, err := p.FetchProfile(r.Context(), tok)
	if err != nil {
		s.respondError(w, r, errors.Join(auth.ErrInvalidCredential, err))
		return
	}

	providerName, err := account.ParseProvider(p.Name())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.deps.Auth.Login(r.Context(), auth.VerifiedProfile{
		Provider:    providerName,
		ProviderID:  profile.ProviderID,
		Email:       profile.Email,
		DisplayName: profile.Name,
		AvatarURL:   profile.AvatarURL,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.setAuthCookies(w, result.Tokens)

	q := url.Values{}
	q.Set("needsSetup", boolParam(result.NeedsProfileSetup))
	q.Set("provider", p.Name())
	http.Redirect(w, r, s.cfg.FrontendURL+"/auth/callback?"+q.Encode(), http.StatusFound)
}

func boolParam(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

type completeProfileRequest struct {
	Idname string `json:"idname"`
	Bio    string `json:"bio"`
}

func (s *Server) handleCompleteProfile(w http.ResponseWriter, r *http.Request) {
	var req completeProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.deps.Auth.CompleteProfile(r.Context(), accountIDFrom(r), req.Idname, req.Bio)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.setAuthCookies(w, result.Tokens)
	respondJSON(w, http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleRefresh accepts the refresh token from the cookie or, for
// non-browser clients, the request body.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var raw string
	if c, err := r.Cookie(refreshCookie); err == nil {
		raw = c.Value
	}
	if raw == "" && r.Body != nil {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			raw = req.RefreshToken
		}
	}
	if raw == "" {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing refresh token"})
		return
	}

	result, err := s.deps.Auth.Refresh(r.Context(), raw)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.setAuthCookies(w, result.Tokens)
	respondJSON(w, http.StatusOK, result)
}

// handleLogout clears the token cookies. Tokens are stateless, so there is
// nothing to revoke server-side; clients must discard their copies.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
