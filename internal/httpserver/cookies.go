package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/devlog/pkg/token"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// setAuthCookies mirrors the token TTLs: a short-lived access cookie and a
// week-long refresh cookie. Both are HttpOnly and SameSite=Lax; Secure
// follows the deployment config.
func (s *Server) setAuthCookies(w http.ResponseWriter, pair token.Pair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int((15 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookie, refreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   s.cfg.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
