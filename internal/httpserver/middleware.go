package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/devlog/pkg/token"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	requestIDKey
)

// RequestIDFromContext returns the request id set by the middleware, for
// use as a logger context extractor.
func RequestIDFromContext(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return slog.String("request_id", id), ok
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path))
				respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.InfoContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)))
	})
}

// extractToken looks for credentials in the Authorization header first,
// falling back to the access token cookie set at login.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if raw, ok := strings.CutPrefix(h, "Bearer "); ok {
			return raw
		}
		return ""
	}
	if c, err := r.Cookie(accessCookie); err == nil {
		return c.Value
	}
	return ""
}

// requireAuth verifies the access token and stores its claims in the
// request context. Any verification failure is a plain 401; the reason is
// never exposed.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractToken(r)
		if raw == "" {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing authentication token"})
			return
		}

		claims, err := s.deps.Tokens.Verify(raw, token.UseAccess)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// claimsFrom returns the verified claims placed by requireAuth.
func claimsFrom(r *http.Request) *token.Claims {
	claims, _ := r.Context().Value(claimsKey).(*token.Claims)
	return claims
}

// accountIDFrom returns the authenticated account id, or zero when the
// request is anonymous.
func accountIDFrom(r *http.Request) int64 {
	claims := claimsFrom(r)
	if claims == nil {
		return 0
	}
	id, err := claims.AccountID()
	if err != nil {
		return 0
	}
	return id
}

// viewerID resolves the caller's account id without requiring
// authentication, for endpoints whose response depends on who is asking.
func (s *Server) viewerID(r *http.Request) int64 {
	raw := extractToken(r)
	if raw == "" {
		return 0
	}
	claims, err := s.deps.Tokens.Verify(raw, token.UseAccess)
	if err != nil {
		return 0
	}
	id, err := claims.AccountID()
	if err != nil {
		return 0
	}
	return id
}
