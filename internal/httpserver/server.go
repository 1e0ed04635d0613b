package httpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/devlog/internal/account"
	"github.com/dmitrymomot/devlog/internal/auth"
	"github.com/dmitrymomot/devlog/internal/post"
	"github.com/dmitrymomot/devlog/pkg/health"
	"github.com/dmitrymomot/devlog/pkg/oauth"
	"github.com/dmitrymomot/devlog/pkg/storage"
	"github.com/dmitrymomot/devlog/pkg/token"
)

// Deps wires the domain services into the HTTP layer.
type Deps struct {
	Auth      *auth.Service
	Tokens    *token.Service
	Accounts  account.Store
	Posts     *post.Service
	Providers map[account.Provider]oauth.Provider
	States    StateStore
	Images    ImageStore

	// HealthChecks are readiness probes for the service's dependencies.
	HealthChecks health.Checks
}

// ImageStore is what the avatar and post-image handlers need from object
// storage. Satisfied by *storage.ImageStore.
type ImageStore interface {
	Put(ctx context.Context, r io.Reader, size int64, prefix string) (*storage.FileInfo, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Server is the devlog HTTP API.
type Server struct {
	cfg  Config
	deps Deps
	log  *slog.Logger
	srv  *http.Server
}

// New builds the server and its routes.
func New(cfg Config, deps Deps, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{cfg: cfg, deps: deps, log: log}
	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID, s.recoverer, s.logRequests)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/{provider}", s.handleAuthBegin)
		r.Get("/{provider}/callback", s.handleAuthCallback)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)
		r.With(s.requireAuth).Post("/complete-profile", s.handleCompleteProfile)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Get("/check-idname/{idname}", s.handleCheckIdname)
		r.Get("/{idname}/profile", s.handlePublicProfile)
		r.Get("/{idname}/posts", s.handlePostsByAuthor)

		r.Route("/me", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleMe)
			r.Delete("/", s.handleDeleteMe)
			r.Patch("/profile", s.handleUpdateProfile)
			r.Patch("/social", s.handleUpdateSocial)
			r.Patch("/idname", s.handleUpdateIdname)
			r.Put("/avatar", s.handleUploadAvatar)
			r.Delete("/avatar", s.handleDeleteAvatar)
			r.Get("/posts", s.handleMyPosts)
			r.Get("/drafts", s.handleMyDrafts)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.handleFeed)
		r.Get("/{slug}", s.handleGetPost)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreatePost)
			r.Post("/upload-image", s.handleUploadPostImage)
			r.Patch("/{id}", s.handleUpdatePost)
			r.Delete("/{id}", s.handleDeletePost)
		})
	})

	r.Get("/health/live", health.Liveness())
	r.Get("/health/ready", health.Readiness(s.deps.HealthChecks, health.WithLogger(s.log)))

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server starting", slog.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
