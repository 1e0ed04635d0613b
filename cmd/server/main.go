// Command server runs the devlog API: social login, profiles, and
// publishing.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/devlog/internal/account"
	accountpg "github.com/dmitrymomot/devlog/internal/account/postgres"
	accountmigrations "github.com/dmitrymomot/devlog/internal/account/postgres/migrations"
	"github.com/dmitrymomot/devlog/internal/auth"
	"github.com/dmitrymomot/devlog/internal/config"
	"github.com/dmitrymomot/devlog/internal/httpserver"
	"github.com/dmitrymomot/devlog/internal/post"
	postpg "github.com/dmitrymomot/devlog/internal/post/postgres"
	postmigrations "github.com/dmitrymomot/devlog/internal/post/postgres/migrations"
	"github.com/dmitrymomot/devlog/pkg/db"
	"github.com/dmitrymomot/devlog/pkg/health"
	"github.com/dmitrymomot/devlog/pkg/logger"
	"github.com/dmitrymomot/devlog/pkg/oauth"
	"github.com/dmitrymomot/devlog/pkg/redis"
	"github.com/dmitrymomot/devlog/pkg/storage"
	"github.com/dmitrymomot/devlog/pkg/token"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Logger, httpserver.RequestIDFromContext)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, accountmigrations.FS, "accounts_"+cfg.DB.MigrationsTable, log); err != nil {
		return err
	}
	if err := db.Migrate(ctx, pool, postmigrations.FS, "posts_"+cfg.DB.MigrationsTable, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	tokens, err := token.New(cfg.Token)
	if err != nil {
		return err
	}

	images, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}

	accounts := accountpg.New(pool)
	posts := postpg.New(pool)

	providers, err := buildProviders(cfg, log)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.HTTP, httpserver.Deps{
		Auth:      auth.NewService(accounts, tokens, log),
		Tokens:    tokens,
		Accounts:  accounts,
		Posts:     post.NewService(posts, images, log),
		Providers: providers,
		States:    httpserver.NewRedisStateStore(redisClient, cfg.HTTP.StateTTL),
		Images:    images,
		HealthChecks: health.Checks{
			"postgres": db.Healthcheck(pool),
			"redis":    redis.Healthcheck(redisClient),
		},
	}, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	return g.Wait()
}

// buildProviders wires every provider whose credentials are configured.
// Running with a subset is normal in development.
func buildProviders(cfg *config.Config, log *slog.Logger) (map[account.Provider]oauth.Provider, error) {
	providers := make(map[account.Provider]oauth.Provider)

	if cfg.Google.ClientID != "" {
		p, err := oauth.NewGoogleProvider(cfg.Google)
		if err != nil {
			return nil, err
		}
		providers[account.ProviderGoogle] = p
	}
	if cfg.GitHub.ClientID != "" {
		p, err := oauth.NewGitHubProvider(cfg.GitHub)
		if err != nil {
			return nil, err
		}
		providers[account.ProviderGithub] = p
	}
	if cfg.Naver.ClientID != "" {
		p, err := oauth.NewNaverProvider(cfg.Naver)
		if err != nil {
			return nil, err
		}
		providers[account.ProviderNaver] = p
	}

	if len(providers) == 0 {
		log.Warn("no oauth providers configured, social login disabled")
	}
	return providers, nil
}
