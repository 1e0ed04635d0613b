// Package config aggregates every component's environment-driven
// configuration into one struct parsed at startup.
package config

import (
	"errors"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/devlog/internal/httpserver"
	"github.com/dmitrymomot/devlog/pkg/db"
	"github.com/dmitrymomot/devlog/pkg/logger"
	"github.com/dmitrymomot/devlog/pkg/oauth"
	"github.com/dmitrymomot/devlog/pkg/redis"
	"github.com/dmitrymomot/devlog/pkg/storage"
	"github.com/dmitrymomot/devlog/pkg/token"
)

// ErrParse wraps environment parsing failures.
var ErrParse = errors.New("config: failed to parse environment")

// Config is the application configuration. Each field carries its own
// env tags; parsing the aggregate fills them all.
type Config struct {
	HTTP    httpserver.Config
	DB      db.Config
	Redis   redis.Config
	Token   token.Config
	Logger  logger.Config
	Storage storage.Config

	Google oauth.GoogleConfig
	GitHub oauth.GitHubConfig
	Naver  oauth.NaverConfig
}

// Load parses the full configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	return &cfg, nil
}
