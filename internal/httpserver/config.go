package httpserver

import "time"

// Config holds HTTP server settings, populated from environment variables.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// FrontendURL is where OAuth callbacks redirect after login.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3001"`

	// SecureCookies should be true behind HTTPS.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"false"`

	// StateTTL bounds how long an OAuth login redirect stays valid.
	StateTTL time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`
}
