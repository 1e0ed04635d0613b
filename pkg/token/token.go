package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Use discriminates the two token kinds in a pair.
type Use string

const (
	// UseAccess marks short-lived tokens presented on every request.
	UseAccess Use = "access"

	// UseRefresh marks long-lived tokens presented only to rotate a pair.
	UseRefresh Use = "refresh"
)

// Config holds signing secrets and lifetimes for session tokens.
// Access and refresh tokens are signed with independent secrets so one
// can never be verified in place of the other.
type Config struct {
	AccessSecret  string        `env:"TOKEN_ACCESS_SECRET,required"`
	RefreshSecret string        `env:"TOKEN_REFRESH_SECRET,required"`
	Issuer        string        `env:"TOKEN_ISSUER" envDefault:"devlog"`
	AccessTTL     time.Duration `env:"TOKEN_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL    time.Duration `env:"TOKEN_REFRESH_TTL" envDefault:"168h"`
}

// Subject is the account snapshot embedded into issued tokens.
// Optional fields (Idname, AvatarURL, Bio) may be empty for accounts
// that have not completed profile setup.
type Subject struct {
	AccountID   int64
	Email       string
	Idname      string
	DisplayName string
	AvatarURL   string
	Bio         string
}

// Claims is the decoded payload of a verified session token.
type Claims struct {
	Email       string `json:"email"`
	Idname      string `json:"idname,omitempty"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Bio         string `json:"bio,omitempty"`
	TokenUse    Use    `json:"use"`
	jwt.RegisteredClaims
}

// AccountID returns the numeric account id carried in the subject claim.
func (c *Claims) AccountID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, errors.Join(ErrMalformedToken, fmt.Errorf("parse subject %q: %w", c.Subject, err))
	}
	return id, nil
}

// Pair is an access/refresh token pair issued together.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for issuance and verification.
// Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service issues and verifies signed session tokens. It holds no state
// beyond configuration: a token is a pure function of secret, payload,
// and clock.
type Service struct {
	cfg Config
	now func() time.Time
}

// New creates a token Service. Returns an error if either secret is
// empty or both uses share one secret.
func New(cfg Config, opts ...Option) (*Service, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, ErrSharedSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}

	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a fresh access/refresh pair carrying the given subject snapshot.
func (s *Service) Issue(sub Subject) (Pair, error) {
	access, err := s.sign(sub, UseAccess)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(sub, UseRefresh)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify parses and validates a token for the expected use.
// It returns ErrExpiredToken, ErrInvalidSignature, ErrMalformedToken, or
// ErrWrongTokenUse depending on the failure mode.
func (s *Service) Verify(raw string, use Use) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			return []byte(s.secret(use)), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errors.Join(ErrExpiredToken, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, errors.Join(ErrInvalidSignature, err)
		default:
			return nil, errors.Join(ErrMalformedToken, err)
		}
	}

	if claims.TokenUse != use {
		return nil, ErrWrongTokenUse
	}

	return &claims, nil
}

func (s *Service) sign(sub Subject, use Use) (string, error) {
	now := s.now()
	ttl := s.cfg.AccessTTL
	if use == UseRefresh {
		ttl = s.cfg.RefreshTTL
	}

	claims := Claims{
		Email:       sub.Email,
		Idname:      sub.Idname,
		DisplayName: sub.DisplayName,
		AvatarURL:   sub.AvatarURL,
		Bio:         sub.Bio,
		TokenUse:    use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   strconv.FormatInt(sub.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret(use)))
	if err != nil {
		return "", errors.Join(ErrSigningFailed, err)
	}
	return signed, nil
}

func (s *Service) secret(use Use) string {
	if use == UseRefresh {
		return s.cfg.RefreshSecret
	}
	return s.cfg.AccessSecret
}
