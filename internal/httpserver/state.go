package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrInvalidState rejects OAuth callbacks whose state is unknown, expired,
// or already consumed.
var ErrInvalidState = errors.New("httpserver: invalid oauth state")

// StateStore issues and consumes single-use OAuth state tokens.
type StateStore interface {
	// Issue stores a fresh state bound to the provider that initiated
	// the login and returns it.
	Issue(ctx context.Context, provider string) (string, error)

	// Consume validates and burns a state. It fails unless the state
	// exists and was issued for the same provider.
	Consume(ctx context.Context, provider, state string) error
}

const statePrefix = "oauth:state:"

// RedisStateStore keeps OAuth states in Redis with a TTL, so a login
// redirect left open past the TTL simply fails the callback.
type RedisStateStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ StateStore = (*RedisStateStore)(nil)

// NewRedisStateStore creates a state store with the given TTL.
func NewRedisStateStore(client redis.UniversalClient, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

func (s *RedisStateStore) Issue(ctx context.Context, provider string) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, statePrefix+state, provider, s.ttl).Err(); err != nil {
		return "", err
	}
	return state, nil
}

func (s *RedisStateStore) Consume(ctx context.Context, provider, state string) error {
	if state == "" {
		return ErrInvalidState
	}
	// GetDel makes consumption atomic: two callbacks racing on the same
	// state can never both pass.
	got, err := s.client.GetDel(ctx, statePrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidState
	}
	if err != nil {
		return err
	}
	if got != provider {
		return ErrInvalidState
	}
	return nil
}
