package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/devlog/pkg/redis"
)

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{})
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL: "http://localhost:6379",
		})
		require.ErrorIs(t, err, redis.ErrFailedToParseURL)
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL: "redis://invalid:url:format",
		})
		require.ErrorIs(t, err, redis.ErrFailedToParseURL)
	})

	t.Run("unreachable host", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, err := redis.Connect(ctx, redis.Config{
			ConnectionURL: "redis://127.0.0.1:1",
			DialTimeout:   100 * time.Millisecond,
			RetryAttempts: 1,
			RetryInterval: 10 * time.Millisecond,
		})
		require.ErrorIs(t, err, redis.ErrConnectionFailed)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("nil client", func(t *testing.T) {
		t.Parallel()

		check := redis.Healthcheck(nil)
		require.ErrorIs(t, check(context.Background()), redis.ErrHealthcheckFailed)
	})
}
