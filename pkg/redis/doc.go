// Package redis connects the application to Redis.
//
// Connect parses a redis:// URL, applies pool and timeout settings from
// Config, and verifies the connection with a ping, retrying transient
// startup failures with linear backoff:
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
