// Package health exposes liveness and readiness HTTP handlers.
//
// [Liveness] always answers OK and only proves the process is running.
// [Readiness] runs a set of named probes in parallel and answers 503 when
// any of them fails, so orchestrators stop routing traffic to an instance
// with a broken dependency:
//
//	r.Get("/health/live", health.Liveness())
//	r.Get("/health/ready", health.Readiness(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	}, health.WithLogger(log)))
//
// Handlers respond with plain text by default; clients get JSON with the
// per-check breakdown by sending Accept: application/json or ?format=json.
package health
