// Package httpserver exposes the JSON API: social login and session
// endpoints under /auth, profile management under /users, and publishing
// under /posts.
//
// Sessions are carried as a stateless JWT pair in cookies (and accepted as
// bearer tokens); the OAuth login handshake keeps its single-use state in
// Redis. Handlers translate domain sentinel errors into HTTP statuses in
// one place, respondError.
package httpserver
