package auth

import "errors"

var (
	// ErrInvalidCredential is the single client-facing error for any token
	// verification failure. Internal distinctions (expired vs. malformed
	// vs. bad signature) stay in logs only.
	ErrInvalidCredential = errors.New("auth: invalid credential")

	// ErrTransientStorage is returned when the storage transaction backing
	// a login aborts. The whole login call is safe to retry.
	ErrTransientStorage = errors.New("auth: transient storage failure")
)
