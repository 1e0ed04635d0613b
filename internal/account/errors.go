package account

import "errors"

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account: not found")

	// ErrIdentityNotFound is returned when no external identity matches
	// the (provider, provider id) pair.
	ErrIdentityNotFound = errors.New("account: identity not found")

	// ErrIdnameTaken is returned when the requested idname is already
	// claimed by another account.
	ErrIdnameTaken = errors.New("account: idname already taken")

	// ErrIdentityExists is returned when an identity with the same
	// (provider, provider id) already exists. Surfaces the race where two
	// logins for the same external user attempt creation concurrently.
	ErrIdentityExists = errors.New("account: identity already exists")

	// ErrInvalidIdname is returned when the idname does not match the
	// required format (3-20 chars, letters, digits, '_' or '-').
	ErrInvalidIdname = errors.New("account: invalid idname format")

	// ErrAlreadyActive is returned when profile completion is attempted
	// on an account that has already been activated.
	ErrAlreadyActive = errors.New("account: profile already completed")

	// ErrUnknownProvider is returned for a provider outside the supported set.
	ErrUnknownProvider = errors.New("account: unknown provider")

	// ErrDataIntegrity is returned when stored rows contradict the schema
	// invariants, e.g. an identity pointing at a missing account. Never
	// silently healed: it indicates corruption that needs operator attention.
	ErrDataIntegrity = errors.New("account: data integrity violation")

	// ErrTxFailed is returned when a storage transaction aborts for a
	// transient reason. The whole operation is safe to retry.
	ErrTxFailed = errors.New("account: transaction failed")
)
