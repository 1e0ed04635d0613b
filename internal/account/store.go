package account

import "context"

// Store is the persistence contract for accounts and their linked
// external identities.
//
// Implementations must enforce the two uniqueness invariants at the
// storage layer (unique indexes on idname and on (provider, provider_id)):
// application-level pre-checks are optimizations, not the guarantee.
// Mutations on one account are serialized by the storage engine's own
// concurrency control, never by in-process locks, because multiple server
// processes may run against the same database.
type Store interface {
	// FindByIdentity resolves an external identity to its account.
	// Returns ErrIdentityNotFound when no identity matches, and
	// ErrDataIntegrity when an identity row points at a missing account.
	FindByIdentity(ctx context.Context, provider Provider, providerID string) (*Account, error)

	// FindByID returns the account with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*Account, error)

	// FindByIdname returns the account that owns the idname, or ErrNotFound.
	FindByIdname(ctx context.Context, idname string) (*Account, error)

	// CreateWithIdentity atomically creates a pending account and its
	// external identity. Both rows are written in a single transaction:
	// if the identity insert fails (e.g. a concurrent login created the
	// same (provider, provider_id)), the account insert is rolled back and
	// ErrIdentityExists is returned. No orphan account may persist.
	CreateWithIdentity(ctx context.Context, profile NewProfile) (*Account, error)

	// UpdateEmail refreshes the account email from the provider.
	UpdateEmail(ctx context.Context, id int64, email string) error

	// CompleteProfile claims an idname and activates a pending account.
	// Returns ErrIdnameTaken if the idname is already claimed,
	// ErrNotFound if the account is missing, and ErrAlreadyActive if the
	// account has already been activated.
	CompleteProfile(ctx context.Context, id int64, idname, bio string) (*Account, error)

	// UpdateBasicProfile applies partial updates to display name and bio.
	UpdateBasicProfile(ctx context.Context, id int64, p BasicProfile) (*Account, error)

	// UpdateSocialLinks applies partial updates to social links.
	UpdateSocialLinks(ctx context.Context, id int64, links SocialLinks) (*Account, error)

	// UpdateIdname changes the idname of an active account.
	// Returns ErrIdnameTaken on conflict.
	UpdateIdname(ctx context.Context, id int64, idname string) (*Account, error)

	// UpdateAvatar sets or clears the avatar URL.
	UpdateAvatar(ctx context.Context, id int64, avatarURL string) error

	// Delete removes the account; the linked identity goes with it (cascade).
	Delete(ctx context.Context, id int64) error

	// List returns public profile fields of all accounts.
	List(ctx context.Context) ([]Account, error)
}
