// Package account defines the local user identity domain: accounts,
// their linked external identities, and the Store persistence contract.
//
// An account is created implicitly on first social login, in a pending
// state, and becomes active exactly once when the owner claims a unique
// idname. The (provider, provider id) pair on the linked identity is
// globally unique and guarantees that repeated logins by the same
// external user always resolve to the same account.
package account
