// Package auth implements identity reconciliation and the session token
// lifecycle: social login (find-or-create), profile completion gating,
// and refresh token rotation.
//
// The reconciliation algorithm is provider-agnostic. Provider adapters
// hand it an already-verified profile; from there a single code path
// resolves the external identity to exactly one local account, creating
// the account and its identity link atomically on first login.
package auth
