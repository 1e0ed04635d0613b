package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// Profile is the normalized, provider-agnostic user profile returned by a
// provider's userinfo endpoint. ProviderID is the provider's stable user
// identifier, converted to string when the provider reports a number.
type Profile struct {
	ProviderID    string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

// Provider abstracts provider-specific OAuth operations. Each provider
// (Google, GitHub, Naver) implements this interface and handles all
// protocol details internally.
type Provider interface {
	// Name returns the provider identifier (e.g., "google", "github", "naver").
	Name() string

	// AuthCodeURL generates the authorization URL for the OAuth flow.
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string

	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchProfile retrieves the normalized user profile using the access
	// token. Profile.Email may be empty when the provider withholds it
	// (e.g., a private email setting); callers decide how to handle that.
	FetchProfile(ctx context.Context, tok *oauth2.Token) (*Profile, error)
}
