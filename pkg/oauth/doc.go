// Package oauth implements the OAuth2 authorization code flow for the
// identity providers the platform supports: Google, GitHub, and Naver.
//
// Each provider implements the Provider interface: generating
// authorization URLs, exchanging codes for tokens, and fetching a
// normalized Profile from the provider's userinfo endpoint. Everything
// protocol-specific (endpoints, response shapes, email verification
// quirks) stays inside the provider implementation.
//
//	provider, err := oauth.NewGoogleProvider(oauth.GoogleConfig{
//		ClientID:     os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
//		ClientSecret: os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
//		RedirectURL:  "https://example.com/auth/google/callback",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	url := provider.AuthCodeURL("random-state-string")
//	// redirect the user, then in the callback handler:
//	tok, err := provider.Exchange(ctx, code)
//	profile, err := provider.FetchProfile(ctx, tok)
//
// Profile.Email may be empty: GitHub users can keep their email private.
// Callers decide policy; the adapters only report facts.
//
// Use WithHTTPClient to inject an httptest server in tests. Always
// validate the state parameter in callbacks to prevent CSRF.
package oauth
