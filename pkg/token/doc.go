// Package token issues and verifies stateless session credentials as
// signed JWT pairs.
//
// Every issuance produces two independently signed tokens: a short-lived
// access token presented on each request, and a long-lived refresh token
// presented only to rotate the pair. The two uses are signed with
// different secrets and carry a "use" claim, so a refresh token can never
// pass verification as an access token or vice versa.
//
// Tokens embed a snapshot of account profile fields at issuance time.
// The server holds no session table: verification is a pure function of
// secret, payload, and clock.
//
//	svc, err := token.New(token.Config{
//		AccessSecret:  os.Getenv("TOKEN_ACCESS_SECRET"),
//		RefreshSecret: os.Getenv("TOKEN_REFRESH_SECRET"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pair, err := svc.Issue(token.Subject{AccountID: 42, Email: "a@x.com"})
//
//	claims, err := svc.Verify(pair.AccessToken, token.UseAccess)
//	if errors.Is(err, token.ErrExpiredToken) {
//		// ask the client to refresh
//	}
//
// Verification failures are classified as ErrExpiredToken,
// ErrInvalidSignature, ErrMalformedToken, or ErrWrongTokenUse. Callers
// exposed to untrusted clients should collapse these into a single
// unauthorized response and keep the distinction for logs only.
package token
