package token

import "errors"

var (
	// ErrMissingSecret is returned when a signing secret is not provided.
	ErrMissingSecret = errors.New("token: missing signing secret")

	// ErrSharedSecret is returned when access and refresh tokens are
	// configured with the same signing secret.
	ErrSharedSecret = errors.New("token: access and refresh secrets must differ")

	// ErrExpiredToken is returned when the token is past its expiry.
	ErrExpiredToken = errors.New("token: expired")

	// ErrInvalidSignature is returned when the signature or issuer does not match.
	ErrInvalidSignature = errors.New("token: invalid signature")

	// ErrMalformedToken is returned for input that cannot be parsed as a token.
	ErrMalformedToken = errors.New("token: malformed")

	// ErrWrongTokenUse is returned when a token is presented for a use it
	// was not issued for (e.g., a refresh token used as an access token).
	ErrWrongTokenUse = errors.New("token: wrong token use")

	// ErrSigningFailed is returned when signing a new token fails.
	ErrSigningFailed = errors.New("token: signing failed")
)
