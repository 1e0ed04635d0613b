package slug

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Option configures slug generation.
type Option func(*options)

type options struct {
	maxLength int
	suffixLen int
}

// MaxLength truncates the slug to at most n runes, trimming a trailing
// separator. A random suffix is appended after truncation.
func MaxLength(n int) Option {
	return func(o *options) {
		o.maxLength = n
	}
}

// WithSuffix appends a random alphanumeric suffix of n characters, for
// collision resistance when slugs are stored under a unique index.
func WithSuffix(n int) Option {
	return func(o *options) {
		o.suffixLen = n
	}
}

// stripMarks removes combining marks after NFD decomposition, so "café"
// becomes "cafe".
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Make converts s into a lowercase URL-safe slug. Diacritics are
// normalized to ASCII; anything else outside [a-z0-9] collapses into a
// single dash. An empty result falls back to a random suffix.
func Make(s string, opts ...Option) string {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if normalized, _, err := transform.String(stripMarks, s); err == nil {
		s = normalized
	}
	s = strings.ToLower(s)

	var b strings.Builder
	prevDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case !prevDash:
			b.WriteByte('-')
			prevDash = true
		}
	}
	out := strings.Trim(b.String(), "-")

	if o.maxLength > 0 {
		runes := []rune(out)
		if len(runes) > o.maxLength {
			out = strings.Trim(string(runes[:o.maxLength]), "-")
		}
	}

	if o.suffixLen > 0 || out == "" {
		n := o.suffixLen
		if n == 0 {
			n = 8
		}
		if out == "" {
			return randomSuffix(n)
		}
		out += "-" + randomSuffix(n)
	}

	return out
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is
			// broken; a fixed character keeps the slug valid.
			b[i] = 'x'
			continue
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b)
}
