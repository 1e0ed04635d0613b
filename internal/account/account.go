package account

import (
	"regexp"
	"time"
)

// Status is the account lifecycle state. Accounts are created pending and
// become active exactly once, when the owner claims an idname.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

// Provider identifies a supported external identity provider.
// The set is closed: reconciliation logic is provider-agnostic and new
// providers are added here, not as new code paths.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGithub Provider = "github"
	ProviderNaver  Provider = "naver"
	ProviderKakao  Provider = "kakao"
)

// ParseProvider validates a provider name against the supported set.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case ProviderGoogle, ProviderGithub, ProviderNaver, ProviderKakao:
		return p, nil
	default:
		return "", ErrUnknownProvider
	}
}

// Account is the local user identity record.
//
// Invariant: Status == StatusActive iff Idname != "". The transition
// pending -> active happens exactly once, via profile completion.
type Account struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	Idname        string    `json:"idname,omitempty"`
	AvatarURL     string    `json:"avatarUrl,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Github        string    `json:"github,omitempty"`
	Linkedin      string    `json:"linkedin,omitempty"`
	Website       string    `json:"website,omitempty"`
	Status        Status    `json:"status"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Identity links an account to one external provider user.
// The (Provider, ProviderID) pair is globally unique and is the sole
// anti-duplication mechanism for social logins.
type Identity struct {
	AccountID     int64     `json:"accountId"`
	Provider      Provider  `json:"provider"`
	ProviderID    string    `json:"providerId"`
	ProviderEmail string    `json:"providerEmail"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewProfile is the input for creating an account together with its
// linked external identity.
type NewProfile struct {
	Provider    Provider
	ProviderID  string
	Email       string
	DisplayName string
	AvatarURL   string
}

// BasicProfile carries optional updates to display name and bio.
// Nil fields are left unchanged.
type BasicProfile struct {
	DisplayName *string
	Bio         *string
}

// SocialLinks carries optional updates to external profile links.
// Nil fields are left unchanged.
type SocialLinks struct {
	Github   *string
	Linkedin *string
	Website  *string
}

var idnameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

// ValidateIdname checks the idname format: 3-20 characters from
// [a-zA-Z0-9_-]. Format only; uniqueness is enforced by storage.
func ValidateIdname(idname string) error {
	if !idnameRe.MatchString(idname) {
		return ErrInvalidIdname
	}
	return nil
}
