package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/devlog/internal/account"
	"github.com/dmitrymomot/devlog/pkg/token"
)

// VerifiedProfile is an already-verified external identity delivered by a
// provider adapter. The reconciliation engine consumes it as fact: no
// OAuth mechanics happen past this point.
type VerifiedProfile struct {
	Provider    account.Provider
	ProviderID  string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Result is returned by Login, CompleteProfile, and Refresh.
type Result struct {
	Account           *account.Account `json:"account"`
	IsNewUser         bool             `json:"isNewUser"`
	NeedsProfileSetup bool             `json:"needsProfileSetup"`
	Tokens            token.Pair       `json:"tokens"`
}

// Service reconciles external identities to local accounts and manages
// the session token lifecycle.
type Service struct {
	store  account.Store
	tokens *token.Service
	log    *slog.Logger
}

// NewService creates the auth Service.
func NewService(store account.Store, tokens *token.Service, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, tokens: tokens, log: log}
}

// Login resolves a verified external identity to exactly one local
// account, creating it atomically on first login, and issues a token pair.
//
// Repeated logins with the same (provider, provider id) always resolve to
// the same account: the unique identity constraint is the sole
// anti-duplication mechanism. The provider-reported email is refreshed on
// every login of an existing account.
func (s *Service) Login(ctx context.Context, profile VerifiedProfile) (*Result, error) {
	if _, err := account.ParseProvider(string(profile.Provider)); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		// Some providers withhold the email (private email settings).
		// A deterministic placeholder keeps the login usable.
		profile.Email = fmt.Sprintf("%s@%s.local", profile.ProviderID, profile.Provider)
	}

	existing, err := s.store.FindByIdentity(ctx, profile.Provider, profile.ProviderID)
	switch {
	case err == nil:
		return s.loginExisting(ctx, existing, profile)
	case errors.Is(err, account.ErrIdentityNotFound):
		return s.loginNew(ctx, profile)
	case errors.Is(err, account.ErrDataIntegrity):
		// Corruption, not a recoverable login state. Surface it loudly.
		s.log.ErrorContext(ctx, "identity points at missing account",
			slog.String("provider", string(profile.Provider)),
			slog.String("provider_id", profile.ProviderID))
		return nil, err
	default:
		return nil, err
	}
}

func (s *Service) loginExisting(ctx context.Context, a *account.Account, profile VerifiedProfile) (*Result, error) {
	if err := s.store.UpdateEmail(ctx, a.ID, profile.Email); err != nil {
		return nil, err
	}

	// Re-read after the update so issued tokens snapshot current state.
	a, err := s.store.FindByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	pair, err := s.issue(a)
	if err != nil {
		return nil, err
	}

	return &Result{
		Account:           a,
		IsNewUser:         false,
		NeedsProfileSetup: a.Status == account.StatusPending,
		Tokens:            pair,
	}, nil
}

func (s *Service) loginNew(ctx context.Context, profile VerifiedProfile) (*Result, error) {
	a, err := s.store.CreateWithIdentity(ctx, account.NewProfile{
		Provider:    profile.Provider,
		ProviderID:  profile.ProviderID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, account.ErrTxFailed) {
			// The transaction rolled back; nothing persisted, retry is safe.
			return nil, errors.Join(ErrTransientStorage, err)
		}
		return nil, err
	}

	pair, err := s.issue(a)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "account created",
		slog.Int64("account_id", a.ID),
		slog.String("provider", string(profile.Provider)))

	return &Result{
		Account:           a,
		IsNewUser:         true,
		NeedsProfileSetup: true,
		Tokens:            pair,
	}, nil
}

// CompleteProfile claims an idname for a pending account, activating it,
// and re-issues the token pair: earlier tokens carried an empty idname.
// This is the only pending -> active transition; it cannot be reversed
// and cannot happen twice.
func (s *Service) CompleteProfile(ctx context.Context, accountID int64, idname, bio string) (*Result, error) {
	if err := account.ValidateIdname(idname); err != nil {
		return nil, err
	}

	a, err := s.store.CompleteProfile(ctx, accountID, idname, bio)
	if err != nil {
		return nil, err
	}

	pair, err := s.issue(a)
	if err != nil {
		return nil, err
	}

	return &Result{Account: a, Tokens: pair}, nil
}

// Refresh validates a refresh token and issues a fresh pair from current
// account state. Embedded profile claims are never trusted as current
// truth: the account is always re-read from storage so rotated tokens
// pick up profile changes.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	claims, err := s.tokens.Verify(refreshToken, token.UseRefresh)
	if err != nil {
		// Collapse every verification failure into one client-facing error
		// so callers cannot probe which check failed.
		s.log.DebugContext(ctx, "refresh token rejected", slog.String("reason", err.Error()))
		return nil, ErrInvalidCredential
	}

	accountID, err := claims.AccountID()
	if err != nil {
		return nil, ErrInvalidCredential
	}

	a, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	pair, err := s.issue(a)
	if err != nil {
		return nil, err
	}

	return &Result{
		Account:           a,
		NeedsProfileSetup: a.Status == account.StatusPending,
		Tokens:            pair,
	}, nil
}

func (s *Service) issue(a *account.Account) (token.Pair, error) {
	return s.tokens.Issue(token.Subject{
		AccountID:   a.ID,
		Email:       a.Email,
		Idname:      a.Idname,
		DisplayName: a.DisplayName,
		AvatarURL:   a.AvatarURL,
		Bio:         a.Bio,
	})
}
