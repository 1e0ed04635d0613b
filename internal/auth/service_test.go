package auth_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/devlog/internal/account"
	"github.com/dmitrymomot/devlog/internal/account/memory"
	"github.com/dmitrymomot/devlog/internal/auth"
	"github.com/dmitrymomot/devlog/pkg/token"
)

func newService(t *testing.T) (*auth.Service, *memory.Store, *token.Service) {
	t.Helper()

	tokens, err := token.New(token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "devlog-test",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	store := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(store, tokens, log), store, tokens
}

func googleProfile() auth.VerifiedProfile {
	return auth.VerifiedProfile{
		Provider:    account.ProviderGoogle,
		ProviderID:  "g1",
		Email:       "a@x.com",
		DisplayName: "Alice",
		AvatarURL:   "https://cdn.example.com/a.png",
	}
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	t.Run("first login creates pending account", func(t *testing.T) {
		t.Parallel()
		svc, _, tokens := newService(t)

		res, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)
		require.True(t, res.IsNewUser)
		require.True(t, res.NeedsProfileSetup)
		require.Equal(t, account.StatusPending, res.Account.Status)
		require.Empty(t, res.Account.Idname)
		require.NotEmpty(t, res.Tokens.AccessToken)
		require.NotEmpty(t, res.Tokens.RefreshToken)

		claims, err := tokens.Verify(res.Tokens.AccessToken, token.UseAccess)
		require.NoError(t, err)
		id, err := claims.AccountID()
		require.NoError(t, err)
		require.Equal(t, res.Account.ID, id)
		require.Empty(t, claims.Idname)
	})

	t.Run("second login resolves to same account", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		first, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)

		second, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)
		require.False(t, second.IsNewUser)
		require.Equal(t, first.Account.ID, second.Account.ID)
	})

	t.Run("email refreshed on every login", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		_, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)

		p := googleProfile()
		p.Email = "new@x.com"
		res, err := svc.Login(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, "new@x.com", res.Account.Email)
	})

	t.Run("same provider id on another provider is a different account", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		google, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)

		p := googleProfile()
		p.Provider = account.ProviderGithub
		github, err := svc.Login(context.Background(), p)
		require.NoError(t, err)
		require.True(t, github.IsNewUser)
		require.NotEqual(t, google.Account.ID, github.Account.ID)
	})

	t.Run("missing provider email gets synthetic placeholder", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		p := googleProfile()
		p.Provider = account.ProviderGithub
		p.ProviderID = "gh42"
		p.Email = ""
		res, err := svc.Login(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, "gh42@github.local", res.Account.Email)
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		p := googleProfile()
		p.Provider = "facebook"
		_, err := svc.Login(context.Background(), p)
		require.ErrorIs(t, err, account.ErrUnknownProvider)
	})

	t.Run("identity pointing at missing account is a hard failure", func(t *testing.T) {
		t.Parallel()
		svc, store, _ := newService(t)

		_, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)

		store.BreakIdentity(account.ProviderGoogle, "g1")

		_, err = svc.Login(context.Background(), googleProfile())
		require.ErrorIs(t, err, account.ErrDataIntegrity)
	})

	t.Run("concurrent first logins resolve to one account", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		const workers = 8
		ids := make([]int64, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := svc.Login(context.Background(), googleProfile())
				if err == nil {
					ids[i] = res.Account.ID
				}
			}()
		}
		wg.Wait()

		var winner int64
		for _, id := range ids {
			if id != 0 {
				if winner == 0 {
					winner = id
				}
				require.Equal(t, winner, id)
			}
		}
		require.NotZero(t, winner)
	})
}

func TestService_CompleteProfile(t *testing.T) {
	t.Parallel()

	t.Run("activates account and reissues tokens with idname", func(t *testing.T) {
		t.Parallel()
		svc, _, tokens := newService(t)

		login, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)

		res, err := svc.CompleteProfile(context.Background(), login.Account.ID, "alice", "hi there")
		require.NoError(t, err)
		require.Equal(t, account.StatusActive, res.Account.Status)
		require.Equal(t, "alice", res.Account.Idname)
		require.Equal(t, "hi there", res.Account.Bio)

		claims, err := tokens.Verify(res.Tokens.AccessToken, token.UseAccess)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Idname)
	})

	t.Run("taken idname conflicts and account stays pending", func(t *testing.T) {
		t.Parallel()
		svc, store, _ := newService(t)

		first, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)
		_, err = svc.CompleteProfile(context.Background(), first.Account.ID, "alice", "")
		require.NoError(t, err)

		p := googleProfile()
		p.Provider = account.ProviderNaver
		second, err := svc.Login(context.Background(), p)
		require.NoError(t, err)

		_, err = svc.CompleteProfile(context.Background(), second.Account.ID, "alice", "")
		require.ErrorIs(t, err, account.ErrIdnameTaken)

		a, err := store.FindByID(context.Background(), second.Account.ID)
		require.NoError(t, err)
		require.Equal(t, account.StatusPending, a.Status)
		require.Empty(t, a.Idname)
	})

	t.Run("cannot complete twice", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		login, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)
		_, err = svc.CompleteProfile(context.Background(), login.Account.ID, "alice", "")
		require.NoError(t, err)

		_, err = svc.CompleteProfile(context.Background(), login.Account.ID, "alice2", "")
		require.ErrorIs(t, err, account.ErrAlreadyActive)
	})

	t.Run("invalid idname format rejected before storage", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		login, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)

		for _, idname := range []string{"ab", "has space", "way-too-long-idname-here"} {
			_, err = svc.CompleteProfile(context.Background(), login.Account.ID, idname, "")
			require.ErrorIs(t, err, account.ErrInvalidIdname, "idname %q", idname)
		}
	})

	t.Run("missing account", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		_, err := svc.CompleteProfile(context.Background(), 9999, "ghost", "")
		require.ErrorIs(t, err, account.ErrNotFound)
	})

	t.Run("concurrent claims on one idname produce one winner", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		a, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)
		p := googleProfile()
		p.ProviderID = "g2"
		b, err := svc.Login(context.Background(), p)
		require.NoError(t, err)

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i, id := range []int64{a.Account.ID, b.Account.ID} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = svc.CompleteProfile(context.Background(), id, "alice", "")
			}()
		}
		wg.Wait()

		var conflicts, successes int
		for _, err := range errs {
			switch {
			case err == nil:
				successes++
			default:
				require.ErrorIs(t, err, account.ErrIdnameTaken)
				conflicts++
			}
		}
		require.Equal(t, 1, successes)
		require.Equal(t, 1, conflicts)
	})
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("rotates pair from current account state", func(t *testing.T) {
		t.Parallel()
		svc, _, tokens := newService(t)

		login, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)

		// Profile changes between issuance and refresh must show up in the
		// rotated tokens.
		_, err = svc.CompleteProfile(context.Background(), login.Account.ID, "alice", "")
		require.NoError(t, err)

		res, err := svc.Refresh(context.Background(), login.Tokens.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, login.Account.ID, res.Account.ID)
		require.False(t, res.NeedsProfileSetup)

		claims, err := tokens.Verify(res.Tokens.AccessToken, token.UseAccess)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Idname)
	})

	t.Run("access token rejected regardless of validity", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		login, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), login.Tokens.AccessToken)
		require.ErrorIs(t, err, auth.ErrInvalidCredential)
	})

	t.Run("garbage input collapses to invalid credential", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newService(t)

		_, err := svc.Refresh(context.Background(), "not-a-token")
		require.ErrorIs(t, err, auth.ErrInvalidCredential)
	})

	t.Run("deleted account", func(t *testing.T) {
		t.Parallel()
		svc, store, _ := newService(t)

		login, err := svc.Login(context.Background(), googleProfile())
		require.NoError(t, err)

		require.NoError(t, store.Delete(context.Background(), login.Account.ID))

		_, err = svc.Refresh(context.Background(), login.Tokens.RefreshToken)
		require.ErrorIs(t, err, account.ErrNotFound)
	})
}
