package httpserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/devlog/internal/account"
	"github.com/dmitrymomot/devlog/internal/httpserver"
	"github.com/dmitrymomot/devlog/pkg/logger"
)

func TestMe(t *testing.T) {
	t.Parallel()

	t.Run("returns the authenticated account", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		user := env.activeUser(t, "gh-me", "meuser")
		rec := env.do(t, http.MethodGet, "/users/me", user.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeBody[account.Account](t, rec)
		assert.Equal(t, user.Account.ID, got.ID)
		assert.Equal(t, "meuser", got.Idname)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/users/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/users/me", "not-a-token", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.activeUser(t, "gh-up", "upuser")

	rec := env.do(t, http.MethodPatch, "/users/me/profile", user.Tokens.AccessToken,
		map[string]string{"displayName": "New Name"})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[account.Account](t, rec)
	assert.Equal(t, "New Name", got.DisplayName)
	// Bio untouched by the partial update.
	assert.Equal(t, "bio", got.Bio)
}

func TestUpdateSocial(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.activeUser(t, "gh-so", "souser")

	rec := env.do(t, http.MethodPatch, "/users/me/social", user.Tokens.AccessToken,
		map[string]string{"github": "https://github.com/souser"})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[account.Account](t, rec)
	assert.Equal(t, "https://github.com/souser", got.Github)
}

func TestUpdateIdname(t *testing.T) {
	t.Parallel()

	t.Run("renames handle", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		user := env.activeUser(t, "gh-rn", "oldname")
		rec := env.do(t, http.MethodPatch, "/users/me/idname", user.Tokens.AccessToken,
			map[string]string{"idname": "newname"})
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeBody[account.Account](t, rec)
		assert.Equal(t, "newname", got.Idname)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		user := env.activeUser(t, "gh-rn2", "valid")
		rec := env.do(t, http.MethodPatch, "/users/me/idname", user.Tokens.AccessToken,
			map[string]string{"idname": "no spaces!"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("taken idname", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		env.activeUser(t, "gh-rn3", "occupied")
		user := env.activeUser(t, "gh-rn4", "vacant")
		rec := env.do(t, http.MethodPatch, "/users/me/idname", user.Tokens.AccessToken,
			map[string]string{"idname": "occupied"})
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCheckIdname(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.activeUser(t, "gh-ci", "claimed")

	t.Run("taken", func(t *testing.T) {
		t.Parallel()
		rec := env.do(t, http.MethodGet, "/users/check-idname/claimed", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, false, body["available"])
	})

	t.Run("available", func(t *testing.T) {
		t.Parallel()
		rec := env.do(t, http.MethodGet, "/users/check-idname/unclaimed", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, true, body["available"])
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()
		rec := env.do(t, http.MethodGet, "/users/check-idname/x", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, false, body["available"])
	})

	t.Run("storage outage is not availability", func(t *testing.T) {
		t.Parallel()

		srv := httpserver.New(httpserver.Config{Addr: ":0"}, httpserver.Deps{
			Accounts: brokenAccounts{},
		}, logger.NewNope())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/check-idname/whatever", nil)
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "available")
	})
}

// brokenAccounts simulates a storage outage on every lookup.
type brokenAccounts struct {
	account.Store
}

func (brokenAccounts) FindByIdname(context.Context, string) (*account.Account, error) {
	return nil, errors.New("connection refused")
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.activeUser(t, "gh-lu1", "director")
	env.login(t, "gh-lu2", "pending@example.com")

	rec := env.do(t, http.MethodGet, "/users/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decodeBody[[]map[string]any](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "director", entries[0]["idname"])

	for _, e := range entries {
		_, hasEmail := e["email"]
		assert.False(t, hasEmail)
		_, hasStatus := e["status"]
		assert.False(t, hasStatus)
	}

	// Pending accounts have no idname yet but still appear.
	_, hasIdname := entries[1]["idname"]
	assert.False(t, hasIdname)
}

func TestPublicProfile(t *testing.T) {
	t.Parallel()

	t.Run("exposes public fields only", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.activeUser(t, "gh-pp", "publicguy")

		rec := env.do(t, http.MethodGet, "/users/publicguy/profile", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "publicguy", body["idname"])
		_, hasEmail := body["email"]
		assert.False(t, hasEmail)
	})

	t.Run("unknown idname", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(t, http.MethodGet, "/users/ghost/profile", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAvatarUpload(t *testing.T) {
	t.Parallel()

	t.Run("stores avatar and updates account", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.activeUser(t, "gh-av", "avatarist")

		req := multipartUpload(t, http.MethodPut, "/users/me/avatar",
			user.Tokens.AccessToken, "avatar", "me.png", []byte("\x89PNG fake image bytes"))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]string](t, rec)
		assert.True(t, strings.HasPrefix(body["avatarUrl"], "https://cdn.test/avatars/"))

		me := env.do(t, http.MethodGet, "/users/me", user.Tokens.AccessToken, nil)
		got := decodeBody[account.Account](t, me)
		assert.Equal(t, body["avatarUrl"], got.AvatarURL)
	})

	t.Run("replacing avatar deletes the old object", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.activeUser(t, "gh-av2", "avatarist2")

		first := multipartUpload(t, http.MethodPut, "/users/me/avatar",
			user.Tokens.AccessToken, "avatar", "a.png", []byte("one"))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, first)
		require.Equal(t, http.StatusOK, rec.Code)
		firstKey := env.images.puts[0]

		second := multipartUpload(t, http.MethodPut, "/users/me/avatar",
			user.Tokens.AccessToken, "avatar", "b.png", []byte("two"))
		rec = httptest.NewRecorder()
		env.handler.ServeHTTP(rec, second)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Contains(t, env.images.deletes, firstKey)
	})

	t.Run("missing file field", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.activeUser(t, "gh-av3", "avatarist3")

		rec := env.do(t, http.MethodPut, "/users/me/avatar", user.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteAvatar(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.activeUser(t, "gh-da", "deleter")

	req := multipartUpload(t, http.MethodPut, "/users/me/avatar",
		user.Tokens.AccessToken, "avatar", "a.png", []byte("img"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	key := env.images.puts[0]

	rec2 := env.do(t, http.MethodDelete, "/users/me/avatar", user.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Contains(t, env.images.deletes, key)

	me := env.do(t, http.MethodGet, "/users/me", user.Tokens.AccessToken, nil)
	got := decodeBody[account.Account](t, me)
	assert.Empty(t, got.AvatarURL)
}

func TestDeleteMe(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.activeUser(t, "gh-bye", "leaver")

	rec := env.do(t, http.MethodDelete, "/users/me", user.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Account is gone; the still-valid token no longer resolves.
	me := env.do(t, http.MethodGet, "/users/me", user.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, me.Code)
}
