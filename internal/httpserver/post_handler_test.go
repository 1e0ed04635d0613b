package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/devlog/internal/post"
)

func TestCreatePostEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("creates a draft", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.activeUser(t, "gh-p1", "writer1")

		rec := env.do(t, http.MethodPost, "/posts/", user.Tokens.AccessToken, post.Draft{
			Title:   "Hello World",
			Content: "# Hi",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		created := decodeBody[post.Post](t, rec)
		assert.Equal(t, "hello-world", created.Slug)
		assert.Equal(t, post.StatusDraft, created.Status)
	})

	t.Run("validation errors are 400", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.activeUser(t, "gh-p2", "writer2")

		rec := env.do(t, http.MethodPost, "/posts/", user.Tokens.AccessToken, post.Draft{
			Content: "missing title",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/posts/", "", post.Draft{Title: "x", Content: "y"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetPostEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("published post readable anonymously with HTML", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.activeUser(t, "gh-g1", "reader1")

		create := env.do(t, http.MethodPost, "/posts/", user.Tokens.AccessToken, post.Draft{
			Title: "Public Post", Content: "# Heading", Status: post.StatusPublished,
		})
		require.Equal(t, http.StatusCreated, create.Code)
		created := decodeBody[post.Post](t, create)

		rec := env.do(t, http.MethodGet, "/posts/"+created.Slug, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeBody[post.Post](t, rec)
		assert.Contains(t, got.HTML, "<h1>Heading</h1>")
	})

	t.Run("draft hidden from strangers but visible to author", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		author := env.activeUser(t, "gh-g2", "author2")
		stranger := env.activeUser(t, "gh-g3", "stranger3")

		create := env.do(t, http.MethodPost, "/posts/", author.Tokens.AccessToken, post.Draft{
			Title: "Secret Draft", Content: "wip",
		})
		created := decodeBody[post.Post](t, create)

		anon := env.do(t, http.MethodGet, "/posts/"+created.Slug, "", nil)
		require.Equal(t, http.StatusNotFound, anon.Code)

		other := env.do(t, http.MethodGet, "/posts/"+created.Slug, stranger.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusNotFound, other.Code)

		own := env.do(t, http.MethodGet, "/posts/"+created.Slug, author.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, own.Code)
	})
}

func TestFeedEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.activeUser(t, "gh-f1", "feeder")

	for _, title := range []string{"First Article", "Second Article"} {
		rec := env.do(t, http.MethodPost, "/posts/", user.Tokens.AccessToken, post.Draft{
			Title: title, Content: "body", Status: post.StatusPublished,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	draft := env.do(t, http.MethodPost, "/posts/", user.Tokens.AccessToken, post.Draft{
		Title: "Unfinished", Content: "body",
	})
	require.Equal(t, http.StatusCreated, draft.Code)

	t.Run("lists published only", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/posts/", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		listing := decodeBody[post.Listing](t, rec)
		assert.Equal(t, 2, listing.Total)
	})

	t.Run("query filter", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/posts/?q=first", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		listing := decodeBody[post.Listing](t, rec)
		require.Len(t, listing.Posts, 1)
		assert.Equal(t, "First Article", listing.Posts[0].Title)
	})

	t.Run("pagination parameters", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/posts/?page=1&take=1", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		listing := decodeBody[post.Listing](t, rec)
		assert.Equal(t, 2, listing.Total)
		assert.Len(t, listing.Posts, 1)
	})
}

func TestMyPostsAndDrafts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.activeUser(t, "gh-m1", "lister")

	pub := env.do(t, http.MethodPost, "/posts/", user.Tokens.AccessToken, post.Draft{
		Title: "Published Piece", Content: "body", Status: post.StatusPublished,
	})
	require.Equal(t, http.StatusCreated, pub.Code)
	dr := env.do(t, http.MethodPost, "/posts/", user.Tokens.AccessToken, post.Draft{
		Title: "Draft Piece", Content: "body",
	})
	require.Equal(t, http.StatusCreated, dr.Code)

	t.Run("my posts", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/users/me/posts", user.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listing := decodeBody[post.Listing](t, rec)
		require.Len(t, listing.Posts, 1)
		assert.Equal(t, "Published Piece", listing.Posts[0].Title)
	})

	t.Run("my drafts", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/users/me/drafts", user.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listing := decodeBody[post.Listing](t, rec)
		require.Len(t, listing.Posts, 1)
		assert.Equal(t, "Draft Piece", listing.Posts[0].Title)
	})

	t.Run("posts by idname", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/users/lister/posts", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listing := decodeBody[post.Listing](t, rec)
		require.Len(t, listing.Posts, 1)
	})
}

func TestPostsByIdnamePrivateVisibility(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.activeUser(t, "gh-priv1", "secretive")

	pub := env.do(t, http.MethodPost, "/posts/", user.Tokens.AccessToken, post.Draft{
		Title: "Open Piece", Content: "body", Status: post.StatusPublished,
	})
	require.Equal(t, http.StatusCreated, pub.Code)
	priv := env.do(t, http.MethodPost, "/posts/", user.Tokens.AccessToken, post.Draft{
		Title: "Members Only", Content: "body", Status: post.StatusPublished, IsPrivate: true,
	})
	require.Equal(t, http.StatusCreated, priv.Code)

	t.Run("anonymous viewer gets only public posts", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/users/secretive/posts", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listing := decodeBody[post.Listing](t, rec)
		require.Len(t, listing.Posts, 1)
		assert.Equal(t, "Open Piece", listing.Posts[0].Title)
	})

	t.Run("another user gets only public posts", func(t *testing.T) {
		other := env.activeUser(t, "gh-priv2", "bystander")
		rec := env.do(t, http.MethodGet, "/users/secretive/posts", other.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listing := decodeBody[post.Listing](t, rec)
		require.Len(t, listing.Posts, 1)
		assert.Equal(t, "Open Piece", listing.Posts[0].Title)
	})

	t.Run("author browsing own page sees private posts", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/users/secretive/posts", user.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		listing := decodeBody[post.Listing](t, rec)
		require.Len(t, listing.Posts, 2)
	})
}

func TestUpdatePostEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	author := env.activeUser(t, "gh-u1", "updater")
	other := env.activeUser(t, "gh-u2", "meddler")

	create := env.do(t, http.MethodPost, "/posts/", author.Tokens.AccessToken, post.Draft{
		Title: "Original", Content: "v1",
	})
	created := decodeBody[post.Post](t, create)
	id := idPath(created.ID)

	t.Run("author updates", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/posts/"+id, author.Tokens.AccessToken, post.Draft{
			Title: "Revised", Content: "v2",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[post.Post](t, rec)
		assert.Equal(t, "Revised", got.Title)
	})

	t.Run("non-author forbidden", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/posts/"+id, other.Tokens.AccessToken, post.Draft{
			Title: "Hijacked", Content: "v3",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/posts/abc", author.Tokens.AccessToken, post.Draft{
			Title: "x", Content: "y",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeletePostEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	author := env.activeUser(t, "gh-d1", "remover")
	other := env.activeUser(t, "gh-d2", "bystander")

	create := env.do(t, http.MethodPost, "/posts/", author.Tokens.AccessToken, post.Draft{
		Title: "Doomed", Content: "body", Status: post.StatusPublished,
	})
	created := decodeBody[post.Post](t, create)
	id := idPath(created.ID)

	t.Run("non-author forbidden", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/posts/"+id, other.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("author deletes", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/posts/"+id, author.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		gone := env.do(t, http.MethodGet, "/posts/"+created.Slug, author.Tokens.AccessToken, nil)
		require.Equal(t, http.StatusNotFound, gone.Code)
	})
}

func TestUploadPostImage(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.activeUser(t, "gh-i1", "imager")

	req := multipartUpload(t, http.MethodPost, "/posts/upload-image",
		user.Tokens.AccessToken, "image", "diagram.png", []byte("\x89PNG bytes"))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.True(t, strings.HasPrefix(body["url"], "https://cdn.test/posts/"))
}
