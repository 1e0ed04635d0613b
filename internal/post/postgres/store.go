// Package postgres implements post.Store on PostgreSQL via pgx.
//
// Slug uniqueness is enforced by a unique constraint and translated to
// post.ErrSlugTaken, so the service layer can retry with a suffixed slug.
package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/devlog/internal/post"
)

const slugConstraint = "posts_slug_key"

// Store is the PostgreSQL-backed post store.
type Store struct {
	pool *pgxpool.Pool
}

var _ post.Store = (*Store)(nil)

// New creates a Store over the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const postColumns = `p.id, p.author_id, p.title, p.slug, p.content, p.summary, p.thumbnail,
	p.status, p.is_private, p.tags, p.published_at, p.created_at, p.updated_at`

const authorColumns = `a.id, COALESCE(a.idname, ''), a.display_name, COALESCE(a.avatar_url, '')`

func scanPost(row pgx.Row, withAuthor bool) (*post.Post, error) {
	var p post.Post
	var summary, thumbnail *string

	dest := []any{&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Content, &summary, &thumbnail,
		&p.Status, &p.IsPrivate, &p.Tags, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt}

	var author post.Author
	if withAuthor {
		dest = append(dest, &author.ID, &author.Idname, &author.DisplayName, &author.AvatarURL)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if summary != nil {
		p.Summary = *summary
	}
	if thumbnail != nil {
		p.Thumbnail = *thumbnail
	}
	if withAuthor {
		p.Author = &author
	}
	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Store) Create(ctx context.Context, p post.Post) (*post.Post, error) {
	created, err := scanPost(s.pool.QueryRow(ctx,
		`INSERT INTO posts (author_id, title, slug, content, summary, thumbnail, status, is_private, tags, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+postColumns,
		p.AuthorID, p.Title, p.Slug, p.Content, nullable(p.Summary), nullable(p.Thumbnail),
		p.Status, p.IsPrivate, p.Tags, p.PublishedAt), false)
	if err != nil {
		return nil, wrapErr(err)
	}
	return created, nil
}

func (s *Store) Update(ctx context.Context, p post.Post) (*post.Post, error) {
	updated, err := scanPost(s.pool.QueryRow(ctx,
		`UPDATE posts
		 SET title = $2, content = $3, summary = $4, thumbnail = $5,
		     status = $6, is_private = $7, tags = $8, published_at = $9,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+postColumns,
		p.ID, p.Title, p.Content, nullable(p.Summary), nullable(p.Thumbnail),
		p.Status, p.IsPrivate, p.Tags, p.PublishedAt), false)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, post.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return updated, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (*post.Post, error) {
	p, err := scanPost(s.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id), false)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, post.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return p, nil
}

func (s *Store) FindBySlug(ctx context.Context, slug string) (*post.Post, error) {
	p, err := scanPost(s.pool.QueryRow(ctx,
		`SELECT `+postColumns+`, `+authorColumns+`
		 FROM posts p JOIN accounts a ON a.id = p.author_id
		 WHERE p.slug = $1`, slug), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, post.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return p, nil
}

func (s *Store) ListPublished(ctx context.Context, page post.Page) (*post.Listing, error) {
	where := `p.status = 'published' AND NOT p.is_private`
	args := []any{}
	if page.Query != "" {
		where += ` AND (p.title ILIKE '%' || $1 || '%' OR p.summary ILIKE '%' || $1 || '%')`
		args = append(args, page.Query)
	}
	return s.list(ctx, page, where, `p.published_at DESC`, args)
}

func (s *Store) ListByAuthor(ctx context.Context, authorID int64, includePrivate bool, page post.Page) (*post.Listing, error) {
	where := `p.author_id = $1 AND p.status = 'published'`
	if !includePrivate {
		where += ` AND NOT p.is_private`
	}
	return s.list(ctx, page, where, `p.published_at DESC`, []any{authorID})
}

func (s *Store) ListDrafts(ctx context.Context, authorID int64, page post.Page) (*post.Listing, error) {
	return s.list(ctx, page,
		`p.author_id = $1 AND p.status = 'draft'`, `p.updated_at DESC`,
		[]any{authorID})
}

// list runs a filtered, paginated query plus a matching count. Listing
// rows omit content to keep feed payloads small.
func (s *Store) list(ctx context.Context, page post.Page, where, order string, args []any) (*post.Listing, error) {
	listing := &post.Listing{Posts: []post.Post{}, Page: page.Page, Take: page.Take}

	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM posts p WHERE `+where, args...,
	).Scan(&listing.Total)
	if err != nil {
		return nil, wrapErr(err)
	}

	limitPos := len(args) + 1
	query := `SELECT p.id, p.author_id, p.title, p.slug, '', p.summary, p.thumbnail,
			p.status, p.is_private, p.tags, p.published_at, p.created_at, p.updated_at,
			` + authorColumns + `
		 FROM posts p JOIN accounts a ON a.id = p.author_id
		 WHERE ` + where + `
		 ORDER BY ` + order + `
		 LIMIT $` + strconv.Itoa(limitPos) + ` OFFSET $` + strconv.Itoa(limitPos+1)
	args = append(args, page.Take, page.Offset())

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPost(rows, true)
		if err != nil {
			return nil, wrapErr(err)
		}
		listing.Posts = append(listing.Posts, *p)
	}
	return listing, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrNotFound
	}
	return nil
}

// wrapErr maps PostgreSQL error codes to domain sentinels.
func wrapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == slugConstraint {
			return errors.Join(post.ErrSlugTaken, err)
		}
	}
	return err
}
