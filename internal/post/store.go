package post

import "context"

// Store persists posts. Implementations map storage conflicts onto the
// package's sentinel errors, in particular slug collisions to ErrSlugTaken.
type Store interface {
	// Create inserts a post and returns it with generated fields set.
	Create(ctx context.Context, p Post) (*Post, error)

	// Update replaces the mutable fields of a post.
	Update(ctx context.Context, p Post) (*Post, error)

	// FindByID returns a post without its author.
	FindByID(ctx context.Context, id int64) (*Post, error)

	// FindBySlug returns a post with its author attached.
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// ListPublished returns the public feed: published, non-private
	// posts, newest first, optionally filtered by a title/summary query.
	ListPublished(ctx context.Context, page Page) (*Listing, error)

	// ListByAuthor returns an author's published posts, newest first.
	// Private posts are included only when includePrivate is set, so
	// authors see their own full list while everyone else sees the
	// public subset.
	ListByAuthor(ctx context.Context, authorID int64, includePrivate bool, page Page) (*Listing, error)

	// ListDrafts returns an author's drafts, most recently updated first.
	ListDrafts(ctx context.Context, authorID int64, page Page) (*Listing, error)

	// Delete removes a post.
	Delete(ctx context.Context, id int64) error
}
