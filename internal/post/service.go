package post

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/devlog/pkg/slug"
)

// ImageRemover deletes stored objects referenced by a post. Satisfied by
// *storage.ImageStore.
type ImageRemover interface {
	Delete(ctx context.Context, key string) error
}

// Service implements the publishing flows on top of a Store.
type Service struct {
	store  Store
	images ImageRemover
	log    *slog.Logger
}

// NewService creates a post service. images may be nil, in which case
// delete skips object cleanup.
func NewService(store Store, images ImageRemover, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, images: images, log: log}
}

// Create validates the draft, generates a unique slug from the title, and
// stores the post. Publishing stamps PublishedAt.
func (s *Service) Create(ctx context.Context, authorID int64, d Draft) (*Post, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Status == "" {
		d.Status = StatusDraft
	}

	p := Post{
		AuthorID:  authorID,
		Title:     d.Title,
		Content:   d.Content,
		Summary:   d.Summary,
		Thumbnail: d.Thumbnail,
		Status:    d.Status,
		IsPrivate: d.IsPrivate,
		Tags:      d.Tags,
	}
	if d.Status == StatusPublished {
		now := time.Now()
		p.PublishedAt = &now
	}

	// Prefer the clean slug; fall back to a suffixed one when another
	// post already claimed it.
	p.Slug = slug.Make(d.Title)
	created, err := s.store.Create(ctx, p)
	if errors.Is(err, ErrSlugTaken) {
		p.Slug = slug.Make(d.Title, slug.WithSuffix(6))
		created, err = s.store.Create(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces a post's content. Only the author may update, and the
// slug never changes after creation. Publishing a draft stamps PublishedAt
// once.
func (s *Service) Update(ctx context.Context, authorID, id int64, d Draft) (*Post, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != authorID {
		return nil, ErrNotAuthor
	}

	existing.Title = d.Title
	existing.Content = d.Content
	existing.Summary = d.Summary
	existing.Thumbnail = d.Thumbnail
	existing.IsPrivate = d.IsPrivate
	existing.Tags = d.Tags
	if d.Status != "" {
		if existing.Status != StatusPublished && d.Status == StatusPublished {
			now := time.Now()
			existing.PublishedAt = &now
		}
		existing.Status = d.Status
	}

	return s.store.Update(ctx, *existing)
}

// Get returns a post by slug with rendered HTML. Drafts and private posts
// are visible only to their author; for everyone else they do not exist.
// viewerID is zero for anonymous readers.
func (s *Service) Get(ctx context.Context, postSlug string, viewerID int64) (*Post, error) {
	p, err := s.store.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if (p.Status != StatusPublished || p.IsPrivate) && p.AuthorID != viewerID {
		return nil, ErrNotFound
	}

	html, err := RenderHTML(p.Content)
	if err != nil {
		return nil, err
	}
	p.HTML = html
	return p, nil
}

// Feed returns the public feed page.
func (s *Service) Feed(ctx context.Context, page Page) (*Listing, error) {
	return s.store.ListPublished(ctx, page.Normalize())
}

// ByAuthor returns an author's published posts. Private posts show up
// only when the viewer is the author, mirroring Get's visibility rule.
// viewerID is zero for anonymous readers.
func (s *Service) ByAuthor(ctx context.Context, authorID, viewerID int64, page Page) (*Listing, error) {
	return s.store.ListByAuthor(ctx, authorID, authorID == viewerID, page.Normalize())
}

// Drafts returns the caller's unpublished posts.
func (s *Service) Drafts(ctx context.Context, authorID int64, page Page) (*Listing, error) {
	return s.store.ListDrafts(ctx, authorID, page.Normalize())
}

// Delete removes a post and cleans up the images it references. Only the
// author may delete. Image cleanup failures are logged, never fatal.
func (s *Service) Delete(ctx context.Context, authorID, id int64) error {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != authorID {
		return ErrNotAuthor
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if s.images != nil {
		for _, key := range collectImageKeys(p) {
			if err := s.images.Delete(ctx, key); err != nil {
				s.log.WarnContext(ctx, "post image cleanup failed",
					slog.Int64("post_id", id),
					slog.String("key", key),
					slog.String("error", err.Error()))
			}
		}
	}
	return nil
}

// markdownImageRe matches ![alt](url) references in post content.
var markdownImageRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)

// collectImageKeys extracts the storage keys of uploaded images referenced
// by the post. Only URLs under a posts/ path belong to us; external image
// links are left alone.
func collectImageKeys(p *Post) []string {
	var keys []string
	seen := make(map[string]struct{})

	add := func(url string) {
		_, after, found := strings.Cut(url, "/posts/")
		if !found || after == "" {
			return
		}
		key := "posts/" + after
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	add(p.Thumbnail)
	for _, m := range markdownImageRe.FindAllStringSubmatch(p.Content, -1) {
		add(m[1])
	}
	return keys
}
