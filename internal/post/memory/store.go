// Package memory provides an in-memory post.Store used in tests. It
// mirrors the postgres store's semantics, including slug uniqueness and
// listing order.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/devlog/internal/post"
)

// Store is a mutex-guarded in-memory post store.
type Store struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*post.Post

	// Authors resolves author details for listings; tests register
	// entries for the accounts they use.
	authors map[int64]post.Author
}

var _ post.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		nextID:  1,
		posts:   make(map[int64]*post.Post),
		authors: make(map[int64]post.Author),
	}
}

// RegisterAuthor makes author details available to listings.
func (s *Store) RegisterAuthor(a post.Author) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors[a.ID] = a
}

func (s *Store) Create(_ context.Context, p post.Post) (*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.posts {
		if existing.Slug == p.Slug {
			return nil, post.ErrSlugTaken
		}
	}

	now := time.Now()
	p.ID = s.nextID
	s.nextID++
	p.CreatedAt = now
	p.UpdatedAt = now

	stored := p
	s.posts[p.ID] = &stored
	out := p
	return &out, nil
}

func (s *Store) Update(_ context.Context, p post.Post) (*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[p.ID]
	if !ok {
		return nil, post.ErrNotFound
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	stored := p
	s.posts[p.ID] = &stored
	out := p
	return &out, nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (s *Store) FindBySlug(_ context.Context, slug string) (*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.Slug == slug {
			out := *p
			if a, ok := s.authors[p.AuthorID]; ok {
				out.Author = &a
			}
			return &out, nil
		}
	}
	return nil, post.ErrNotFound
}

func (s *Store) ListPublished(_ context.Context, page post.Page) (*post.Listing, error) {
	return s.list(page, func(p *post.Post) bool {
		if p.Status != post.StatusPublished || p.IsPrivate {
			return false
		}
		if page.Query == "" {
			return true
		}
		q := strings.ToLower(page.Query)
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Summary), q)
	}, byPublishedAt)
}

func (s *Store) ListByAuthor(_ context.Context, authorID int64, includePrivate bool, page post.Page) (*post.Listing, error) {
	return s.list(page, func(p *post.Post) bool {
		if p.AuthorID != authorID || p.Status != post.StatusPublished {
			return false
		}
		return includePrivate || !p.IsPrivate
	}, byPublishedAt)
}

func (s *Store) ListDrafts(_ context.Context, authorID int64, page post.Page) (*post.Listing, error) {
	return s.list(page, func(p *post.Post) bool {
		return p.AuthorID == authorID && p.Status == post.StatusDraft
	}, byUpdatedAt)
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return post.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func byPublishedAt(a, b *post.Post) bool {
	at, bt := a.CreatedAt, b.CreatedAt
	if a.PublishedAt != nil {
		at = *a.PublishedAt
	}
	if b.PublishedAt != nil {
		bt = *b.PublishedAt
	}
	return at.After(bt)
}

func byUpdatedAt(a, b *post.Post) bool {
	return a.UpdatedAt.After(b.UpdatedAt)
}

func (s *Store) list(page post.Page, match func(*post.Post) bool, newer func(a, b *post.Post) bool) (*post.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*post.Post
	for _, p := range s.posts {
		if match(p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return newer(matched[i], matched[j]) })

	listing := &post.Listing{Posts: []post.Post{}, Total: len(matched), Page: page.Page, Take: page.Take}
	start := page.Offset()
	for i := start; i < len(matched) && i < start+page.Take; i++ {
		out := *matched[i]
		out.Content = ""
		if a, ok := s.authors[out.AuthorID]; ok {
			out.Author = &a
		}
		listing.Posts = append(listing.Posts, out)
	}
	return listing, nil
}
