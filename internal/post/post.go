package post

import (
	"time"
)

// Status is a post's publication state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ParseStatus converts a string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusPublished:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Author is the subset of account data attached to posts in listings.
type Author struct {
	ID          int64  `json:"id"`
	Idname      string `json:"idname"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Post is a blog article. Content holds the author's markdown source;
// rendered HTML is produced on read and never stored.
type Post struct {
	ID          int64      `json:"id"`
	AuthorID    int64      `json:"-"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content,omitempty"`
	HTML        string     `json:"html,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Status      Status     `json:"status"`
	IsPrivate   bool       `json:"isPrivate"`
	Tags        []string   `json:"tags,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Author *Author `json:"author,omitempty"`
}

// Draft holds the fields a client submits when creating or updating a post.
type Draft struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Summary   string   `json:"summary"`
	Thumbnail string   `json:"thumbnail"`
	Status    Status   `json:"status"`
	IsPrivate bool     `json:"isPrivate"`
	Tags      []string `json:"tags"`
}

// Validate checks draft fields before they reach storage.
func (d Draft) Validate() error {
	if d.Title == "" {
		return ErrEmptyTitle
	}
	if len(d.Title) > 255 {
		return ErrTitleTooLong
	}
	if d.Content == "" {
		return ErrEmptyContent
	}
	if d.Status != "" {
		if _, err := ParseStatus(string(d.Status)); err != nil {
			return err
		}
	}
	return nil
}

// Page is a paginated listing request. Page is 1-based.
type Page struct {
	Page  int
	Take  int
	Query string
}

// Normalize clamps pagination values to sane bounds.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Take < 1 || p.Take > 50 {
		p.Take = 20
	}
	return p
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Take
}

// Listing is one page of posts plus the total match count.
type Listing struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Take  int    `json:"take"`
}
