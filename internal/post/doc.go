// Package post defines the publishing domain: articles written in
// markdown, slug-addressed, with draft and published states and an
// author-only private flag.
//
// Slugs are derived from titles at creation time and never change; a
// collision with an existing slug retries once with a random suffix.
// Rendered HTML is produced on read through goldmark and sanitized, never
// stored.
package post
