// Package sanitizer strips unsafe HTML from user-generated content.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy  *bluemonday.Policy
	articlePolicy *bluemonday.Policy
	initOnce      sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		// Covers everything goldmark emits for CommonMark plus GFM tables
		// and strikethrough. Scripts, event handlers and javascript: URLs
		// are always stripped.
		articlePolicy = bluemonday.NewPolicy()
		articlePolicy.AllowStandardURLs()
		articlePolicy.AllowElements(
			"p", "br", "hr",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "b", "em", "i", "del", "s",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		articlePolicy.AllowAttrs("href").OnElements("a")
		articlePolicy.AllowAttrs("src", "alt", "title").OnElements("img")
		articlePolicy.AllowImages()
		articlePolicy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code")
		articlePolicy.RequireNoFollowOnLinks(true)
	})
}

// SanitizeArticle cleans rendered article HTML, keeping the formatting
// markdown produces (headings, lists, tables, code blocks, images) while
// removing anything executable.
func SanitizeArticle(s string) string {
	initPolicies()
	return articlePolicy.Sanitize(s)
}

// StripHTML removes every tag and returns plain text. Use for excerpts and
// fields that must never contain markup.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}
