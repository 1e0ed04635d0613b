// Package slug generates URL-safe slugs from arbitrary strings.
//
//	slug.Make("Hello, World!")                  // "hello-world"
//	slug.Make("Café & Restaurant")              // "cafe-restaurant"
//	slug.Make("Article Title", slug.WithSuffix(6)) // "article-title-x3k7f9"
//
// Common Latin diacritics are normalized to ASCII; characters the
// normalization cannot map collapse into separators. WithSuffix appends a
// random suffix for collision resistance.
package slug
