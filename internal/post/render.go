package post

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"github.com/dmitrymomot/devlog/pkg/sanitizer"
)

// markdown renders article bodies. Raw HTML passes through the renderer
// and is neutralized by the sanitizer afterwards.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(htmlrenderer.WithUnsafe()),
)

// RenderHTML converts markdown content into sanitized HTML.
func RenderHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("post: render markdown: %w", err)
	}
	return sanitizer.SanitizeArticle(buf.String()), nil
}
