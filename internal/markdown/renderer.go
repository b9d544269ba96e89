// Package markdown wraps the goldmark engine behind the small surface
// the rest of the app needs: HTML for the viewer, plain text for
// search, and truncated snippets for the dashboard cards.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	xhtml "golang.org/x/net/html"
)

// SnippetLength is how many characters of stripped text a dashboard
// card shows before the ellipsis.
const SnippetLength = 150

// Renderer converts Markdown to HTML. It is stateless after
// construction, so a single instance can be shared.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds an engine with GFM tables, strikethrough and task
// lists enabled and single newlines treated as hard breaks, matching
// the authoring conventions the articles were written with.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// ToHTML renders Markdown source into HTML.
func (r *Renderer) ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// ToPlainText renders the Markdown and strips all markup, leaving the
// visible text with runs of whitespace collapsed. A render failure
// degrades to the raw source rather than losing the content.
func (r *Renderer) ToPlainText(source string) string {
	rendered, err := r.ToHTML(source)
	if err != nil {
		rendered = source
	}
	return strings.Join(strings.Fields(stripTags(rendered)), " ")
}

// Snippet returns the first SnippetLength characters of the plain text
// with an ellipsis marker when the text was cut.
func (r *Renderer) Snippet(source string) string {
	text := r.ToPlainText(source)
	runes := []rune(text)
	if len(runes) <= SnippetLength {
		return text
	}
	return string(runes[:SnippetLength]) + "…"
}

// stripTags walks the HTML token stream and keeps only text content.
func stripTags(rendered string) string {
	tok := xhtml.NewTokenizer(strings.NewReader(rendered))
	var b strings.Builder
	for {
		switch tok.Next() {
		case xhtml.ErrorToken:
			return b.String()
		case xhtml.TextToken:
			b.Write(tok.Text())
			b.WriteByte(' ')
		}
	}
}
