package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	r := NewRenderer()

	out, err := r.ToHTML("# Title\n\nSome **bold** text.")
	assert.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")

	// GFM strikethrough and tables are on.
	out, err = r.ToHTML("~~gone~~")
	assert.NoError(t, err)
	assert.Contains(t, out, "<del>gone</del>")

	out, err = r.ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	assert.NoError(t, err)
	assert.Contains(t, out, "<table>")
}

func TestToPlainText_StripsAllMarkup(t *testing.T) {
	r := NewRenderer()

	text := r.ToPlainText("# Heading\n\nA [link](https://example.com) and `code`.")
	assert.NotContains(t, text, "<")
	assert.NotContains(t, text, "#")
	assert.Contains(t, text, "Heading")
	assert.Contains(t, text, "link")
	assert.Contains(t, text, "code")
}

func TestSnippet_TruncatesWithEllipsis(t *testing.T) {
	r := NewRenderer()

	short := r.Snippet("just a few words")
	assert.Equal(t, "just a few words", short)

	long := r.Snippet(strings.Repeat("palavra ", 60))
	runes := []rune(long)
	assert.Len(t, runes, SnippetLength+1)
	assert.Equal(t, '…', runes[len(runes)-1])
}

func TestSnippet_CountsRunesNotBytes(t *testing.T) {
	r := NewRenderer()

	long := r.Snippet(strings.Repeat("ção ", 80))
	assert.Equal(t, SnippetLength+1, len([]rune(long)))
}
