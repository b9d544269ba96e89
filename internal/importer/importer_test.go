package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kbvault/internal/blob"
	"kbvault/internal/model"
	"kbvault/internal/store"
)

// fakeFetcher returns a canned page instead of hitting the network.
type fakeFetcher struct {
	page readability.Article
	err  error
}

func (f fakeFetcher) Fetch(string, time.Duration) (*readability.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.page, nil
}

func newTestImporter(t *testing.T, f Fetcher) (*Importer, *store.ArticleStore) {
	t.Helper()

	b, err := blob.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	st := store.New(b, zap.NewNop())
	require.NoError(t, st.Load(context.Background()))

	imp := New(st, zap.NewNop())
	imp.fetcher = f
	return imp, st
}

func TestImport_StoresDraftWithMarkdownContent(t *testing.T) {
	imp, st := newTestImporter(t, fakeFetcher{page: readability.Article{
		Title:   "Interesting Post",
		Content: "<article><h2>Section</h2><p>Some <strong>bold</strong> text.</p></article>",
	}})

	id, err := imp.Import(context.Background(), "https://blog.example.com/post", 10*time.Second)
	require.NoError(t, err)

	a, err := st.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Interesting Post", a.Title)
	assert.Equal(t, model.StatusDraft, a.Status)
	assert.Contains(t, a.Tags, "imported")
	assert.Contains(t, a.Tags, "blog.example.com")
	assert.Contains(t, a.Content, "**bold**")
	assert.Contains(t, a.Content, "Imported from <https://blog.example.com/post>")
	assert.NotContains(t, a.Content, "<strong>")
}

func TestImport_Failures(t *testing.T) {
	imp, _ := newTestImporter(t, fakeFetcher{err: errors.New("boom")})
	_, err := imp.Import(context.Background(), "https://example.com", time.Second)
	assert.Error(t, err)

	imp, _ = newTestImporter(t, fakeFetcher{})
	_, err = imp.Import(context.Background(), "::not-a-url", time.Second)
	assert.Error(t, err)

	// Empty extraction is rejected rather than stored blank.
	imp, st := newTestImporter(t, fakeFetcher{page: readability.Article{Title: "Empty"}})
	_, err = imp.Import(context.Background(), "https://example.com/empty", time.Second)
	assert.Error(t, err)
	assert.Len(t, st.List(), 1, "only the seeded sample remains")
}
