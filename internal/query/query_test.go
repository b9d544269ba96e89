package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kbvault/internal/model"
)

// rawText satisfies Plaintexter without a Markdown engine; the raw
// source is close enough for search tests.
type rawText struct{}

func (rawText) ToPlainText(md string) string { return md }

func newTestEngine() *Engine { return NewEngine(rawText{}) }

func at(offset int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Hour)
}

func fixture() []model.Article {
	return []model.Article{
		{ID: "1", Title: "Banana", Content: "yellow fruit", Tags: []string{"fruta"}, Status: model.StatusPublished, CreatedAt: at(1), UpdatedAt: at(1)},
		{ID: "2", Title: "apple", Content: "red fruit", Tags: []string{"introdução"}, Status: model.StatusDraft, CreatedAt: at(2), UpdatedAt: at(3)},
		{ID: "3", Title: "Cherry", Content: "small fruit", Tags: []string{}, Status: model.StatusPublished, CreatedAt: at(3), UpdatedAt: at(2)},
	}
}

func ids(articles []model.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func TestApply_StatusFilter(t *testing.T) {
	e := newTestEngine()
	arts := fixture()

	c := Default()
	c.Status = FilterDraft
	assert.Len(t, e.Apply(arts, c), 1)

	c.Status = FilterPublished
	assert.Len(t, e.Apply(arts, c), 2)

	c.Status = FilterAll
	assert.Len(t, e.Apply(arts, c), 3)
}

func TestApply_TitleSortIsLocaleAwareAndCaseInsensitive(t *testing.T) {
	e := newTestEngine()
	c := Default()
	c.SortBy = SortByTitle

	got := e.Apply(fixture(), c)
	titles := []string{got[0].Title, got[1].Title, got[2].Title}
	assert.Equal(t, []string{"apple", "Banana", "Cherry"}, titles)
}

func TestApply_TimestampSortsDescending(t *testing.T) {
	e := newTestEngine()
	arts := fixture() // updatedAt: 1→t1, 2→t3, 3→t2

	c := Default()
	c.SortBy = SortByUpdated
	assert.Equal(t, []string{"2", "3", "1"}, ids(e.Apply(arts, c)))

	c.SortBy = SortByCreated
	assert.Equal(t, []string{"3", "2", "1"}, ids(e.Apply(arts, c)))
}

func TestApply_SearchModes(t *testing.T) {
	e := newTestEngine()
	arts := fixture()

	// "intro" only appears in article 2's tag "introdução": full search
	// finds it, the title-only sidebar mode does not.
	c := Default()
	c.Term = "intro"
	c.Mode = FullSearch
	assert.Equal(t, []string{"2"}, ids(e.Apply(arts, c)))

	c.Mode = TitleOnlySearch
	assert.Empty(t, e.Apply(arts, c))

	// Title matches are case-insensitive in both modes.
	c.Term = "BANANA"
	assert.Equal(t, []string{"1"}, ids(e.Apply(arts, c)))

	// Content matches only in full mode.
	c = Default()
	c.Term = "yellow"
	c.Mode = FullSearch
	assert.Equal(t, []string{"1"}, ids(e.Apply(arts, c)))
	c.Mode = TitleOnlySearch
	assert.Empty(t, e.Apply(arts, c))
}

func TestApply_FilterRunsBeforeSearch(t *testing.T) {
	e := newTestEngine()

	c := Default()
	c.Status = FilterPublished
	c.Term = "fruit"
	c.Mode = FullSearch
	got := e.Apply(fixture(), c)
	assert.Len(t, got, 2, "the draft containing 'fruit' is filtered out first")
}

func TestApply_PureAndIdempotent(t *testing.T) {
	e := newTestEngine()
	arts := fixture()
	orig := ids(arts)

	c := Default()
	c.SortBy = SortByTitle

	first := e.Apply(arts, c)
	second := e.Apply(arts, c)
	assert.Equal(t, first, second, "same inputs, same output")
	assert.Equal(t, orig, ids(arts), "input order is never mutated")
}
