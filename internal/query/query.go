// Package query derives the sequence of articles to display from the
// full collection and the current criteria. It is a pure pipeline:
// filter by status, then search, then sort. The input slice is never
// mutated and identical inputs always produce identical output.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"kbvault/internal/model"
)

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterDraft     StatusFilter = "draft"
	FilterPublished StatusFilter = "published"
)

type SortKey string

const (
	SortByUpdated SortKey = "updatedAt"
	SortByCreated SortKey = "createdAt"
	SortByTitle   SortKey = "title"
)

// SearchMode selects which fields the search term is matched against.
// The sidebar's live filter looks at titles only; the dashboard grid
// searches title, content and tags.
type SearchMode int

const (
	TitleOnlySearch SearchMode = iota
	FullSearch
)

// Criteria are the transient filter/search/sort parameters. The zero
// value is not meaningful; use Default.
type Criteria struct {
	Status StatusFilter
	SortBy SortKey
	Term   string
	Mode   SearchMode
}

func Default() Criteria {
	return Criteria{Status: FilterAll, SortBy: SortByUpdated, Mode: FullSearch}
}

// Plaintexter turns Markdown into plain text so full search can match
// against rendered content rather than raw markup.
type Plaintexter interface {
	ToPlainText(markdown string) string
}

// Engine applies criteria to an article list. It holds no state beyond
// its collaborators and a reusable collator.
type Engine struct {
	plain Plaintexter
	coll  *collate.Collator
}

func NewEngine(plain Plaintexter) *Engine {
	return &Engine{
		plain: plain,
		coll:  collate.New(language.Und, collate.IgnoreCase),
	}
}

// Apply runs the fixed filter → search → sort pipeline and returns a
// fresh slice.
func (e *Engine) Apply(articles []model.Article, c Criteria) []model.Article {
	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if !matchStatus(a, c.Status) {
			continue
		}
		if !e.matchTerm(a, c) {
			continue
		}
		out = append(out, a)
	}
	e.sortArticles(out, c.SortBy)
	return out
}

func matchStatus(a model.Article, f StatusFilter) bool {
	switch f {
	case FilterDraft:
		return a.Status == model.StatusDraft
	case FilterPublished:
		return a.Status == model.StatusPublished
	default:
		return true
	}
}

func (e *Engine) matchTerm(a model.Article, c Criteria) bool {
	term := strings.ToLower(strings.TrimSpace(c.Term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Title), term) {
		return true
	}
	if c.Mode == TitleOnlySearch {
		return false
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(e.plain.ToPlainText(a.Content)), term)
}

// sortArticles orders in place. Timestamps sort most recent first,
// titles ascending with locale-aware, case-insensitive comparison.
// The sort is stable so equal keys keep their prior relative order.
func (e *Engine) sortArticles(articles []model.Article, key SortKey) {
	switch key {
	case SortByTitle:
		sort.SliceStable(articles, func(i, j int) bool {
			return e.coll.CompareString(articles[i].Title, articles[j].Title) < 0
		})
	case SortByCreated:
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].CreatedAt.After(articles[j].CreatedAt)
		})
	default:
		sort.SliceStable(articles, func(i, j int) bool {
			return articles[i].UpdatedAt.After(articles[j].UpdatedAt)
		})
	}
}
