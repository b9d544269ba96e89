package app

import (
	"time"

	"kbvault/internal/model"
	"kbvault/internal/query"
	"kbvault/internal/view"
)

// Card is one dashboard grid entry.
type Card struct {
	ID        string
	Title     string
	Snippet   string
	Tags      []string
	Status    model.ArticleStatus
	UpdatedAt time.Time
}

// SidebarItem is one entry in the live-filtered article list.
type SidebarItem struct {
	ID     string
	Title  string
	Active bool
}

// ViewerModel is the rendered read-only display of one article.
type ViewerModel struct {
	ID        string
	Title     string
	HTML      string
	Tags      []string
	Status    model.ArticleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EditorModel prefills the create/edit form.
type EditorModel struct {
	ID      string
	Title   string
	Content string
	Tags    []string
	Status  model.ArticleStatus
	IsNew   bool
}

// Snapshot is everything a renderer needs for one frame. It is
// derived fresh from store + criteria + view state on every call and
// holds no state of its own.
type Snapshot struct {
	Screen   view.Screen
	Criteria query.Criteria
	Sidebar  []SidebarItem
	Cards    []Card
	Viewer   *ViewerModel
	Editor   *EditorModel
}

// Render derives the current frame. Calling it twice without an action
// in between yields the same snapshot.
func (c *Controller) Render() Snapshot {
	articles := c.store.List()

	snap := Snapshot{
		Screen:   c.state.Current(),
		Criteria: c.criteria,
		Sidebar:  c.sidebar(articles),
	}

	switch snap.Screen {
	case view.Viewer:
		snap.Viewer = c.viewerModel()
		if snap.Viewer == nil {
			// Reference went stale between action and render.
			c.state.ShowDashboard()
			snap.Screen = view.Dashboard
			snap.Cards = c.cards(articles)
		}
	case view.Editor:
		snap.Editor = c.editorModel()
	default:
		snap.Cards = c.cards(articles)
	}
	return snap
}

// sidebar applies the narrow title-only search; the grid search below
// uses the full mode over title, content and tags.
func (c *Controller) sidebar(articles []model.Article) []SidebarItem {
	crit := c.criteria
	crit.Mode = query.TitleOnlySearch
	matched := c.engine.Apply(articles, crit)

	items := make([]SidebarItem, len(matched))
	for i, a := range matched {
		items[i] = SidebarItem{
			ID:     a.ID,
			Title:  a.Title,
			Active: a.ID == c.state.ArticleID(),
		}
	}
	return items
}

func (c *Controller) cards(articles []model.Article) []Card {
	crit := c.criteria
	crit.Mode = query.FullSearch
	matched := c.engine.Apply(articles, crit)

	cards := make([]Card, len(matched))
	for i, a := range matched {
		cards[i] = Card{
			ID:        a.ID,
			Title:     a.Title,
			Snippet:   c.markdown.Snippet(a.Content),
			Tags:      a.Tags,
			Status:    a.Status,
			UpdatedAt: a.UpdatedAt,
		}
	}
	return cards
}

func (c *Controller) viewerModel() *ViewerModel {
	a, err := c.store.Get(c.state.ArticleID())
	if err != nil {
		return nil
	}
	html, err := c.markdown.ToHTML(a.Content)
	if err != nil {
		c.logger.Warn("Viewer render failed, showing raw source")
		html = a.Content
	}
	return &ViewerModel{
		ID:        a.ID,
		Title:     a.Title,
		HTML:      html,
		Tags:      a.Tags,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (c *Controller) editorModel() *EditorModel {
	id := c.state.ArticleID()
	if id == "" {
		return &EditorModel{
			Status: model.DefaultStatus,
			Tags:   []string{},
			IsNew:  true,
		}
	}
	a, err := c.store.Get(id)
	if err != nil {
		return &EditorModel{Status: model.DefaultStatus, Tags: []string{}, IsNew: true}
	}
	return &EditorModel{
		ID:      a.ID,
		Title:   a.Title,
		Content: c.editor.Value(),
		Tags:    a.Tags,
		Status:  a.Status,
		IsNew:   false,
	}
}
