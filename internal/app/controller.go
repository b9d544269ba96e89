// Package app orchestrates user intents into store mutations and
// view-state transitions, and derives the render model the UI shows.
// Every action follows the same shape: validate input, mutate the
// store, update view state, then the caller re-renders.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"kbvault/internal/model"
	"kbvault/internal/query"
	"kbvault/internal/store"
	"kbvault/internal/view"
)

// Confirmer asks the user to approve a destructive action. A declined
// confirmation turns the action into a no-op.
type Confirmer interface {
	Confirm(message string) bool
}

// ContentEditor is the text-editing widget. While the editor screen is
// active it is the authoritative source of the article's Markdown.
type ContentEditor interface {
	Value() string
	SetValue(string)
}

// Renderer is the Markdown collaborator the controller renders viewer
// HTML and dashboard snippets with.
type Renderer interface {
	ToHTML(markdown string) (string, error)
	ToPlainText(markdown string) string
	Snippet(markdown string) string
}

// Controller wires the store, query engine, view state and
// collaborators together. Actions are serialized: the hosting
// environment delivers them one at a time.
type Controller struct {
	store     *store.ArticleStore
	engine    *query.Engine
	state     *view.State
	criteria  query.Criteria
	markdown  Renderer
	editor    ContentEditor
	confirmer Confirmer
	logger    *zap.Logger
}

func NewController(st *store.ArticleStore, md Renderer, ed ContentEditor, cf Confirmer, logger *zap.Logger) *Controller {
	return &Controller{
		store:     st,
		engine:    query.NewEngine(md),
		state:     view.NewState(),
		criteria:  query.Default(),
		markdown:  md,
		editor:    ed,
		confirmer: cf,
		logger:    logger,
	}
}

// Load restores the collection and clears any view state that no
// longer resolves. CorruptStateError recovery happens inside the
// store; from here a failed reference just lands on the dashboard.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.store.Load(ctx); err != nil {
		return err
	}
	c.state.Revalidate(c.resolves)
	return nil
}

// SelectArticle opens the viewer on id, or the dashboard when the id
// no longer resolves.
func (c *Controller) SelectArticle(id string) {
	c.state.Select(id, c.resolves)
}

// NewArticle enters the editor in create mode with an empty widget.
func (c *Controller) NewArticle() {
	c.state.EditNew()
	c.editor.SetValue("")
}

// EditArticle enters the editor preloaded from the article, falling
// back to the dashboard when the id is stale.
func (c *Controller) EditArticle(id string) {
	c.state.EditExisting(id, c.resolves)
	if c.state.Current() != view.Editor {
		return
	}
	a, err := c.store.Get(id)
	if err != nil {
		c.state.ShowDashboard()
		return
	}
	c.editor.SetValue(a.Content)
}

// SaveArticle reads the Markdown from the editing widget and either
// creates a new article or updates the one being edited, then moves to
// the viewer on the saved article. A validation error leaves store and
// view state untouched so the editor can surface the message and keep
// the user's input.
func (c *Controller) SaveArticle(ctx context.Context, title string, tags []string, status model.ArticleStatus) error {
	if c.state.Current() != view.Editor {
		return fmt.Errorf("save outside editor screen")
	}
	content := c.editor.Value()

	id := c.state.ArticleID()
	if id == "" {
		newID, err := c.store.Create(ctx, title, content, tags, status)
		if err != nil {
			return err
		}
		id = newID
	} else {
		err := c.store.Update(ctx, id, title, content, tags, status)
		if errors.Is(err, store.ErrNotFound) {
			// Edited article vanished underneath us.
			c.state.ShowDashboard()
			return err
		}
		if err != nil {
			return err
		}
	}

	c.state.Saved(id)
	return nil
}

// CancelEdit leaves the editor without saving.
func (c *Controller) CancelEdit() {
	c.state.Cancel()
}

// DeleteArticle removes the currently viewed article after an explicit
// confirmation. Declined confirmation is a no-op with no state change.
func (c *Controller) DeleteArticle(ctx context.Context) error {
	id := c.state.ArticleID()
	if id == "" {
		return nil
	}
	a, err := c.store.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		c.state.ShowDashboard()
		return nil
	}
	if err != nil {
		return err
	}

	if !c.confirmer.Confirm(fmt.Sprintf("Are you sure you want to delete %q?", a.Title)) {
		return nil
	}

	if err := c.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.state.ShowDashboard()
			return nil
		}
		return err
	}
	c.state.Revalidate(c.resolves)
	c.logger.Info("Article removed via controller", zap.String("id", id))
	return nil
}

// Back is the explicit return-to-dashboard action.
func (c *Controller) Back() {
	c.state.ShowDashboard()
}

// Criteria setters adjust the transient query parameters; the next
// render picks them up.

func (c *Controller) SetStatusFilter(f query.StatusFilter) { c.criteria.Status = f }
func (c *Controller) SetSort(k query.SortKey)              { c.criteria.SortBy = k }
func (c *Controller) SetSearchTerm(term string)            { c.criteria.Term = term }

func (c *Controller) Criteria() query.Criteria { return c.criteria }

func (c *Controller) Screen() view.Screen { return c.state.Current() }

func (c *Controller) CurrentArticleID() string { return c.state.ArticleID() }

func (c *Controller) resolves(id string) bool {
	_, err := c.store.Get(id)
	return err == nil
}
