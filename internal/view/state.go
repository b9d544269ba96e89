// Package view tracks which of the three screens is active and which
// article, if any, is its subject. The article reference is weak: when
// it stops resolving, the state falls back to the dashboard.
package view

type Screen string

const (
	Dashboard Screen = "dashboard"
	Viewer    Screen = "viewer"
	Editor    Screen = "editor"
)

// Resolver reports whether an article id still exists in the
// collection. The store's Get backs it in production.
type Resolver func(id string) bool

// State is the view-state machine. The zero value is not initial
// state; use NewState.
type State struct {
	current Screen

	// articleID is empty on the dashboard and in create mode.
	articleID string

	// editingExisting remembers whether the editor was entered from an
	// existing article, which decides where cancel returns to.
	editingExisting bool
}

// NewState starts at the dashboard with no article selected, which is
// also the state immediately after first-run seeding.
func NewState() *State {
	return &State{current: Dashboard}
}

func (s *State) Current() Screen   { return s.current }
func (s *State) ArticleID() string { return s.articleID }

// Select opens the viewer on the given article. An id that does not
// resolve falls back to the dashboard instead.
func (s *State) Select(id string, resolves Resolver) {
	if !resolves(id) {
		s.ShowDashboard()
		return
	}
	s.current = Viewer
	s.articleID = id
}

// EditNew enters the editor in create mode.
func (s *State) EditNew() {
	s.current = Editor
	s.articleID = ""
	s.editingExisting = false
}

// EditExisting enters the editor on the given article. It requires a
// resolvable id; otherwise the machine falls back to the dashboard.
func (s *State) EditExisting(id string, resolves Resolver) {
	if !resolves(id) {
		s.ShowDashboard()
		return
	}
	s.current = Editor
	s.articleID = id
	s.editingExisting = true
}

// Saved moves from the editor to the viewer on the just-saved article.
func (s *State) Saved(id string) {
	s.current = Viewer
	s.articleID = id
	s.editingExisting = false
}

// Cancel leaves the editor: back to the viewer when editing an
// existing article, back to the dashboard when creating.
func (s *State) Cancel() {
	if s.editingExisting && s.articleID != "" {
		s.current = Viewer
		s.editingExisting = false
		return
	}
	s.ShowDashboard()
}

// ShowDashboard is the explicit back action and the safety fallback
// for any state whose article reference went stale.
func (s *State) ShowDashboard() {
	s.current = Dashboard
	s.articleID = ""
	s.editingExisting = false
}

// Revalidate clears state that references an article that no longer
// exists, e.g. after a delete or a reload. It is a no-op while no
// article is referenced.
func (s *State) Revalidate(resolves Resolver) {
	if s.articleID == "" {
		return
	}
	if !resolves(s.articleID) {
		s.ShowDashboard()
	}
}
