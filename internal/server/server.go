// Package server hosts the three-screen UI over HTTP for the local
// browser. It is the environment that delivers user actions to the
// controller; all article logic lives below it.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"kbvault/internal/app"
	"kbvault/internal/model"
	"kbvault/internal/query"
	"kbvault/internal/store"
	"kbvault/internal/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

// formWidget adapts the posted form to the controller's content-editor
// collaborator. The browser textarea is the real widget; this mirrors
// its last submitted or preloaded value.
type formWidget struct{ value string }

func (w *formWidget) Value() string     { return w.value }
func (w *formWidget) SetValue(v string) { w.value = v }

// formConfirm answers the delete confirmation from the posted form
// field; the browser shows the actual prompt.
type formConfirm struct{ granted bool }

func (c *formConfirm) Confirm(string) bool { return c.granted }

type Server struct {
	ctrl    *app.Controller
	widget  *formWidget
	confirm *formConfirm
	logger  *zap.Logger
	router  *mux.Router
	server  *http.Server

	// Serializes actions: the controller assumes one action at a time.
	mu sync.Mutex

	// Single-user app, so one flash slot is enough.
	flash string
}

func New(st *store.ArticleStore, md app.Renderer, logger *zap.Logger) *Server {
	widget := &formWidget{}
	confirm := &formConfirm{}
	s := &Server{
		ctrl:    app.NewController(st, md, widget, confirm, logger),
		widget:  widget,
		confirm: confirm,
		logger:  logger,
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	s.router.HandleFunc("/", s.handleDashboard).Methods("GET")
	s.router.HandleFunc("/new", s.handleNew).Methods("GET")
	s.router.HandleFunc("/cancel", s.handleCancel).Methods("GET")
	s.router.HandleFunc("/articles", s.handleSave).Methods("POST")
	s.router.HandleFunc("/articles/{id}", s.handleView).Methods("GET")
	s.router.HandleFunc("/articles/{id}/edit", s.handleEdit).Methods("GET")
	s.router.HandleFunc("/articles/{id}/delete", s.handleDelete).Methods("POST")
}

func (s *Server) Handler() http.Handler { return s.router }

// Start launches the HTTP server.
func (s *Server) Start(port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("Web server listening", zap.String("addr", port))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) setFlash(message string) { s.flash = message }

func (s *Server) takeFlash() string {
	message := s.flash
	s.flash = ""
	return message
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	s.ctrl.SetSearchTerm(q.Get("q"))
	if f := q.Get("status"); f != "" {
		s.ctrl.SetStatusFilter(query.StatusFilter(f))
	}
	if k := q.Get("sort"); k != "" {
		s.ctrl.SetSort(query.SortKey(k))
	}
	s.ctrl.Back()

	s.render(w, "dashboard.html", s.ctrl.Render(), nil)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.SelectArticle(mux.Vars(r)["id"])
	snap := s.ctrl.Render()
	if snap.Screen != view.Viewer || snap.Viewer == nil {
		s.setFlash("Article not found.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "viewer.html", snap, nil)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.NewArticle()
	s.render(w, "editor.html", s.ctrl.Render(), nil)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.EditArticle(mux.Vars(r)["id"])
	snap := s.ctrl.Render()
	if snap.Screen != view.Editor {
		s.setFlash("Article not found.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "editor.html", snap, nil)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := r.FormValue("title")
	tags := splitTags(r.FormValue("tags"))
	status := model.ArticleStatus(r.FormValue("status"))

	// The posted textarea is the authoritative widget content.
	s.widget.SetValue(r.FormValue("content"))

	// Re-enter the editor when the posted hidden id does not match the
	// current view state, e.g. after a server restart mid-edit.
	if id := r.FormValue("id"); id != s.ctrl.CurrentArticleID() || s.ctrl.Screen() != view.Editor {
		if id == "" {
			s.ctrl.NewArticle()
			s.widget.SetValue(r.FormValue("content"))
		} else {
			s.ctrl.EditArticle(id)
			s.widget.SetValue(r.FormValue("content"))
		}
	}

	err := s.ctrl.SaveArticle(r.Context(), title, tags, status)
	if err != nil {
		if store.IsValidation(err) {
			// Blocking message; keep the user's input on screen.
			snap := s.ctrl.Render()
			if snap.Editor != nil {
				snap.Editor.Title = title
				snap.Editor.Content = s.widget.Value()
				snap.Editor.Tags = tags
			}
			s.render(w, "editor.html", snap, err)
			return
		}
		s.logger.Error("Save failed", zap.Error(err))
		s.setFlash("Could not save the article.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/articles/"+s.ctrl.CurrentArticleID(), http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.SelectArticle(mux.Vars(r)["id"])
	s.confirm.granted = r.FormValue("confirm") == "yes"

	if err := s.ctrl.DeleteArticle(r.Context()); err != nil {
		s.logger.Error("Delete failed", zap.Error(err))
		s.setFlash("Could not delete the article.")
	}

	if s.ctrl.Screen() == view.Viewer {
		// Confirmation declined: stay on the article.
		http.Redirect(w, r, "/articles/"+s.ctrl.CurrentArticleID(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.CancelEdit()
	if s.ctrl.Screen() == view.Viewer {
		http.Redirect(w, r, "/articles/"+s.ctrl.CurrentArticleID(), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// render parses the layout plus one page from the embedded set and
// executes it with the data the templates expect.
func (s *Server) render(w http.ResponseWriter, page string, snap app.Snapshot, saveErr error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
	if err != nil {
		s.logger.Error("Template error", zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Flash":   s.takeFlash(),
		"Sidebar": snap.Sidebar,
		"Cards":   snap.Cards,
		"Editor":  snap.Editor,
		"Viewer":  snap.Viewer,
		"Criteria": map[string]string{
			"Term":   snap.Criteria.Term,
			"Status": string(snap.Criteria.Status),
			"Sort":   string(snap.Criteria.SortBy),
		},
	}
	if snap.Viewer != nil {
		// Rendered by goldmark from trusted local input.
		data["Content"] = template.HTML(snap.Viewer.HTML)
	}
	if snap.Editor != nil {
		data["TagsJoined"] = strings.Join(snap.Editor.Tags, ", ")
		data["EditorStatus"] = string(snap.Editor.Status)
	}
	if saveErr != nil {
		data["Error"] = saveErr.Error()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("Template error", zap.Error(err))
	}
}

// splitTags parses the comma-separated tag input, keeping order and
// duplicates but dropping blank entries.
func splitTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
